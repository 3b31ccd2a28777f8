package amiapi

import (
	"context"
	"net/http"
)

const (
	feedsPath  = "/feeds/"
	searchPath = "/search"
)

type feedRequest struct {
	Cursor *int64 `json:"cursor,omitempty"`
}

type searchRequest struct {
	Query  string `json:"query"`
	Cursor *int64 `json:"cursor,omitempty"`
}

// Feed fetches one page of the named feed. Account feeds use the account aid
// as the feed type. A nil cursor requests the newest page.
func (c *Client) Feed(ctx context.Context, feedType string, cursor *int64) (*Page, error) {
	page := &Page{}
	_, err := c.do(ctx, "Feed", http.MethodPost, feedsPath+segment(feedType), page,
		withBody(feedRequest{Cursor: cursor}))
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) Search(ctx context.Context, query string, cursor *int64) (*Page, error) {
	page := &Page{}
	_, err := c.do(ctx, "Search", http.MethodPost, searchPath, page,
		withBody(searchRequest{Query: query, Cursor: cursor}))
	if err != nil {
		return nil, err
	}
	return page, nil
}
