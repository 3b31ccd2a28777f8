package amiapi

import (
	"context"
	"encoding/json"
	"net/http"

	"resty.dev/v3"
)

type reactRequest struct {
	EmojiAID string `json:"emoji_aid"`
}

func reactionPath(postAID string) string {
	return postsPath + "/" + segment(postAID) + "/reaction"
}

// React sets the viewer's reaction on a post, replacing any previous one.
// The returned post is nil unless the backend answers with a snapshot.
func (c *Client) React(ctx context.Context, postAID, emojiAID string) (*Post, error) {
	res, err := c.do(ctx, "React", http.MethodPost, reactionPath(postAID), nil,
		withBody(reactRequest{EmojiAID: emojiAID}))
	if err != nil {
		return nil, err
	}
	return optionalPost(res)
}

func (c *Client) Unreact(ctx context.Context, postAID string) (*Post, error) {
	res, err := c.do(ctx, "Unreact", http.MethodDelete, reactionPath(postAID), nil)
	if err != nil {
		return nil, err
	}
	return optionalPost(res)
}

func optionalPost(res *resty.Response) (*Post, error) {
	body := res.String()
	if emptyBody(body) {
		return nil, nil
	}

	post := &Post{}
	if err := json.Unmarshal([]byte(body), post); err != nil {
		return nil, err
	}
	if post.AID == "" {
		return nil, nil
	}
	return post, nil
}
