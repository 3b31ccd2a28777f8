package amiapi

import (
	"context"
	"io"
	"net/http"

	"resty.dev/v3"
)

const (
	postsPath = "/posts"
)

// MediaFile is one image or video attached to a new post.
type MediaFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// DrawingAttributes carries the composer's packed bitmap, passed through opaquely.
type DrawingAttributes struct {
	Data        string
	Name        string
	Description string
}

type NewPost struct {
	Content    string
	Visibility Visibility
	ReplyAID   string
	QuoteAID   string
	Media      []MediaFile
	Drawing    *DrawingAttributes
}

func (p *NewPost) formData() map[string]string {
	form := map[string]string{
		"post[content]":    p.Content,
		"post[visibility]": string(p.Visibility),
	}
	if p.ReplyAID != "" {
		form["post[reply_aid]"] = p.ReplyAID
	}
	if p.QuoteAID != "" {
		form["post[quote_aid]"] = p.QuoteAID
	}
	if p.Drawing != nil {
		form["post[drawing_attributes][data]"] = p.Drawing.Data
		form["post[drawing_attributes][name]"] = p.Drawing.Name
		form["post[drawing_attributes][description]"] = p.Drawing.Description
	}
	return form
}

func (p *NewPost) multipartFields() []*resty.MultipartField {
	fields := make([]*resty.MultipartField, 0, len(p.Media))
	for _, m := range p.Media {
		fields = append(fields, &resty.MultipartField{
			Name:        "post[media_files][]",
			FileName:    m.Name,
			ContentType: m.ContentType,
			Reader:      m.Reader,
		})
	}
	return fields
}

// Post fetches a single post together with its direct replies.
func (c *Client) Post(ctx context.Context, aid string) (*PostDetail, error) {
	detail := &PostDetail{}
	if _, err := c.do(ctx, "Post", http.MethodPost, postsPath+"/"+segment(aid), detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (c *Client) CreatePost(ctx context.Context, post *NewPost) (*Post, error) {
	created := &Post{}
	_, err := c.do(ctx, "CreatePost", http.MethodPost, postsPath, created, func(r *resty.Request) {
		r.SetMultipartFormData(post.formData())
		if fields := post.multipartFields(); len(fields) > 0 {
			r.SetMultipartFields(fields...)
		}
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) Quotes(ctx context.Context, aid string) ([]Post, error) {
	type quotes struct {
		Posts []Post `json:"posts"`
	}

	res := &quotes{}
	if _, err := c.do(ctx, "Quotes", http.MethodPost, postsPath+"/"+segment(aid)+"/quotes", res); err != nil {
		return nil, err
	}
	return res.Posts, nil
}

// Diffusions lists the accounts that diffused the post.
func (c *Client) Diffusions(ctx context.Context, aid string) ([]Account, error) {
	type diffusions struct {
		Accounts []Account `json:"accounts"`
	}

	res := &diffusions{}
	if _, err := c.do(ctx, "Diffusions", http.MethodPost, postsPath+"/"+segment(aid)+"/diffusions", res); err != nil {
		return nil, err
	}
	return res.Accounts, nil
}

// Reactions lists who reacted to the post, optionally narrowed to one emoji.
func (c *Client) Reactions(ctx context.Context, aid, emojiNameID string) (*PostReactions, error) {
	type reactionsRequest struct {
		EmojiNameID string `json:"emoji_name_id,omitempty"`
	}

	res := &PostReactions{}
	_, err := c.do(ctx, "Reactions", http.MethodPost, postsPath+"/"+segment(aid)+"/reactions", res,
		withBody(reactionsRequest{EmojiNameID: emojiNameID}))
	if err != nil {
		return nil, err
	}
	return res, nil
}
