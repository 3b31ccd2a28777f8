package amiapi

import (
	"context"
	"net/http"
)

const emojisPath = "/emojis"

func (c *Client) EmojiGroups(ctx context.Context) ([]string, error) {
	type groups struct {
		Groups []string `json:"groups"`
	}

	res := &groups{}
	if _, err := c.do(ctx, "EmojiGroups", http.MethodPost, emojisPath+"/groups", res); err != nil {
		return nil, err
	}
	return res.Groups, nil
}

func (c *Client) EmojisByGroup(ctx context.Context, group string) ([]Emoji, error) {
	var emojis []Emoji
	if _, err := c.do(ctx, "EmojisByGroup", http.MethodPost, emojisPath+"/groups/"+segment(group), &emojis); err != nil {
		return nil, err
	}
	return emojis, nil
}

func (c *Client) Emoji(ctx context.Context, aid string) (*Emoji, error) {
	emoji := &Emoji{}
	if _, err := c.do(ctx, "Emoji", http.MethodPost, emojisPath+"/"+segment(aid), emoji); err != nil {
		return nil, err
	}
	return emoji, nil
}
