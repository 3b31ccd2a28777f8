package amiapi

import (
	"context"
	"net/http"
)

const notificationsPath = "/notifications"

type notificationsRequest struct {
	Cursor *string `json:"cursor"`
}

// Notifications fetches one page. An empty cursor requests the newest page; the
// next cursor comes from the X-Next-Cursor response header and is empty on the
// last page.
func (c *Client) Notifications(ctx context.Context, cursor string) (*NotificationPage, error) {
	type notifications struct {
		Data []Notification `json:"data"`
	}

	req := notificationsRequest{}
	if cursor != "" {
		req.Cursor = &cursor
	}

	body := &notifications{}
	res, err := c.do(ctx, "Notifications", http.MethodPost, notificationsPath, body, withBody(req))
	if err != nil {
		return nil, err
	}

	return &NotificationPage{
		Notifications: body.Data,
		NextCursor:    res.Header().Get(nextCursorHeader),
	}, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	type unread struct {
		Count int `json:"count"`
	}

	res := &unread{}
	if _, err := c.do(ctx, "UnreadCount", http.MethodPost, notificationsPath+"/unread_count", res); err != nil {
		return 0, err
	}
	return res.Count, nil
}
