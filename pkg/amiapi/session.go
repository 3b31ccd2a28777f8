package amiapi

import (
	"context"
	"net/http"
)

const startPath = "/start"

// Start fetches the current session. A returned CSRF token is installed on the
// client for every later request.
func (c *Client) Start(ctx context.Context) (*Session, error) {
	session := &Session{}
	if _, err := c.do(ctx, "Start", http.MethodGet, startPath, session); err != nil {
		return nil, err
	}

	if session.CSRFToken != "" {
		c.SetCSRFToken(session.CSRFToken)
	}
	return session, nil
}
