package amiapi

import (
	"context"
	"net/http"
)

// Trends fetches the trend board. The backend answers with either one trend or
// a list of them.
func (c *Client) Trends(ctx context.Context) ([]Trend, error) {
	var trends trendList
	if _, err := c.do(ctx, "Trends", http.MethodPost, "/trends", &trends); err != nil {
		return nil, err
	}
	return trends, nil
}
