package amiapi

import (
	"context"
	"net/http"
)

const accountsPath = "/accounts"

func (c *Client) Account(ctx context.Context, nameID string) (*Account, error) {
	type accountRequest struct {
		NameID string `json:"name_id"`
	}

	account := &Account{}
	_, err := c.do(ctx, "Account", http.MethodPost, accountsPath, account,
		withBody(accountRequest{NameID: nameID}))
	if err != nil {
		return nil, err
	}
	return account, nil
}
