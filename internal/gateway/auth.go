package gateway

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// POST /auth/login
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// POST /auth/register
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// POST /auth/logout
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// GET /auth/me
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
