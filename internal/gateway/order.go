package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// POST /order/checkout
func (c *Client) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	if req.CartItemIDs == nil {
		req.CartItemIDs = []domain.ID{}
	}
	var res domain.CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/order/checkout", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GET /order. Anything but a JSON array is treated as no orders.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/order", nil, nil, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []domain.Order{}, nil
	}
	orders := make([]domain.Order, 0)
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GET /order/{orderId}
func (c *Client) GetOrder(ctx context.Context, orderID domain.ID) (*domain.Order, error) {
	id, err := pathID(orderID)
	if err != nil {
		return nil, err
	}
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, "/order/"+id, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /order/{orderId}/pay
func (c *Client) PayOrder(ctx context.Context, orderID domain.ID) (*domain.PayResult, error) {
	id, err := pathID(orderID)
	if err != nil {
		return nil, err
	}
	var res domain.PayResult
	if err := c.do(ctx, http.MethodPost, "/order/"+id+"/pay", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
