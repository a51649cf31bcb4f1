package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// GET /cart
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// POST /cart/add?productId=&quantity=
func (c *Client) AddQuantity(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", quantityQuery(productID, quantity), nil, nil)
}

// POST /cart/remove?productId=&quantity=
func (c *Client) RemoveQuantity(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/remove", quantityQuery(productID, quantity), nil, nil)
}

func quantityQuery(productID int64, quantity int) url.Values {
	q := url.Values{}
	q.Set("productId", strconv.FormatInt(productID, 10))
	q.Set("quantity", strconv.Itoa(quantity))
	return q
}
