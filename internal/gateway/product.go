package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

const DefaultPageSize = 12

// GET /product?page=&size=&keyword=
func (c *Client) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Page < 0 {
		q.Page = 0
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		query.Set("keyword", kw)
	}

	var page domain.ProductPage
	if err := c.do(ctx, http.MethodGet, "/product", query, nil, &page); err != nil {
		return nil, err
	}
	if page.Content == nil {
		page.Content = []domain.Product{}
	}
	return &page, nil
}

// GET /product/{productId}
func (c *Client) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, "/product/"+strconv.FormatInt(productID, 10), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// pathID escapes id as one path segment. Ids that path cleaning would
// drop or collapse are rejected.
func pathID(id domain.ID) (string, error) {
	s := id.String()
	switch strings.TrimSpace(s) {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return url.PathEscape(s), nil
}
