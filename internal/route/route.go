// Package route defines the client-visible views, how ids are carried in
// their URLs, and the navigation results view-models hand back.
package route

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type View string

const (
	ViewHome          View = "home"
	ViewLogin         View = "login"
	ViewProducts      View = "products"
	ViewProductDetail View = "product-detail"
	ViewCart          View = "cart"
	ViewCheckout      View = "checkout"
	ViewOrders        View = "orders"
	ViewOrderDetail   View = "order-detail"
	ViewPayment       View = "payment"
)

const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathProducts = "/products"
	PathCart     = "/cart"
	PathCheckout = "/checkout"
	PathOrders   = "/orders"

	ParamProductID = "productId"
	ParamOrderID   = "orderId"
)

var ErrUnknownRoute = errors.New("unknown route")

var patterns = map[string]View{
	PathHome:                             ViewHome,
	PathLogin:                            ViewLogin,
	PathProducts:                         ViewProducts,
	"/products/{" + ParamProductID + "}": ViewProductDetail,
	PathCart:                             ViewCart,
	PathCheckout:                         ViewCheckout,
	PathOrders:                           ViewOrders,
	"/orders/{" + ParamOrderID + "}":     ViewOrderDetail,
	"/payment/{" + ParamOrderID + "}":    ViewPayment,
}

var router = func() *chi.Mux {
	r := chi.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	for pattern := range patterns {
		r.Get(pattern, noop)
	}
	return r
}()

// Protected views need a logged-in session.
func (v View) Protected() bool {
	switch v {
	case ViewProducts, ViewCart, ViewCheckout, ViewOrders, ViewPayment:
		return true
	}
	return false
}

func PaymentPath(orderID domain.ID) string {
	return "/payment/" + url.PathEscape(orderID.String())
}

func OrderDetailPath(orderID domain.ID) string {
	return "/orders/" + url.PathEscape(orderID.String())
}

func ProductPath(productID int64) string {
	return "/products/" + strconv.FormatInt(productID, 10)
}

type Match struct {
	View   View
	Path   string
	Params map[string]string
}

func (m Match) Param(key string) string {
	return m.Params[key]
}

// OrderID is the order id carried by payment and order-detail URLs.
func (m Match) OrderID() domain.ID {
	return domain.ID(m.Params[ParamOrderID])
}

func (m Match) ProductID() (int64, error) {
	id, err := strconv.ParseInt(m.Params[ParamProductID], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", m.Params[ParamProductID])
	}
	return id, nil
}

// Resolve maps a client URL (path plus optional query) back to its view and
// unescaped parameters.
func Resolve(rawURL string) (Match, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %v", ErrUnknownRoute, err)
	}
	path := u.EscapedPath()
	if path == "" {
		path = PathHome
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	rctx := chi.NewRouteContext()
	if !router.Match(rctx, http.MethodGet, path) {
		return Match{}, fmt.Errorf("%w: %s", ErrUnknownRoute, rawURL)
	}

	view, ok := patterns[rctx.RoutePattern()]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrUnknownRoute, rawURL)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		value, err := url.PathUnescape(rctx.URLParams.Values[i])
		if err != nil {
			return Match{}, fmt.Errorf("%w: %v", ErrUnknownRoute, err)
		}
		if value == "" {
			return Match{}, fmt.Errorf("%w: empty %s", ErrUnknownRoute, key)
		}
		params[key] = value
	}
	return Match{View: view, Path: path, Params: params}, nil
}
