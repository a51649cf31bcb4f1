package mockapi

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	s.PutProduct(domain.Product{ID: 1, Name: "Tea", Price: domain.MoneyFromInt(3), Stock: 5})
	s.PutProduct(domain.Product{ID: 2, Name: "Pot", Price: domain.MoneyFromInt(20), Stock: 2})
	require.NoError(t, s.Register(domain.Registration{Username: "u", Password: "p", Email: "e", FullName: "f"}))
	return s
}

func TestAddToCart_RejectsBeyondStock(t *testing.T) {
	s := seededStore(t)

	_, err := s.AddToCart("u", 2, 2)
	require.NoError(t, err)

	_, err = s.AddToCart("u", 2, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, s.Cart("u").Items[0].Quantity)

	_, err = s.AddToCart("u", 9, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = s.AddToCart("u", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_TotalsAndOrder(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 2, 1)
	require.NoError(t, err)
	_, err = s.AddToCart("u", 1, 3)
	require.NoError(t, err)

	c := s.Cart("u")
	require.Len(t, c.Items, 2)
	assert.Equal(t, int64(2), c.Items[0].ProductID)
	assert.Equal(t, 4, c.TotalQuantity)
	assert.Equal(t, "29.00", c.TotalPrice.String())
	assert.Equal(t, "9.00", c.Items[1].Subtotal.String())
	assert.NotEqual(t, c.Items[0].CartItemID, c.Items[1].CartItemID)
}

func TestRemoveFromCart_ClampsAndDeletes(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 1, 3)
	require.NoError(t, err)

	c, err := s.RemoveFromCart("u", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Items[0].Quantity)

	c, err = s.RemoveFromCart("u", 1, 99)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = s.RemoveFromCart("u", 1, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSetStock_LeavesCartOverStock(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 1, 4)
	require.NoError(t, err)

	require.NoError(t, s.SetStock(1, 2))
	line := s.Cart("u").Items[0]
	assert.Equal(t, 4, line.Quantity)
	assert.True(t, line.OverStock())
	assert.ErrorIs(t, s.SetStock(42, 1), ErrProductNotFound)
}

func TestCheckout_CreatesPendingOrder(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 1, 2)
	require.NoError(t, err)
	_, err = s.AddToCart("u", 2, 1)
	require.NoError(t, err)
	teaID := s.Cart("u").Items[0].CartItemID

	res := s.Checkout("u", "", domain.CheckoutRequest{
		CartItemIDs:   []domain.ID{teaID, "stale"},
		PaymentMethod: domain.PaymentAlipay,
		RecipientName: "Li",
	})
	require.True(t, res.Success)
	require.False(t, res.OrderID.IsZero())

	o, err := s.Order("u", res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, "Alipay", o.PaymentMethod)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "6.00", o.TotalPrice.String())

	remaining := s.Cart("u")
	require.Len(t, remaining.Items, 1)
	assert.Equal(t, int64(2), remaining.Items[0].ProductID)

	p, err := s.Product(1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestCheckout_NoValidItems(t *testing.T) {
	s := seededStore(t)

	res := s.Checkout("u", "", domain.CheckoutRequest{CartItemIDs: []domain.ID{"404"}})
	assert.False(t, res.Success)
	assert.True(t, res.OrderID.IsZero())
	assert.Empty(t, s.Orders("u"))
}

func TestCheckout_InsufficientStockCreatesNothing(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 1, 4)
	require.NoError(t, err)
	require.NoError(t, s.SetStock(1, 1))

	c := s.Cart("u")
	res := s.Checkout("u", "", domain.CheckoutRequest{CartItemIDs: c.ItemIDs()})
	assert.False(t, res.Success)
	assert.Len(t, s.Cart("u").Items, 1)
}

func TestCheckout_IdempotencyKeyReplays(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 1, 1)
	require.NoError(t, err)
	c := s.Cart("u")
	req := domain.CheckoutRequest{CartItemIDs: c.ItemIDs()}

	first := s.Checkout("u", "k1", req)
	second := s.Checkout("u", "k1", req)

	require.True(t, first.Success)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Len(t, s.Orders("u"), 1)
}

func TestPay_OnlyPending(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddToCart("u", 1, 1)
	require.NoError(t, err)
	c := s.Cart("u")
	res := s.Checkout("u", "", domain.CheckoutRequest{CartItemIDs: c.ItemIDs()})
	require.True(t, res.Success)

	paid, err := s.Pay("u", res.OrderID)
	require.NoError(t, err)
	assert.True(t, paid)

	paid, err = s.Pay("u", res.OrderID)
	require.NoError(t, err)
	assert.False(t, paid)

	_, err = s.Pay("someone-else", res.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestProducts_PagingAndKeyword(t *testing.T) {
	s := NewMemoryStore()
	Seed(s)

	page := s.Products(domain.ProductQuery{Page: 0, Size: 12})
	assert.Len(t, page.Content, 12)
	assert.Equal(t, 14, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.Equal(t, int64(1), page.Content[0].ID)

	page = s.Products(domain.ProductQuery{Page: 1, Size: 12})
	assert.Len(t, page.Content, 2)
	assert.False(t, page.HasNext)

	page = s.Products(domain.ProductQuery{Size: 12, Keyword: "MOUSE"})
	assert.Equal(t, 2, page.Total)
}

func TestRegisterAndLogin(t *testing.T) {
	s := NewMemoryStore()

	assert.ErrorIs(t, s.Register(domain.Registration{Username: "x"}), ErrMissingFields)
	require.NoError(t, s.Register(domain.Registration{Username: "x", Password: "pw", Email: "e", FullName: "X"}))
	assert.ErrorIs(t, s.Register(domain.Registration{Username: "x", Password: "pw", Email: "e", FullName: "X"}), ErrUserExists)

	_, err := s.Login(domain.Credentials{Username: "x", Password: "nope"})
	assert.ErrorIs(t, err, ErrBadCredentials)

	token, err := s.Login(domain.Credentials{Username: "x", Password: "pw"})
	require.NoError(t, err)
	u, ok := s.UserFor(token)
	assert.True(t, ok)
	assert.Equal(t, "x", u)

	s.Logout(token)
	_, ok = s.UserFor(token)
	assert.False(t, ok)
}
