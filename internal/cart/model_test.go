package cart

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/internal/selection"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type call struct {
	op        string
	productID int64
	quantity  int
}

// GatewayMock implements Gateway with a scripted cart
type GatewayMock struct {
	mu        sync.Mutex
	cart      *domain.Cart
	getErr    error
	mutateErr error
	calls     []call
	gets      int

	// block, when set, holds mutations until closed
	block chan struct{}
}

func (g *GatewayMock) GetCart(context.Context) (*domain.Cart, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gets++
	if g.getErr != nil {
		return nil, g.getErr
	}
	c := *g.cart
	c.Items = append([]domain.CartLine(nil), g.cart.Items...)
	return &c, nil
}

func (g *GatewayMock) AddQuantity(_ context.Context, productID int64, quantity int) error {
	return g.mutate(call{"add", productID, quantity})
}

func (g *GatewayMock) RemoveQuantity(_ context.Context, productID int64, quantity int) error {
	return g.mutate(call{"remove", productID, quantity})
}

func (g *GatewayMock) mutate(c call) error {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
	if g.mutateErr != nil {
		return g.mutateErr
	}
	for i, l := range g.cart.Items {
		if l.ProductID != c.productID {
			continue
		}
		if c.op == "add" {
			l.Quantity += c.quantity
		} else {
			l.Quantity -= c.quantity
		}
		if l.Quantity <= 0 {
			g.cart.Items = append(g.cart.Items[:i], g.cart.Items[i+1:]...)
		} else {
			g.cart.Items[i] = l
		}
		break
	}
	return nil
}

func (g *GatewayMock) Calls() []call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]call(nil), g.calls...)
}

func singleLineCart(quantity, stock int) *domain.Cart {
	return &domain.Cart{
		Items: []domain.CartLine{
			{ProductID: 7, ProductName: "Mug", UnitPrice: domain.MoneyFromFloat(4.5), Quantity: quantity, Stock: stock, CartItemID: "70"},
		},
		TotalQuantity: quantity,
		TotalPrice:    domain.MoneyFromFloat(4.5).Mul(quantity),
	}
}

func loadedModel(t *testing.T, gw *GatewayMock) *Model {
	t.Helper()
	m := NewModel(gw, store.NewMemoryStore(0), nil)
	require.NoError(t, m.Load(context.Background()))
	return m
}

func TestLoad_ReplacesCartWholesale(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(2, 5)}
	m := NewModel(gw, nil, nil)

	assert.Nil(t, m.Cart())
	require.NoError(t, m.Load(context.Background()))

	c := m.Cart()
	require.NotNil(t, c)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.False(t, m.Loading())
	assert.Empty(t, m.Err())
}

func TestLoad_FailureKeepsPreviousCart(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(2, 5)}
	m := loadedModel(t, gw)

	gw.getErr = errors.New("connection reset")
	err := m.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Failed to load cart. Please try again.", m.Err())
	require.NotNil(t, m.Cart())
	assert.Equal(t, 2, m.Cart().Items[0].Quantity)
}

func TestCart_ReturnsCopy(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(2, 5)}
	m := loadedModel(t, gw)

	c := m.Cart()
	c.Items[0].Quantity = 99

	assert.Equal(t, 2, m.Cart().Items[0].Quantity)
}

func TestChangeQuantity_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		line  domain.CartLine
		delta int
		err   error
	}{
		{"zero delta", domain.CartLine{ProductID: 7, Quantity: 1, Stock: 5}, 0, ErrZeroDelta},
		{"no product id", domain.CartLine{Quantity: 1, Stock: 5}, 1, ErrNoProduct},
		{"exceeds stock", domain.CartLine{ProductID: 7, Quantity: 3, Stock: 3}, 1, ErrExceedsStock},
		{"big jump exceeds stock", domain.CartLine{ProductID: 7, Quantity: 1, Stock: 3}, 5, ErrExceedsStock},
		{"max int delta", domain.CartLine{ProductID: 7, Quantity: 3, Stock: 5}, math.MaxInt, ErrExceedsStock},
		{"max int delta on empty line", domain.CartLine{ProductID: 7, Quantity: 0, Stock: 5}, math.MaxInt, ErrExceedsStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &GatewayMock{cart: singleLineCart(3, 3)}
			m := loadedModel(t, gw)
			before := m.Cart()

			err := m.ChangeQuantity(context.Background(), tt.line, tt.delta)

			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, ErrRejected)
			assert.Empty(t, gw.Calls())
			assert.Equal(t, 1, gw.gets)
			assert.Equal(t, before, m.Cart())
		})
	}
}

func TestChangeQuantity_AtStockCeilingIsNoop(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(3, 3)}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	err := m.ChangeQuantity(context.Background(), line, 1)

	assert.ErrorIs(t, err, ErrExceedsStock)
	assert.Empty(t, gw.Calls())
}

func TestChangeQuantity_PositiveDeltaAddsAndReloads(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(2, 5)}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	require.NoError(t, m.ChangeQuantity(context.Background(), line, 3))

	assert.Equal(t, []call{{"add", 7, 3}}, gw.Calls())
	assert.Equal(t, 2, gw.gets)
	assert.Equal(t, 5, m.Cart().Items[0].Quantity)
}

func TestChangeQuantity_LargeNegativeRemovesHeldQuantity(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(3, 5)}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	require.NoError(t, m.ChangeQuantity(context.Background(), line, -99))

	assert.Equal(t, []call{{"remove", 7, 3}}, gw.Calls())
	assert.Equal(t, 2, gw.gets)
	assert.True(t, m.Cart().IsEmpty())
}

func TestChangeQuantity_MinIntRemovesHeldQuantity(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(3, 5)}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	require.NoError(t, m.ChangeQuantity(context.Background(), line, math.MinInt))

	assert.Equal(t, []call{{"remove", 7, 3}}, gw.Calls())
	assert.True(t, m.Cart().IsEmpty())
}

func TestRemoveMagnitude(t *testing.T) {
	assert.Equal(t, 1, removeMagnitude(3, -1))
	assert.Equal(t, 3, removeMagnitude(3, -3))
	assert.Equal(t, 3, removeMagnitude(3, math.MinInt))
	assert.Equal(t, math.MaxInt, removeMagnitude(0, math.MinInt))
	assert.Equal(t, 4, removeMagnitude(0, -4))
}

func TestChangeQuantity_NegativeDeltaOnOverStockLine(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(5, 2)}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]
	require.True(t, line.OverStock())

	require.NoError(t, m.ChangeQuantity(context.Background(), line, -1))

	assert.Equal(t, []call{{"remove", 7, 1}}, gw.Calls())
	assert.Equal(t, 4, m.Cart().Items[0].Quantity)
}

func TestChangeQuantity_GatewayErrorSurfacesServerMessage(t *testing.T) {
	gw := &GatewayMock{
		cart:      singleLineCart(1, 5),
		mutateErr: &gateway.APIError{StatusCode: 400, Message: "Insufficient stock"},
	}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	err := m.ChangeQuantity(context.Background(), line, 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Equal(t, "Insufficient stock", m.Err())
	assert.Equal(t, 1, gw.gets, "no reload after a failed mutation")
	assert.False(t, m.Busy(7))
	assert.Equal(t, 1, m.Cart().Items[0].Quantity)
}

func TestChangeQuantity_GenericErrorMessageAndClearedOnNextAction(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(1, 5), mutateErr: errors.New("timeout")}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	require.Error(t, m.ChangeQuantity(context.Background(), line, 1))
	assert.Equal(t, "Failed to update quantity.", m.Err())

	gw.mutateErr = nil
	require.NoError(t, m.ChangeQuantity(context.Background(), line, 1))
	assert.Empty(t, m.Err())
}

func TestChangeQuantity_SecondCallOnBusyLineIsNoop(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(1, 5), block: make(chan struct{})}
	m := loadedModel(t, gw)
	line := m.Cart().Items[0]

	done := make(chan error, 1)
	go func() {
		done <- m.ChangeQuantity(context.Background(), line, 1)
	}()

	require.Eventually(t, func() bool { return m.Busy(7) }, timeout, tick)
	assert.False(t, m.CanIncrement(line))
	assert.False(t, m.CanDecrement(domain.CartLine{ProductID: 7, Quantity: 3, Stock: 5}))

	err := m.ChangeQuantity(context.Background(), line, 1)
	assert.ErrorIs(t, err, ErrLineBusy)

	close(gw.block)
	require.NoError(t, <-done)
	assert.Len(t, gw.Calls(), 1)
	assert.False(t, m.Busy(7))
}

func TestChangeQuantity_DifferentLinesMayOverlap(t *testing.T) {
	gw := &GatewayMock{
		cart: &domain.Cart{Items: []domain.CartLine{
			{ProductID: 1, Quantity: 1, Stock: 5, CartItemID: "10"},
			{ProductID: 2, Quantity: 1, Stock: 5, CartItemID: "20"},
		}},
		block: make(chan struct{}),
	}
	m := loadedModel(t, gw)
	lines := m.Cart().Items

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, l := range lines {
		wg.Add(1)
		go func(i int, l domain.CartLine) {
			defer wg.Done()
			errs[i] = m.ChangeQuantity(context.Background(), l, 1)
		}(i, l)
	}

	require.Eventually(t, func() bool { return m.Busy(1) && m.Busy(2) }, timeout, tick)
	close(gw.block)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, gw.Calls(), 2)
}

func TestSetQuantityExact_Clamps(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		stock    int
		input    int
		want     []call
	}{
		{"within range", 2, 5, 4, []call{{"add", 7, 2}}},
		{"above stock clamps to stock", 2, 5, 50, []call{{"add", 7, 3}}},
		{"below one clamps to one", 3, 5, -4, []call{{"remove", 7, 2}}},
		{"zero stock clamps to one", 3, 0, 10, []call{{"remove", 7, 2}}},
		{"over-stock line clamps down to stock", 5, 2, 9, []call{{"remove", 7, 3}}},
		{"same quantity is silent", 3, 5, 3, nil},
		{"clamped to current is silent", 5, 5, 8, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &GatewayMock{cart: singleLineCart(tt.quantity, tt.stock)}
			m := loadedModel(t, gw)
			line := m.Cart().Items[0]

			err := m.SetQuantityExact(context.Background(), line, tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, gw.Calls())
		})
	}
}

func TestClamp_AlwaysWithinBounds(t *testing.T) {
	for stock := -1; stock <= 6; stock++ {
		for n := -3; n <= 10; n++ {
			got := Clamp(domain.CartLine{Stock: stock}, n)
			upper := stock
			if upper < 1 {
				upper = 1
			}
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, upper)
		}
	}
}

func TestRemoveLine(t *testing.T) {
	gw := &GatewayMock{cart: singleLineCart(4, 5)}
	m := loadedModel(t, gw)

	require.NoError(t, m.RemoveLine(context.Background(), m.Cart().Items[0]))

	assert.Equal(t, []call{{"remove", 7, 4}}, gw.Calls())
	assert.True(t, m.Cart().IsEmpty())
}

func TestCanIncrementDecrement(t *testing.T) {
	m := NewModel(&GatewayMock{cart: &domain.Cart{}}, nil, nil)

	assert.True(t, m.CanIncrement(domain.CartLine{ProductID: 1, Quantity: 2, Stock: 3}))
	assert.False(t, m.CanIncrement(domain.CartLine{ProductID: 1, Quantity: 3, Stock: 3}))
	assert.True(t, m.CanDecrement(domain.CartLine{ProductID: 1, Quantity: 2, Stock: 3}))
	assert.False(t, m.CanDecrement(domain.CartLine{ProductID: 1, Quantity: 1, Stock: 3}))
}

func TestBeginCheckout_CapturesAllLines(t *testing.T) {
	gw := &GatewayMock{cart: &domain.Cart{Items: []domain.CartLine{
		{ProductID: 2, Quantity: 1, Stock: 5, CartItemID: "20"},
		{ProductID: 1, Quantity: 1, Stock: 5, CartItemID: "10"},
	}}}
	st := store.NewMemoryStore(0)
	m := NewModel(gw, st, nil)
	require.NoError(t, m.Load(context.Background()))

	nav, err := m.BeginCheckout(context.Background())

	require.NoError(t, err)
	require.NotNil(t, nav)
	assert.Equal(t, route.PathCheckout, nav.Path)
	assert.Equal(t, []domain.ID{"20", "10"}, nav.State.CartItemIDs)

	persisted, err := selection.Load(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, []domain.ID{"20", "10"}, persisted)
}

func TestBeginCheckout_EmptyCartIsNoop(t *testing.T) {
	m := NewModel(&GatewayMock{cart: &domain.Cart{}}, nil, nil)

	nav, err := m.BeginCheckout(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, nav)

	require.NoError(t, m.Load(context.Background()))
	nav, err = m.BeginCheckout(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, nav)
}

func TestBeginCheckoutWith_Subset(t *testing.T) {
	m := NewModel(&GatewayMock{cart: &domain.Cart{}}, nil, nil)

	nav, err := m.BeginCheckoutWith(context.Background(), []domain.ID{"11", "", "11", "12"})
	require.NoError(t, err)
	assert.Equal(t, []domain.ID{"11", "12"}, nav.State.CartItemIDs)

	_, err = m.BeginCheckoutWith(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestOpen_DiscardsLeftoverSelection(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(0)
	require.NoError(t, selection.Save(ctx, st, []domain.ID{"70"}))

	m := NewModel(&GatewayMock{cart: singleLineCart(1, 5)}, st, nil)
	require.NoError(t, m.Open(ctx))

	ids, err := selection.Load(ctx, st)
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.Len(t, m.Cart().Items, 1)
}
