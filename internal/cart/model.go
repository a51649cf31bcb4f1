// Package cart is the view-model behind the cart screen. It never merges
// mutations locally: every successful add or remove is followed by a full
// reload of the server's cart.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/busy"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/internal/selection"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

type Gateway interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddQuantity(ctx context.Context, productID int64, quantity int) error
	RemoveQuantity(ctx context.Context, productID int64, quantity int) error
}

type Model struct {
	gw    Gateway
	store store.Store
	log   *slog.Logger
	busy  *busy.Set[int64]

	mu       sync.RWMutex
	cart     *domain.Cart
	inFlight int
	err      string
}

// NewModel builds a cart view-model. st keeps the checkout selection
// fallback and may be nil.
func NewModel(gw Gateway, st store.Store, log *slog.Logger) *Model {
	return &Model{
		gw:    gw,
		store: st,
		log:   logger.OrDiscard(log).With("component", "cart"),
		busy:  busy.NewSet[int64](),
	}
}

// Open is the cart view appearing: any checkout selection left by an
// earlier visit is discarded, then the cart loads.
func (m *Model) Open(ctx context.Context) error {
	if err := selection.Clear(ctx, m.store); err != nil {
		m.log.WarnContext(ctx, "clear persisted selection failed", "error", err)
	}
	return m.Load(ctx)
}

// Load replaces the cart with the server's state. On failure the previous
// cart stays in place and Err reports the problem.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	m.inFlight++
	m.err = ""
	m.mu.Unlock()

	cart, err := m.gw.GetCart(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	if err != nil {
		m.err = msgLoadFailed
		m.log.WarnContext(ctx, "load cart failed", "error", err)
		return fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		cart = &domain.Cart{}
	}
	m.cart = cart
	return nil
}

// Cart returns a copy of the last successfully loaded cart, or nil before
// the first load succeeds.
func (m *Model) Cart() *domain.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cart == nil {
		return nil
	}
	c := *m.cart
	c.Items = append([]domain.CartLine(nil), m.cart.Items...)
	return &c
}

func (m *Model) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inFlight > 0
}

// Err is the message to show, empty when there is none. It is cleared when
// the next action starts.
func (m *Model) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

func (m *Model) Busy(productID int64) bool {
	return m.busy.Is(productID)
}

func (m *Model) CanIncrement(line domain.CartLine) bool {
	return !m.Busy(line.ProductID) && line.Quantity < line.Stock
}

func (m *Model) CanDecrement(line domain.CartLine) bool {
	return !m.Busy(line.ProductID) && line.Quantity > 1
}

// ChangeQuantity adds delta to the line. Positive deltas may not push the
// quantity past stock; a negative delta at or beyond the held quantity
// removes the line, and its magnitude is capped at the held quantity.
// Rejections wrap ErrRejected and leave the gateway untouched.
func (m *Model) ChangeQuantity(ctx context.Context, line domain.CartLine, delta int) error {
	if delta == 0 {
		return ErrZeroDelta
	}
	if line.ProductID <= 0 {
		return ErrNoProduct
	}
	if delta > 0 && delta > line.Stock-line.Quantity {
		return ErrExceedsStock
	}
	if !m.busy.TryAcquire(line.ProductID) {
		return ErrLineBusy
	}
	defer m.busy.Release(line.ProductID)

	m.setErr("")

	var err error
	if delta > 0 {
		err = m.gw.AddQuantity(ctx, line.ProductID, delta)
	} else {
		err = m.gw.RemoveQuantity(ctx, line.ProductID, removeMagnitude(line.Quantity, delta))
	}
	if err != nil {
		m.setErr(gateway.MessageOf(err, msgUpdateFailed))
		m.log.WarnContext(ctx, "change quantity failed", "product_id", line.ProductID, "delta", delta, "error", err)
		return fmt.Errorf("change quantity of product %d: %w", line.ProductID, err)
	}

	return m.Load(ctx)
}

// SetQuantityExact moves the line to n, clamped into [1, max(1, stock)].
// Landing on the current quantity is a silent no-op.
func (m *Model) SetQuantityExact(ctx context.Context, line domain.CartLine, n int) error {
	delta := Clamp(line, n) - line.Quantity
	if delta == 0 {
		return nil
	}
	return m.ChangeQuantity(ctx, line, delta)
}

// RemoveLine drops the whole line.
func (m *Model) RemoveLine(ctx context.Context, line domain.CartLine) error {
	return m.ChangeQuantity(ctx, line, -line.Quantity)
}

// BeginCheckout captures every line of the current cart as the checkout
// selection. An empty cart yields no navigation.
func (m *Model) BeginCheckout(ctx context.Context) (*route.Navigation, error) {
	c := m.Cart()
	if c.IsEmpty() {
		return nil, nil
	}
	return m.BeginCheckoutWith(ctx, c.ItemIDs())
}

// BeginCheckoutWith captures an explicit ordered subset of cart items.
func (m *Model) BeginCheckoutWith(ctx context.Context, ids []domain.ID) (*route.Navigation, error) {
	ids = selection.Normalize(ids)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	if err := selection.Save(ctx, m.store, ids); err != nil {
		m.log.WarnContext(ctx, "persist checkout selection failed", "error", err)
	}
	return &route.Navigation{
		Path:  route.PathCheckout,
		State: &route.State{CartItemIDs: ids},
	}, nil
}

// Clamp bounds new quantity input to [1, max(1, stock)].
func Clamp(line domain.CartLine, n int) int {
	if n < 1 {
		return 1
	}
	if limit := line.MaxQuantity(); n > limit {
		return limit
	}
	return n
}

func removeMagnitude(held, delta int) int {
	if held > 0 && delta <= -held {
		return held
	}
	if delta == math.MinInt {
		return math.MaxInt
	}
	return -delta
}

func (m *Model) setErr(msg string) {
	m.mu.Lock()
	m.err = msg
	m.mu.Unlock()
}
