// Package checkout turns a frozen selection of cart items plus shipping
// details into an order.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/busy"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/internal/selection"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/google/uuid"
)

// PhonePattern accepts 11-digit mainland mobile numbers.
var PhonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

type Gateway interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error)
}

type Model struct {
	gw         Gateway
	store      store.Store
	log        *slog.Logger
	submitting busy.Flag
	key        string

	mu        sync.RWMutex
	selection []domain.ID
	captured  bool
	consumed  bool
	cart      *domain.Cart
	loading   bool
	form      domain.CheckoutForm
	err       string
	toast     string
}

// NewModel starts a checkout. state is the navigation state the cart view
// handed over and may be nil; st holds the persisted fallback selection.
func NewModel(gw Gateway, st store.Store, state *route.State, log *slog.Logger) *Model {
	m := &Model{
		gw:      gw,
		store:   st,
		log:     logger.OrDiscard(log).With("component", "checkout"),
		key:     uuid.NewString(),
		loading: true,
		form:    domain.CheckoutForm{PaymentMethod: domain.PaymentOnline},
	}
	if state != nil {
		if ids := selection.Normalize(state.CartItemIDs); len(ids) > 0 {
			m.selection = ids
			m.captured = true
		}
	}
	return m
}

// Load fetches the cart for the order summary. Without a captured selection
// it falls back to the persisted one, then to every line of the cart. A
// persisted selection with no id left in the cart is stale and dropped.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	captured := m.captured
	m.mu.Unlock()

	var fromStore bool
	if !captured {
		ids, err := selection.Load(ctx, m.store)
		if err != nil {
			m.log.WarnContext(ctx, "read persisted selection failed", "error", err)
		}
		if ids = selection.Normalize(ids); len(ids) > 0 {
			m.mu.Lock()
			if !m.captured {
				m.selection = ids
				m.captured = true
				fromStore = true
			}
			m.mu.Unlock()
		}
	}

	cart, err := m.gw.GetCart(ctx)

	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.err = msgLoadCart
		m.mu.Unlock()
		m.log.WarnContext(ctx, "load cart failed", "error", err)
		return fmt.Errorf("load cart: %w", err)
	}
	m.cart = cart
	stale := fromStore && !holdsAny(cart, m.selection)
	if stale {
		m.selection = nil
		m.captured = false
	}
	if !m.captured && !cart.IsEmpty() {
		m.selection = cart.ItemIDs()
		m.captured = true
	}
	m.mu.Unlock()

	if stale {
		m.log.InfoContext(ctx, "dropped stale persisted selection")
		if err := selection.Clear(ctx, m.store); err != nil {
			m.log.WarnContext(ctx, "clear persisted selection failed", "error", err)
		}
	}
	return nil
}

func holdsAny(cart *domain.Cart, ids []domain.ID) bool {
	if cart == nil {
		return false
	}
	for _, l := range cart.Items {
		if slices.Contains(ids, l.CartItemID) {
			return true
		}
	}
	return false
}

// Selection is the frozen list of cart items this checkout will submit.
func (m *Model) Selection() []domain.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.ID(nil), m.selection...)
}

// SelectedLines are the loaded cart lines that are part of the selection,
// in selection order. Ids missing from the cart are skipped; the server
// decides what to do with them.
func (m *Model) SelectedLines() []domain.CartLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cart == nil {
		return nil
	}
	byID := make(map[domain.ID]domain.CartLine, len(m.cart.Items))
	for _, l := range m.cart.Items {
		byID[l.CartItemID] = l
	}
	lines := make([]domain.CartLine, 0, len(m.selection))
	for _, id := range m.selection {
		if l, ok := byID[id]; ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// SelectedTotal sums the subtotals of SelectedLines.
func (m *Model) SelectedTotal() (quantity int, total domain.Money) {
	for _, l := range m.SelectedLines() {
		quantity += l.Quantity
		total = total.Add(l.Subtotal)
	}
	return quantity, total
}

func (m *Model) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Model) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

func (m *Model) Toast() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.toast
}

func (m *Model) Form() domain.CheckoutForm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.form
}

func (m *Model) SetRecipientName(v string)  { m.edit(func(f *domain.CheckoutForm) { f.RecipientName = v }) }
func (m *Model) SetRecipientPhone(v string) { m.edit(func(f *domain.CheckoutForm) { f.RecipientPhone = v }) }
func (m *Model) SetShippingAddr(v string)   { m.edit(func(f *domain.CheckoutForm) { f.ShippingAddr = v }) }
func (m *Model) SetNotes(v string)          { m.edit(func(f *domain.CheckoutForm) { f.Notes = v }) }

func (m *Model) SetPaymentMethod(pm domain.PaymentMethod) error {
	if !pm.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, pm)
	}
	m.edit(func(f *domain.CheckoutForm) { f.PaymentMethod = pm })
	return nil
}

func (m *Model) edit(fn func(*domain.CheckoutForm)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.form)
	m.err = ""
}

// Validate checks the form in a fixed order and reports the first failure.
func (m *Model) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validateLocked()
}

func (m *Model) validateLocked() error {
	switch {
	case m.loading:
		return ErrCartLoading
	case len(m.selection) == 0:
		return ErrNoSelection
	case strings.TrimSpace(m.form.RecipientName) == "":
		return ErrNameRequired
	case strings.TrimSpace(m.form.RecipientPhone) == "":
		return ErrPhoneRequired
	case !PhonePattern.MatchString(strings.TrimSpace(m.form.RecipientPhone)):
		return ErrPhoneInvalid
	case strings.TrimSpace(m.form.ShippingAddr) == "":
		return ErrAddressRequired
	}
	return nil
}

// CanSubmit mirrors the enabled state of the place-order control.
func (m *Model) CanSubmit() bool {
	m.mu.RLock()
	consumed := m.consumed
	invalid := m.validateLocked() != nil
	m.mu.RUnlock()
	return !consumed && !invalid && !m.submitting.Is()
}

func (m *Model) Submitting() bool {
	return m.submitting.Is()
}

// Submit places the order. A validation failure returns before any network
// call. A response with success=false is a soft failure: no navigation, no
// error, and Err explains it.
func (m *Model) Submit(ctx context.Context) (*route.Navigation, error) {
	m.mu.Lock()
	if m.consumed {
		m.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if err := m.validateLocked(); err != nil {
		m.err = Message(err)
		m.mu.Unlock()
		return nil, err
	}
	req := domain.CheckoutRequest{
		CartItemIDs:    append([]domain.ID(nil), m.selection...),
		PaymentMethod:  m.form.PaymentMethod,
		RecipientName:  m.form.RecipientName,
		RecipientPhone: m.form.RecipientPhone,
		ShippingAddr:   m.form.ShippingAddr,
		Notes:          m.form.Notes,
	}
	m.mu.Unlock()

	if !m.submitting.TryAcquire() {
		return nil, ErrSubmitting
	}
	defer m.submitting.Release()

	m.mu.Lock()
	if m.consumed {
		m.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	m.err = ""
	m.toast = ""
	m.mu.Unlock()

	res, err := m.gw.Checkout(gateway.WithIdempotencyKey(ctx, m.key), req)
	if err != nil {
		msg := msgCheckoutFailed
		if server := gateway.MessageOf(err, ""); server != "" {
			msg += " Msg: " + server
		}
		m.setErr(msg)
		m.log.WarnContext(ctx, "checkout failed", "items", len(req.CartItemIDs), "error", err)
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if !res.Success {
		m.setErr(msgNotAccepted)
		m.log.InfoContext(ctx, "checkout not accepted", "message", res.Message)
		return nil, nil
	}

	m.mu.Lock()
	m.consumed = true
	m.toast = msgSubmitted
	m.mu.Unlock()

	if err := selection.Clear(ctx, m.store); err != nil {
		m.log.WarnContext(ctx, "clear persisted selection failed", "error", err)
	}

	if res.OrderID.IsZero() {
		return route.ReplaceWith(route.PathOrders), nil
	}
	return route.ReplaceWith(route.PaymentPath(res.OrderID)), nil
}

func (m *Model) setErr(msg string) {
	m.mu.Lock()
	m.err = msg
	m.mu.Unlock()
}
