// Package payment drives the pay-now step for a single order.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/busy"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

type Gateway interface {
	GetOrder(ctx context.Context, orderID domain.ID) (*domain.Order, error)
	PayOrder(ctx context.Context, orderID domain.ID) (*domain.PayResult, error)
}

type Model struct {
	gw     Gateway
	log    *slog.Logger
	paying busy.Flag

	mu        sync.RWMutex
	order     *domain.Order
	loading   bool
	err       string
	gen       uint64
	dismissed bool
}

func NewModel(gw Gateway, log *slog.Logger) *Model {
	return &Model{
		gw:  gw,
		log: logger.OrDiscard(log).With("component", "payment"),
	}
}

// Load fetches the order. A response arriving after Dismiss, or after a
// newer Load started, is dropped.
func (m *Model) Load(ctx context.Context, orderID domain.ID) error {
	if orderID.IsZero() {
		return ErrNoOrderID
	}

	m.mu.Lock()
	if m.dismissed {
		m.mu.Unlock()
		return nil
	}
	m.gen++
	gen := m.gen
	m.loading = true
	m.err = ""
	m.mu.Unlock()

	order, err := m.gw.GetOrder(ctx, orderID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dismissed || gen != m.gen {
		return nil
	}
	m.loading = false
	if err != nil {
		m.err = msgLoadFailed
		m.log.WarnContext(ctx, "load order failed", "order_id", orderID, "error", err)
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	m.order = order
	return nil
}

// Dismiss detaches the model from its view; in-flight loads are ignored.
func (m *Model) Dismiss() {
	m.mu.Lock()
	m.dismissed = true
	m.loading = false
	m.mu.Unlock()
}

func (m *Model) Order() *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.order == nil {
		return nil
	}
	o := *m.order
	o.Items = append([]domain.OrderLine(nil), m.order.Items...)
	return &o
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

func (m *Model) Paying() bool {
	return m.paying.Is()
}

// CanPay is true only for a loaded order whose status is exactly PENDING.
func (m *Model) CanPay() bool {
	m.mu.RLock()
	ok := m.order != nil && m.order.Status == domain.OrderStatusPending
	m.mu.RUnlock()
	return ok && !m.paying.Is()
}

// Pay issues one pay request. On success the caller is sent to the order
// list; on failure the model stays put so the user can retry.
func (m *Model) Pay(ctx context.Context) (*route.Navigation, error) {
	m.mu.RLock()
	order := m.order
	m.mu.RUnlock()
	if order == nil || order.Status != domain.OrderStatusPending {
		return nil, ErrPayNotPermitted
	}
	if !m.paying.TryAcquire() {
		return nil, ErrPaying
	}
	defer m.paying.Release()

	m.setErr("")

	res, err := m.gw.PayOrder(ctx, order.OrderID)
	if err != nil {
		m.setErr(msgPayFailed)
		m.log.WarnContext(ctx, "pay order failed", "order_id", order.OrderID, "error", err)
		return nil, fmt.Errorf("pay order %s: %w", order.OrderID, err)
	}
	if res == nil || !res.Success {
		m.setErr(msgPayFailed)
		m.log.InfoContext(ctx, "payment declined", "order_id", order.OrderID)
		return nil, nil
	}

	m.log.InfoContext(ctx, "order paid", "order_id", order.OrderID)
	return route.ReplaceWith(route.PathOrders), nil
}

func (m *Model) setErr(msg string) {
	m.mu.Lock()
	m.err = msg
	m.mu.Unlock()
}
