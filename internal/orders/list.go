// Package orders backs the order history and order detail views.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

type Gateway interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID domain.ID) (*domain.Order, error)
}

type List struct {
	gw  Gateway
	log *slog.Logger

	mu      sync.RWMutex
	orders  []domain.Order
	loading bool
	err     string
}

func NewList(gw Gateway, log *slog.Logger) *List {
	return &List{
		gw:  gw,
		log: logger.OrDiscard(log).With("component", "orders"),
	}
}

// Load replaces the list. On failure the list is emptied.
func (l *List) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.err = ""
	l.mu.Unlock()

	orders, err := l.gw.ListOrders(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.orders = nil
		l.err = msgListFailed
		l.log.WarnContext(ctx, "load orders failed", "error", err)
		return fmt.Errorf("load orders: %w", err)
	}
	l.orders = orders
	return nil
}

func (l *List) Orders() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Order(nil), l.orders...)
}

func (l *List) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *List) Err() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// PayRoute offers the payment view for orders still awaiting payment.
func (l *List) PayRoute(o domain.Order) (*route.Navigation, bool) {
	if o.OrderID.IsZero() || o.Status.Normalized() != domain.OrderStatusPending {
		return nil, false
	}
	return route.To(route.PaymentPath(o.OrderID)), true
}

func (l *List) DetailRoute(o domain.Order) *route.Navigation {
	return route.To(route.OrderDetailPath(o.OrderID))
}
