package orders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

type Detail struct {
	gw  Gateway
	log *slog.Logger

	mu        sync.RWMutex
	order     *domain.Order
	loading   bool
	err       string
	gen       uint64
	dismissed bool
}

func NewDetail(gw Gateway, log *slog.Logger) *Detail {
	return &Detail{
		gw:  gw,
		log: logger.OrDiscard(log).With("component", "order-detail"),
	}
}

// Load fetches one order. Responses that arrive after Dismiss or behind a
// newer Load are dropped.
func (d *Detail) Load(ctx context.Context, orderID domain.ID) error {
	if orderID.IsZero() {
		return ErrNoOrderID
	}

	d.mu.Lock()
	if d.dismissed {
		d.mu.Unlock()
		return nil
	}
	d.gen++
	gen := d.gen
	d.loading = true
	d.err = ""
	d.mu.Unlock()

	order, err := d.gw.GetOrder(ctx, orderID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dismissed || gen != d.gen {
		return nil
	}
	d.loading = false
	if err != nil {
		d.err = msgDetailFailed
		d.log.WarnContext(ctx, "load order failed", "order_id", orderID, "error", err)
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	d.order = order
	return nil
}

func (d *Detail) Dismiss() {
	d.mu.Lock()
	d.dismissed = true
	d.loading = false
	d.mu.Unlock()
}

func (d *Detail) Order() *domain.Order {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.order == nil {
		return nil
	}
	o := *d.order
	o.Items = append([]domain.OrderLine(nil), d.order.Items...)
	return &o
}

func (d *Detail) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

func (d *Detail) Err() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

func (d *Detail) IsPending() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.order != nil && d.order.Status.Normalized() == domain.OrderStatusPending
}
