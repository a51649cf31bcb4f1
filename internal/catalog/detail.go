package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/busy"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"golang.org/x/sync/singleflight"
)

type Detail struct {
	gw         Gateway
	sess       Session
	log        *slog.Logger
	sfg        singleflight.Group // concurrent loads of one product share a request
	submitting busy.Flag

	mu      sync.RWMutex
	product *domain.Product
	qty     int
	loading bool
	err     string
	toast   string
	gen     uint64
}

func NewDetail(gw Gateway, sess Session, log *slog.Logger) *Detail {
	return &Detail{
		gw:   gw,
		sess: sess,
		log:  logger.OrDiscard(log).With("component", "product-detail"),
		qty:  1,
	}
}

// Load fetches a product and resets the chosen quantity to one.
func (d *Detail) Load(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return ErrInvalidProduct
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.loading = true
	d.err = ""
	d.mu.Unlock()

	v, err, _ := d.sfg.Do(strconv.FormatInt(productID, 10), func() (interface{}, error) {
		return d.gw.GetProduct(ctx, productID)
	})

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return nil
	}
	d.loading = false
	if err != nil {
		d.err = msgDetailFailed
		d.log.WarnContext(ctx, "load product failed", "product_id", productID, "error", err)
		return fmt.Errorf("load product %d: %w", productID, err)
	}
	p, _ := v.(*domain.Product)
	if p == nil {
		p = &domain.Product{ID: productID}
	}
	cp := *p
	d.product = &cp
	d.qty = 1
	return nil
}

func (d *Detail) Product() *domain.Product {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.product == nil {
		return nil
	}
	p := *d.product
	return &p
}

func (d *Detail) Quantity() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.qty
}

// SetQuantity clamps n into [1, max(1, stock)] and returns the result.
func (d *Detail) SetQuantity(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	limit := 1
	if d.product != nil && d.product.Stock > 1 {
		limit = d.product.Stock
	}
	switch {
	case n < 1:
		n = 1
	case n > limit:
		n = limit
	}
	d.qty = n
	return n
}

func (d *Detail) InStock() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.product != nil && d.product.InStock()
}

func (d *Detail) CanAdd() bool {
	return d.InStock() && !d.submitting.Is()
}

func (d *Detail) Submitting() bool {
	return d.submitting.Is()
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

func (d *Detail) Toast() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.toast
}

// AddToCart adds the chosen quantity of the loaded product.
func (d *Detail) AddToCart(ctx context.Context) error {
	if d.sess == nil || !d.sess.LoggedIn() {
		d.set(func() { d.toast = msgLoginToAdd })
		return ErrLoginRequired
	}
	d.mu.RLock()
	p, qty := d.product, d.qty
	d.mu.RUnlock()
	if p == nil {
		return ErrNotLoaded
	}
	if !p.InStock() {
		return ErrOutOfStock
	}
	if !d.submitting.TryAcquire() {
		return ErrAdding
	}
	defer d.submitting.Release()

	d.set(func() { d.err, d.toast = "", "" })

	if err := d.gw.AddQuantity(ctx, p.ID, qty); err != nil {
		d.set(func() { d.err = msgDetailAdd })
		d.log.WarnContext(ctx, "add to cart failed", "product_id", p.ID, "quantity", qty, "error", err)
		return fmt.Errorf("add product %d: %w", p.ID, err)
	}
	d.set(func() { d.toast = msgAdded })
	return nil
}

func (d *Detail) set(fn func()) {
	d.mu.Lock()
	fn()
	d.mu.Unlock()
}
