// Package catalog backs the product listing and product detail views.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/busy"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

const PageSize = gateway.DefaultPageSize

type Gateway interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	AddQuantity(ctx context.Context, productID int64, quantity int) error
}

// Session is the part of session.Session the catalog needs.
type Session interface {
	LoggedIn() bool
}

type Listing struct {
	gw     Gateway
	sess   Session
	log    *slog.Logger
	adding *busy.Set[int64]

	mu      sync.RWMutex
	page    int
	keyword string
	data    domain.ProductPage
	loading bool
	err     string
	toast   string
	gen     uint64
}

func NewListing(gw Gateway, sess Session, log *slog.Logger) *Listing {
	return &Listing{
		gw:     gw,
		sess:   sess,
		log:    logger.OrDiscard(log).With("component", "catalog"),
		adding: busy.NewSet[int64](),
		data:   emptyPage(),
	}
}

func emptyPage() domain.ProductPage {
	return domain.ProductPage{Content: []domain.Product{}, Size: PageSize}
}

// Load fetches the current page for the current keyword. Only the latest
// request may update the listing.
func (l *Listing) Load(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	q := domain.ProductQuery{Page: l.page, Size: PageSize, Keyword: l.keyword}
	l.loading = true
	l.err = ""
	l.mu.Unlock()

	page, err := l.gw.ListProducts(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil
	}
	l.loading = false
	if err != nil {
		l.data = emptyPage()
		l.err = msgListFailed
		l.log.WarnContext(ctx, "load products failed", "page", q.Page, "keyword", q.Keyword, "error", err)
		return fmt.Errorf("load products: %w", err)
	}
	l.data = *page
	return nil
}

// Search switches to keyword and goes back to the first page.
func (l *Listing) Search(ctx context.Context, keyword string) error {
	l.mu.Lock()
	l.keyword = strings.TrimSpace(keyword)
	l.page = 0
	l.mu.Unlock()
	return l.Load(ctx)
}

func (l *Listing) GoToPage(ctx context.Context, p int) error {
	l.mu.Lock()
	if p < 0 || p >= l.data.TotalPages {
		total := l.data.TotalPages
		l.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, p, total)
	}
	l.page = p
	l.mu.Unlock()
	return l.Load(ctx)
}

func (l *Listing) NextPage(ctx context.Context) error {
	return l.GoToPage(ctx, l.Page()+1)
}

func (l *Listing) PrevPage(ctx context.Context) error {
	return l.GoToPage(ctx, l.Page()-1)
}

// Reset clears the keyword and returns to the first page.
func (l *Listing) Reset(ctx context.Context) error {
	return l.Search(ctx, "")
}

func (l *Listing) Page() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

func (l *Listing) Keyword() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keyword
}

func (l *Listing) Products() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Product(nil), l.data.Content...)
}

func (l *Listing) Data() domain.ProductPage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d := l.data
	d.Content = append([]domain.Product(nil), l.data.Content...)
	return d
}

func (l *Listing) HasPrev() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data.Page > 0
}

func (l *Listing) HasNext() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data.HasNext
}

// Showing is the results line above the grid.
func (l *Listing) Showing() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.loading {
		return "Loading..."
	}
	n := len(l.data.Content)
	first := 0
	if n > 0 {
		first = 1
	}
	return fmt.Sprintf("Showing %d - %d of %d products", first, n, l.data.Total)
}

func (l *Listing) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *Listing) Err() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Toast is the last add-to-cart notice.
func (l *Listing) Toast() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.toast
}

func (l *Listing) Adding(productID int64) bool {
	return l.adding.Is(productID)
}

// AddToCart adds qty of a product, at least one. The result is reported
// through Toast as well as the returned error.
func (l *Listing) AddToCart(ctx context.Context, productID int64, qty int) error {
	if l.sess == nil || !l.sess.LoggedIn() {
		l.setToast(msgLoginToAdd)
		return ErrLoginRequired
	}
	if productID <= 0 {
		return ErrInvalidProduct
	}
	if qty < 1 {
		qty = 1
	}
	if !l.adding.TryAcquire(productID) {
		return ErrAdding
	}
	defer l.adding.Release(productID)

	if err := l.gw.AddQuantity(ctx, productID, qty); err != nil {
		l.setToast(gateway.MessageOf(err, msgAddRetry))
		l.log.WarnContext(ctx, "add to cart failed", "product_id", productID, "quantity", qty, "error", err)
		return fmt.Errorf("add product %d: %w", productID, err)
	}
	l.setToast(msgAdded)
	return nil
}

func (l *Listing) setToast(msg string) {
	l.mu.Lock()
	l.toast = msg
	l.mu.Unlock()
}
