package mockapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

type user struct {
	domain.Registration
}

type cartEntry struct {
	itemID    int64
	productID int64
	quantity  int
}

type order struct {
	domain.Order
	owner string
}

// MemoryStore holds everything the mock API serves. All methods are safe for
// concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	users    map[string]*user
	sessions map[string]string       // token -> username
	carts    map[string][]*cartEntry // username -> lines in insertion order
	orders   map[int64]*order        // orderID -> order
	replays  map[string]domain.ID    // username + idempotency key -> orderID
	now      func() time.Time

	nextItemID  int64
	nextOrderID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:    make(map[int64]*domain.Product),
		users:       make(map[string]*user),
		sessions:    make(map[string]string),
		carts:       make(map[string][]*cartEntry),
		orders:      make(map[int64]*order),
		replays:     make(map[string]domain.ID),
		now:         time.Now,
		nextItemID:  100,
		nextOrderID: 1000,
	}
}

// PutProduct inserts or replaces a catalog entry.
func (s *MemoryStore) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

// SetStock changes a product's stock without touching carts, which is how
// lines end up holding more than is available.
func (s *MemoryStore) SetStock(productID int64, stock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

func (s *MemoryStore) Product(productID int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return *p, nil
}

// Products pages through the catalog in id order. keyword matches name or
// description, case-insensitively.
func (s *MemoryStore) Products(q domain.ProductQuery) domain.ProductPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kw := strings.ToLower(strings.TrimSpace(q.Keyword))
	match := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if kw == "" || strings.Contains(strings.ToLower(p.Name), kw) || strings.Contains(strings.ToLower(p.Description), kw) {
			match = append(match, *p)
		}
	}
	sort.Slice(match, func(i, j int) bool { return match[i].ID < match[j].ID })

	size := q.Size
	if size <= 0 {
		size = 12
	}
	page := max(q.Page, 0)
	totalPages := (len(match) + size - 1) / size
	from := min(page*size, len(match))
	to := min(from+size, len(match))

	return domain.ProductPage{
		Content:    match[from:to],
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
		Total:      len(match),
		HasNext:    page+1 < totalPages,
	}
}

func (s *MemoryStore) Register(reg domain.Registration) error {
	if strings.TrimSpace(reg.Username) == "" || reg.Password == "" || reg.Email == "" || reg.FullName == "" {
		return ErrMissingFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[reg.Username]; ok {
		return ErrUserExists
	}
	s.users[reg.Username] = &user{Registration: reg}
	return nil
}

// Login checks credentials and opens a session, returning its token.
func (s *MemoryStore) Login(creds domain.Credentials) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[creds.Username]
	if !ok || u.Password != creds.Password {
		return "", ErrBadCredentials
	}
	token := uuid.NewString()
	s.sessions[token] = u.Username
	return token, nil
}

func (s *MemoryStore) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// UserFor resolves a session token.
func (s *MemoryStore) UserFor(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.sessions[token]
	return u, ok
}

func (s *MemoryStore) Cart(username string) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartLocked(username)
}

func (s *MemoryStore) cartLocked(username string) domain.Cart {
	c := domain.Cart{Items: []domain.CartLine{}}
	for _, e := range s.carts[username] {
		p := s.products[e.productID]
		line := domain.CartLine{
			ProductID:  e.productID,
			Quantity:   e.quantity,
			CartItemID: domain.ID(strconv.FormatInt(e.itemID, 10)),
		}
		if p != nil {
			line.ProductName = p.Name
			line.UnitPrice = p.Price
			line.Stock = p.Stock
			line.ImageURL = p.ImageURL
		}
		line.Subtotal = line.UnitPrice.Mul(line.Quantity)
		c.Items = append(c.Items, line)
		c.TotalQuantity += line.Quantity
		c.TotalPrice = c.TotalPrice.Add(line.Subtotal)
	}
	return c
}

// AddToCart adds quantity of a product, refusing to exceed stock.
func (s *MemoryStore) AddToCart(username string, productID int64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return domain.Cart{}, ErrProductNotFound
	}
	entry := s.entryLocked(username, productID)
	held := 0
	if entry != nil {
		held = entry.quantity
	}
	if held+quantity > p.Stock {
		return domain.Cart{}, fmt.Errorf("%w: %d available", ErrInsufficientStock, p.Stock)
	}
	if entry == nil {
		s.nextItemID++
		s.carts[username] = append(s.carts[username], &cartEntry{itemID: s.nextItemID, productID: productID, quantity: quantity})
	} else {
		entry.quantity += quantity
	}
	return s.cartLocked(username), nil
}

// RemoveFromCart lowers a line by quantity, clamped to what it holds, and
// drops the line when it reaches zero.
func (s *MemoryStore) RemoveFromCart(username string, productID int64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.carts[username]
	for i, e := range entries {
		if e.productID != productID {
			continue
		}
		e.quantity -= min(quantity, e.quantity)
		if e.quantity == 0 {
			s.carts[username] = append(entries[:i:i], entries[i+1:]...)
		}
		return s.cartLocked(username), nil
	}
	return domain.Cart{}, ErrProductNotFound
}

func (s *MemoryStore) entryLocked(username string, productID int64) *cartEntry {
	for _, e := range s.carts[username] {
		if e.productID == productID {
			return e
		}
	}
	return nil
}

// Checkout turns the named cart items into a PENDING order. Ids that are no
// longer in the cart are ignored; if none remain, or stock no longer covers
// a line, no order is created. A repeated idempotency key returns the order
// it created the first time.
func (s *MemoryStore) Checkout(username, idempotencyKey string, req domain.CheckoutRequest) domain.CheckoutResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	replayKey := username + "\x00" + idempotencyKey
	if idempotencyKey != "" {
		if id, ok := s.replays[replayKey]; ok {
			return domain.CheckoutResult{Success: true, OrderID: id}
		}
	}

	wanted := make(map[domain.ID]bool, len(req.CartItemIDs))
	for _, id := range req.CartItemIDs {
		wanted[id] = true
	}
	var picked []*cartEntry
	for _, e := range s.carts[username] {
		if wanted[domain.ID(strconv.FormatInt(e.itemID, 10))] {
			picked = append(picked, e)
		}
	}
	if len(picked) == 0 {
		return domain.CheckoutResult{Success: false, Message: "No valid cart items"}
	}

	// First pass: validate stock for every line
	for _, e := range picked {
		p, ok := s.products[e.productID]
		if !ok || p.Stock < e.quantity {
			return domain.CheckoutResult{Success: false, Message: "Insufficient stock"}
		}
	}

	s.nextOrderID++
	now := s.now().UTC().Format(time.RFC3339)
	o := &order{owner: username, Order: domain.Order{
		OrderID:        domain.ID(strconv.FormatInt(s.nextOrderID, 10)),
		OrderNumber:    fmt.Sprintf("SO%d", s.nextOrderID),
		Status:         domain.OrderStatusPending,
		Items:          make([]domain.OrderLine, 0, len(picked)),
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		ShippingAddr:   req.ShippingAddr,
		PaymentMethod:  string(req.PaymentMethod),
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}}

	// Second pass: take stock and move lines into the order
	taken := make(map[*cartEntry]bool, len(picked))
	for _, e := range picked {
		p := s.products[e.productID]
		p.Stock -= e.quantity
		line := domain.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    e.quantity,
			ImageURL:    p.ImageURL,
			Subtotal:    p.Price.Mul(e.quantity),
			CartItemID:  domain.ID(strconv.FormatInt(e.itemID, 10)),
		}
		o.Items = append(o.Items, line)
		o.TotalQuantity += line.Quantity
		o.TotalPrice = o.TotalPrice.Add(line.Subtotal)
		taken[e] = true
	}
	rest := s.carts[username][:0:0]
	for _, e := range s.carts[username] {
		if !taken[e] {
			rest = append(rest, e)
		}
	}
	s.carts[username] = rest

	s.orders[s.nextOrderID] = o
	if idempotencyKey != "" {
		s.replays[replayKey] = o.OrderID
	}
	return domain.CheckoutResult{Success: true, OrderID: o.OrderID, Message: "Order created"}
}

// Orders lists a user's orders, newest first.
func (s *MemoryStore) Orders(username string) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.orders))
	for id, o := range s.orders {
		if o.owner == username {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyOrder(s.orders[id].Order))
	}
	return out
}

func (s *MemoryStore) Order(username string, orderID domain.ID) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.orderLocked(username, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	return copyOrder(o.Order), nil
}

// Pay moves a PENDING order to PAID and reports whether it did.
func (s *MemoryStore) Pay(username string, orderID domain.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.orderLocked(username, orderID)
	if err != nil {
		return false, err
	}
	if o.Status != domain.OrderStatusPending {
		return false, nil
	}
	o.Status = domain.OrderStatusPaid
	o.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return true, nil
}

// SetOrderStatus forces an order into status, for seeding and tests.
func (s *MemoryStore) SetOrderStatus(orderID domain.ID, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := strconv.ParseInt(orderID.String(), 10, 64)
	if err != nil {
		return ErrOrderNotFound
	}
	o, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (s *MemoryStore) orderLocked(username string, orderID domain.ID) (*order, error) {
	id, err := strconv.ParseInt(orderID.String(), 10, 64)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	o, ok := s.orders[id]
	if !ok || o.owner != username {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderLine(nil), o.Items...)
	return o
}
