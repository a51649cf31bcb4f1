package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxBody = 1 << 20

// POST /api/auth/register
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := s.store.Register(req); err != nil {
		handleStoreError(w, err)
		return
	}
	s.log.InfoContext(r.Context(), "user registered", "username", req.Username, "request_id", getRequestID(r.Context()))
	respondJSON(w, http.StatusOK, domain.AuthResult{Success: true, Username: req.Username, Message: "Registered"})
}

// POST /api/auth/login
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	token, err := s.store.Login(req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, domain.AuthResult{Success: true, Username: req.Username})
}

// POST /api/auth/logout
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if token := getToken(r.Context()); token != "" {
		s.store.Logout(token)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	respondJSON(w, http.StatusOK, domain.AuthResult{Success: true})
}

// GET /api/auth/me
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.User{Username: getUsername(r.Context())})
}

// GET /api/product?page=&size=&keyword=
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	respondJSON(w, http.StatusOK, s.store.Products(domain.ProductQuery{
		Page:    page,
		Size:    size,
		Keyword: q.Get("keyword"),
	}))
}

// GET /api/product/{productId}
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}
	p, err := s.store.Product(productID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GET /api/cart
func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Cart(getUsername(r.Context())))
}

// POST /api/cart/add?productId=&quantity=
func (s *Server) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, quantity, ok := quantityParams(w, r)
	if !ok {
		return
	}
	cart, err := s.store.AddToCart(getUsername(r.Context()), productID, quantity)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.CartSummary{TotalQuantity: cart.TotalQuantity, TotalPrice: cart.TotalPrice, Message: "Added"})
}

// POST /api/cart/remove?productId=&quantity=
func (s *Server) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, quantity, ok := quantityParams(w, r)
	if !ok {
		return
	}
	cart, err := s.store.RemoveFromCart(getUsername(r.Context()), productID, quantity)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.CartSummary{TotalQuantity: cart.TotalQuantity, TotalPrice: cart.TotalPrice, Message: "Removed"})
}

func quantityParams(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	q := r.URL.Query()
	productID, err := strconv.ParseInt(q.Get("productId"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return 0, 0, false
	}
	quantity, err := strconv.Atoi(q.Get("quantity"))
	if err != nil || quantity <= 0 || quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return 0, 0, false
	}
	return productID, quantity, true
}

// POST /api/order/checkout
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	username := getUsername(r.Context())
	res := s.store.Checkout(username, r.Header.Get("Idempotency-Key"), req)
	s.log.InfoContext(r.Context(), "checkout",
		"username", username,
		"items", len(req.CartItemIDs),
		"success", res.Success,
		"order_id", res.OrderID,
		"request_id", getRequestID(r.Context()))
	respondJSON(w, http.StatusOK, res)
}

// GET /api/order
func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Orders(getUsername(r.Context())))
}

// GET /api/order/{orderId}
func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.Order(getUsername(r.Context()), domain.ID(chi.URLParam(r, "orderId")))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// POST /api/order/{orderId}/pay
func (s *Server) PayOrder(w http.ResponseWriter, r *http.Request) {
	orderID := domain.ID(chi.URLParam(r, "orderId"))
	paid, err := s.store.Pay(getUsername(r.Context()), orderID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if !paid {
		respondJSON(w, http.StatusOK, domain.PayResult{Success: false, Message: "Order is not awaiting payment"})
		return
	}
	respondJSON(w, http.StatusOK, domain.PayResult{Success: true, Message: "Paid"})
}
