// Package mockapi is an in-memory implementation of the storefront REST API,
// used by tests and by the mock-api command for local development.
package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// BasePath is where the API is mounted.
const BasePath = "/api"

type Server struct {
	store   *MemoryStore
	log     *slog.Logger
	timeout time.Duration
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = logger.OrDiscard(l)
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

func NewServer(st *MemoryStore, opts ...Option) *Server {
	s := &Server{
		store:   st,
		log:     logger.Discard(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Store() *MemoryStore {
	return s.store
}

// Handler builds the routed, instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(BasePath, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
			r.Post("/logout", s.Logout)
			r.With(RequireUser).Get("/me", s.Me)
		})
		r.Route("/product", func(r chi.Router) {
			r.Get("/", s.ListProducts)
			r.Get("/{productId}", s.GetProduct)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/cart", s.GetCart)
			r.Post("/cart/add", s.AddToCart)
			r.Post("/cart/remove", s.RemoveFromCart)
			r.Post("/order/checkout", s.Checkout)
			r.Get("/order", s.ListOrders)
			r.Get("/order/{orderId}", s.GetOrder)
			r.Post("/order/{orderId}/pay", s.PayOrder)
		})
	})

	return otelhttp.NewHandler(r, "mockapi")
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleStoreError maps store errors to HTTP answers.
func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Product not found")
	case errors.Is(err, ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Order not found")
	case errors.Is(err, ErrInsufficientStock):
		respondError(w, http.StatusBadRequest, "insufficient_stock", "Insufficient stock")
	case errors.Is(err, ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "Quantity must be positive")
	case errors.Is(err, ErrUserExists):
		respondError(w, http.StatusConflict, "already_exists", "Username already exists")
	case errors.Is(err, ErrBadCredentials):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "Invalid username or password")
	case errors.Is(err, ErrMissingFields):
		respondError(w, http.StatusBadRequest, "invalid_argument", "Please fill in all required fields")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
