package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *MemoryStore) {
	t.Helper()
	st := NewMemoryStore()
	Seed(st)
	return NewServer(st).Handler(), st
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	body := `{"username":"demo","password":"demo123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart/add?productId=1&quantity=1"},
		{http.MethodPost, "/api/order/checkout"},
		{http.MethodGet, "/api/order"},
		{http.MethodGet, "/api/auth/me"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "unauthorized", resp.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"demo","password":"x"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
}

func TestAddToCart_InvalidParams(t *testing.T) {
	h, _ := newTestHandler(t)
	cookie := login(t, h)

	for _, q := range []string{"productId=x&quantity=1", "productId=1&quantity=0", "productId=1&quantity=100"} {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/add?"+q, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestAddToCart_BeyondStock(t *testing.T) {
	h, _ := newTestHandler(t)
	cookie := login(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/add?productId=4&quantity=4", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Insufficient stock", resp.Error)
	assert.Equal(t, "insufficient_stock", resp.Code)
}

func TestGetCart(t *testing.T) {
	h, st := newTestHandler(t)
	cookie := login(t, h)
	_, err := st.AddToCart(DemoUsername, 2, 3)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cart domain.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Mouse", cart.Items[0].ProductName)
	assert.Equal(t, 3, cart.TotalQuantity)
}

func TestGetProduct(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "Keyboard", p.Name)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_EndsSession(t *testing.T) {
	h, _ := newTestHandler(t)
	cookie := login(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
