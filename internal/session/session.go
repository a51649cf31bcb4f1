// Package session holds the logged-in user for one client instance. A
// Session is created once at startup, restored from the store by Init and
// passed explicitly to whatever needs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

const (
	userKey    = "session:username"
	cookiesKey = "session:cookies"
)

type AuthGateway interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
	Logout(ctx context.Context) error
}

type Session struct {
	auth    AuthGateway
	store   store.Store
	jar     http.CookieJar
	baseURL *url.URL
	log     *slog.Logger

	mu   sync.RWMutex
	user string
}

type persistedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Path  string `json:"path,omitempty"`
}

// New wires a session to the auth gateway and the cookie jar the gateway
// client sends requests with. Cookies are persisted for baseURL.
func New(auth AuthGateway, st store.Store, jar http.CookieJar, baseURL *url.URL, log *slog.Logger) *Session {
	return &Session{
		auth:    auth,
		store:   st,
		jar:     jar,
		baseURL: baseURL,
		log:     logger.OrDiscard(log).With("component", "session"),
	}
}

// Init restores the persisted user and cookies. A missing or unreadable
// record leaves the session logged out.
func (s *Session) Init(ctx context.Context) error {
	var username string
	err := store.GetJSON(ctx, s.store, userKey, &username)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if errors.Is(err, store.ErrCorrupt) {
		s.log.WarnContext(ctx, "dropping corrupt session record", "error", err)
		s.clear(ctx)
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var cookies []persistedCookie
	if err := store.GetJSON(ctx, s.store, cookiesKey, &cookies); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.WarnContext(ctx, "failed to restore session cookies", "error", err)
	}
	if s.jar != nil && len(cookies) > 0 {
		hc := make([]*http.Cookie, 0, len(cookies))
		for _, c := range cookies {
			hc = append(hc, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path})
		}
		s.jar.SetCookies(s.baseURL, hc)
	}

	s.mu.Lock()
	s.user = username
	s.mu.Unlock()
	return nil
}

func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) LoggedIn() bool {
	return s.User() != ""
}

// Login authenticates and persists the session. The returned navigation is
// where the login view goes next.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) (*route.Navigation, error) {
	if strings.TrimSpace(creds.Username) == "" || strings.TrimSpace(creds.Password) == "" {
		return nil, ErrMissingCredentials
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, &Error{
			Message: gateway.MessageOf(err, "Failed to login, Please try again later."),
			Err:     err,
		}
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Failed to login, Please try again later."
		}
		return nil, &Error{Message: msg}
	}

	username := res.Username
	if username == "" {
		username = creds.Username
	}
	s.mu.Lock()
	s.user = username
	s.mu.Unlock()

	if err := s.persist(ctx, username); err != nil {
		s.log.WarnContext(ctx, "failed to persist session", "error", err)
	}
	return route.ReplaceWith(route.PathHome), nil
}

// Register creates an account; on success the next view is login.
func (s *Session) Register(ctx context.Context, reg domain.Registration) (*route.Navigation, error) {
	if reg.Username == "" || reg.Password == "" || reg.Email == "" || reg.FullName == "" {
		return nil, ErrMissingFields
	}

	res, err := s.auth.Register(ctx, reg)
	if err != nil {
		return nil, &Error{Message: gateway.MessageOf(err, "Failed to register."), Err: err}
	}
	if !res.Success {
		return nil, &Error{Message: "Registration failed, please try again."}
	}
	return route.ReplaceWith(route.PathLogin), nil
}

// Logout ends the remote session (best effort) and always clears local state.
func (s *Session) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.log.WarnContext(ctx, "remote logout failed", "error", err)
	}
	s.clear(ctx)
}

// Require returns ErrNotLoggedIn for a logged-out session.
func (s *Session) Require() error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

func (s *Session) persist(ctx context.Context, username string) error {
	if err := store.SetJSON(ctx, s.store, userKey, username); err != nil {
		return err
	}
	if s.jar == nil {
		return nil
	}
	var cookies []persistedCookie
	for _, c := range s.jar.Cookies(s.baseURL) {
		cookies = append(cookies, persistedCookie{Name: c.Name, Value: c.Value, Path: s.baseURL.Path})
	}
	return store.SetJSON(ctx, s.store, cookiesKey, cookies)
}

func (s *Session) clear(ctx context.Context) {
	s.mu.Lock()
	s.user = ""
	s.mu.Unlock()

	for _, key := range []string{userKey, cookiesKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.WarnContext(ctx, "failed to clear session state", "key", key, "error", err)
		}
	}
	if s.jar == nil {
		return
	}
	// The jar does not report cookie paths, so expire both candidates.
	var expired []*http.Cookie
	for _, c := range s.jar.Cookies(s.baseURL) {
		for _, path := range []string{"/", s.baseURL.Path} {
			expired = append(expired, &http.Cookie{Name: c.Name, Path: path, MaxAge: -1})
		}
	}
	if len(expired) > 0 {
		s.jar.SetCookies(s.baseURL, expired)
	}
}
