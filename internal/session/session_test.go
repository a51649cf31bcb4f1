package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authMock struct {
	login     *domain.AuthResult
	register  *domain.AuthResult
	err       error
	logoutErr error
	logouts   int
	jar       http.CookieJar
	base      *url.URL
}

func (m *authMock) Login(_ context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.jar != nil {
		m.jar.SetCookies(m.base, []*http.Cookie{{Name: "SESSION", Value: "tok-" + creds.Username, Path: "/"}})
	}
	return m.login, nil
}

func (m *authMock) Register(context.Context, domain.Registration) (*domain.AuthResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.register, nil
}

func (m *authMock) Logout(context.Context) error {
	m.logouts++
	return m.logoutErr
}

func setup(t *testing.T, auth *authMock) (*Session, store.Store, http.CookieJar, *url.URL) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := url.Parse("http://shop.test/api")
	require.NoError(t, err)
	auth.jar = jar
	auth.base = base

	st := store.NewMemoryStore(0)
	return New(auth, st, jar, base, nil), st, jar, base
}

func TestLogin_PersistsUserAndCookies(t *testing.T) {
	auth := &authMock{login: &domain.AuthResult{Success: true, Username: "alice"}}
	s, st, _, _ := setup(t, auth)
	ctx := context.Background()

	nav, err := s.Login(ctx, domain.Credentials{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, route.ReplaceWith(route.PathHome), nav)
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "alice", s.User())

	restoredJar, _ := cookiejar.New(nil)
	base, _ := url.Parse("http://shop.test/api")
	restored := New(&authMock{}, st, restoredJar, base, nil)
	require.NoError(t, restored.Init(ctx))

	assert.Equal(t, "alice", restored.User())
	cookies := restoredJar.Cookies(base.JoinPath("cart"))
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok-alice", cookies[0].Value)
}

func TestLogin_Validation(t *testing.T) {
	s, _, _, _ := setup(t, &authMock{})

	_, err := s.Login(context.Background(), domain.Credentials{Username: " ", Password: "pw"})

	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.False(t, s.LoggedIn())
}

func TestLogin_ServerMessage(t *testing.T) {
	auth := &authMock{err: &gateway.APIError{StatusCode: 401, Message: "Bad credentials"}}
	s, _, _, _ := setup(t, auth)

	_, err := s.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})

	require.Error(t, err)
	assert.Equal(t, "Bad credentials", err.Error())
	var apiErr *gateway.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestLogin_TransportFailureFallback(t *testing.T) {
	s, _, _, _ := setup(t, &authMock{err: errors.New("dial tcp: refused")})

	_, err := s.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})

	assert.EqualError(t, err, "Failed to login, Please try again later.")
}

func TestLogin_UnsuccessfulResponse(t *testing.T) {
	s, _, _, _ := setup(t, &authMock{login: &domain.AuthResult{Success: false}})

	_, err := s.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})

	assert.EqualError(t, err, "Failed to login, Please try again later.")
	assert.False(t, s.LoggedIn())
}

func TestLogout_ClearsEverythingEvenWhenRemoteFails(t *testing.T) {
	auth := &authMock{login: &domain.AuthResult{Success: true, Username: "alice"}, logoutErr: errors.New("offline")}
	s, st, jar, base := setup(t, auth)
	ctx := context.Background()

	_, err := s.Login(ctx, domain.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	s.Logout(ctx)

	assert.Equal(t, 1, auth.logouts)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, jar.Cookies(base.JoinPath("cart")))
	_, err = st.Get(ctx, userKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Require(), ErrNotLoggedIn)
}

func TestInit_EmptyStore(t *testing.T) {
	s, _, _, _ := setup(t, &authMock{})

	require.NoError(t, s.Init(context.Background()))
	assert.False(t, s.LoggedIn())
}

func TestInit_CorruptRecordIsDropped(t *testing.T) {
	s, st, _, _ := setup(t, &authMock{})
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, userKey, []byte("{not json")))

	require.NoError(t, s.Init(ctx))

	assert.False(t, s.LoggedIn())
	_, err := st.Get(ctx, userKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegister(t *testing.T) {
	reg := domain.Registration{Username: "bob", Password: "pw", Email: "b@x.io", FullName: "Bob"}

	s, _, _, _ := setup(t, &authMock{register: &domain.AuthResult{Success: true}})
	nav, err := s.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, route.ReplaceWith(route.PathLogin), nav)

	s, _, _, _ = setup(t, &authMock{register: &domain.AuthResult{Success: false}})
	_, err = s.Register(context.Background(), reg)
	assert.EqualError(t, err, "Registration failed, please try again.")

	_, err = s.Register(context.Background(), domain.Registration{Username: "bob"})
	assert.ErrorIs(t, err, ErrMissingFields)
}
