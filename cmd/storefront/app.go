package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/internal/telemetry"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	out    io.Writer
	state  store.Store
	client *gateway.Client
	sess   *session.Session

	closers []func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	a := &app{
		cfg: cfg,
		log: logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat),
		out: out,
	}
	slog.SetDefault(a.log)

	shutdown, err := telemetry.Setup(cfg.Tracing, os.Stderr)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdown)

	if err := a.openState(); err != nil {
		a.close(ctx)
		return nil, err
	}

	client, err := gateway.New(cfg.APIBaseURL,
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithBreaker(cfg.BreakerFailures, cfg.BreakerTimeout),
		gateway.WithLogger(a.log),
	)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.client = client

	a.sess = session.New(client, a.state, client.Jar(), client.BaseURL(), a.log)
	if err := a.sess.Init(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

// openState picks Redis when an address is configured, otherwise a local
// SQLite file, or process memory when asked for.
func (a *app) openState() error {
	switch {
	case a.cfg.RedisAddr != "":
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.state = store.NewRedisStore(rdb, a.cfg.StateTTL)
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	case a.cfg.StatePath == config.StateMemory:
		a.state = store.NewMemoryStore(a.cfg.StateTTL)
	default:
		st, err := store.NewSQLiteStore(a.cfg.StatePath, a.cfg.StateTTL)
		if err != nil {
			return fmt.Errorf("open state %s: %w", a.cfg.StatePath, err)
		}
		a.state = st
		a.closers = append(a.closers, func(context.Context) error { return st.Close() })
	}
	return nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("shutdown step failed", "error", err)
		}
	}
	a.closers = nil
}

// requireView runs the session guard for the view at path and fails when
// it would redirect to login.
func (a *app) requireView(path string) error {
	nav := route.Guard(a.sess.LoggedIn(), route.Navigation{Path: path})
	if nav.Path == route.PathLogin && path != route.PathLogin {
		return session.ErrNotLoggedIn
	}
	return nil
}

// follow prints where a view-model sent the user, after the session guard.
func (a *app) follow(nav *route.Navigation) {
	if nav == nil {
		return
	}
	guarded := route.Guard(a.sess.LoggedIn(), *nav)
	fmt.Fprintf(a.out, "-> %s\n", guarded.Path)
}
