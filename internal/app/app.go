// Package app wires the storefront client together: credential provider,
// gateway client, stores, checkout orchestrator, and order lifecycle
// manager. Everything is constructed explicitly at session start and passed
// by parameter; there are no ambient singletons.
package app

import (
	"context"

	sdkapp "github.com/go-faster/sdk/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0097eo/ideal-mobile-sub000/internal/credential"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/cart"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/checkout"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/order"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/wishlist"
	"github.com/0097eo/ideal-mobile-sub000/internal/gateway"
)

// Session is one customer session: the stores and managers a UI shell drives.
type Session struct {
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Checkout *checkout.Orchestrator
	Orders   *order.Manager
}

// NewSession constructs the full dependency graph for one session.
func NewSession(cfg *Config, creds credential.Provider, m *sdkapp.Telemetry, lg *zap.Logger) *Session {
	client := gateway.NewClient(gateway.Options{
		BaseURL:        cfg.GatewayURL,
		Credentials:    creds,
		Timeout:        cfg.Timeout,
		UserAgent:      cfg.UserAgent,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	}, lg)

	cartStore := cart.NewStore(client, lg)
	return &Session{
		Cart:     cartStore,
		Wishlist: wishlist.NewStore(client, lg),
		Checkout: checkout.NewOrchestrator(client, client, cartStore, lg),
		Orders:   order.NewManager(client, lg),
	}
}

// Start performs the one-time session-start load of cart and wishlist,
// concurrently. A failed load is recorded on the stores and surfaced to the
// caller; the session stays usable (retry is a user-initiated refresh).
func (s *Session) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Cart.Refresh(gctx) })
	g.Go(func() error { return s.Wishlist.Refresh(gctx) })
	return g.Wait()
}

// credentials picks the provider for the session: an in-memory token when
// one is configured, else the credential file.
func credentials(cfg *Config) credential.Provider {
	if cfg.Token != "" {
		return credential.NewMemory(cfg.Token)
	}
	return credential.NewFile(cfg.CredentialFile)
}

// Run builds a session and hands it to the interactive shell. It is the
// entry point used by cmd/storefront.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	sess := NewSession(cfg, credentials(cfg), m, lg)

	if err := sess.Start(ctx); err != nil {
		lg.Warn("Session start load failed", zap.Error(err))
	} else {
		lg.Info("Session started",
			zap.Int("cart_items", sess.Cart.ItemCount()),
			zap.Int("wishlist_items", sess.Wishlist.Len()),
		)
	}

	return runShell(ctx, sess, lg)
}
