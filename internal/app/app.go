package app

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/ssn-relay/internal/config"
	"github.com/vovakirdan/ssn-relay/internal/core"
	"github.com/vovakirdan/ssn-relay/internal/nettts"
	"github.com/vovakirdan/ssn-relay/internal/observability"
	transporthttp "github.com/vovakirdan/ssn-relay/internal/transport/http"
)

// App wires together the relay pipeline and the HTTP ingress.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var deliverer core.Deliverer = nettts.NewClient(cfg.NetTTSAddr(), cfg.DialTimeout)
	if cfg.MetricsEnabled {
		deliverer = observability.NewMeteredDeliverer(deliverer)
	}

	allow := core.NewAllowList(cfg.AllowedUsers)
	relay := core.NewRelay(core.Options{
		Prefix:    cfg.Prefix,
		MaxLen:    cfg.MaxLen,
		AllowList: allow,
	}, deliverer)

	logger.Info().
		Str("nettts", cfg.NetTTSAddr()).
		Str("prefix", cfg.Prefix).
		Int("max_len", cfg.MaxLen).
		Int("allowed_users", allow.Len()).
		Msg("relay configured")

	return &App{
		server:          transporthttp.NewServer(relay, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	serverErr := make(chan error, 1)

	a.log.Info().Str("addr", ln.Addr().String()).Msg("listening for chat events")
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
