package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ochirbat/supportchat-server/internal/auth"
	"github.com/ochirbat/supportchat-server/internal/config"
	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/store"
	"github.com/ochirbat/supportchat-server/internal/store/sqlite"
	transporthttp "github.com/ochirbat/supportchat-server/internal/transport/http"
)

// App wires together the routing core, storage and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	if cfg.SeedDemoUsers {
		if err := seedDemoUsers(context.Background(), st); err != nil {
			st.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}

	jwtConfig := &auth.JWTConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.SessionTTL,
	}
	authService := auth.NewService(st, jwtConfig)

	registry := core.NewRegistry(logger)
	router := core.NewRouter(registry, messageLog{st}, logger)
	server := transporthttp.NewServer(registry, router, authService, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or
// fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}

// messageLog adapts the persistence store to the router's narrow append
// interface.
type messageLog struct {
	st store.MessageStore
}

func (l messageLog) SaveMessage(ctx context.Context, msg *core.Message) (*core.Message, error) {
	saved, err := l.st.SaveMessage(ctx, &store.Message{
		Sender:    msg.Sender,
		Receiver:  msg.Receiver,
		Body:      msg.Body,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		return nil, err
	}
	return &core.Message{
		ID:        saved.ID,
		Sender:    saved.Sender,
		Receiver:  saved.Receiver,
		Body:      saved.Body,
		Timestamp: saved.Timestamp,
	}, nil
}

// seedDemoUsers creates the default demo accounts on first start. Existing
// accounts are left untouched.
func seedDemoUsers(ctx context.Context, st store.UserStore) error {
	defaults := []struct {
		username string
		password string
		role     string
	}{
		{"user1", "userpass", store.RoleUser},
		{"user2", "userpass", store.RoleUser},
		{"admin1", "adminpass", store.RoleAdmin},
	}

	for _, u := range defaults {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		if err := st.EnsureUser(ctx, u.username, hash, u.role); err != nil {
			return err
		}
	}
	return nil
}
