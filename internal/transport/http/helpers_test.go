package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ochirbat/supportchat-server/internal/auth"
	"github.com/ochirbat/supportchat-server/internal/config"
	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/store"
	"github.com/ochirbat/supportchat-server/internal/store/sqlite"
)

// messageLog adapts the store to the router's append interface, mirroring
// the wiring the app layer does.
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

type testEnv struct {
	ts       *httptest.Server
	store    store.Store
	auth     *auth.Service
	registry *core.Registry
	jwtCfg   *auth.JWTConfig
}

// startTestServer brings up the full HTTP stack over an in-memory store
// seeded with two users and one admin.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	for _, u := range []struct{ name, password, role string }{
		{"alice", "userpass", store.RoleUser},
		{"bob", "userpass", store.RoleUser},
		{"admin1", "adminpass", store.RoleAdmin},
	} {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		if _, err := st.CreateUser(ctx, u.name, hash, u.role); err != nil {
			t.Fatalf("create user %s: %v", u.name, err)
		}
	}

	jwtCfg := &auth.JWTConfig{
		Secret: []byte("test-secret-change-me"),
		Issuer: "test",
		TTL:    time.Hour,
	}
	authService := auth.NewService(st, jwtCfg)

	logger := zerolog.Nop()
	registry := core.NewRegistry(&logger)
	router := core.NewRouter(registry, messageLog{st}, &logger)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(registry, router, authService, st, cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{
		ts:       ts,
		store:    st,
		auth:     authService,
		registry: registry,
		jwtCfg:   jwtCfg,
	}
}

// tokenFor mints a session token for the given seeded account.
func (e *testEnv) tokenFor(t *testing.T, username, role string) string {
	t.Helper()

	token, err := auth.GenerateToken(e.jwtCfg, username, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}
