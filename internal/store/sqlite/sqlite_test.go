package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ochirbat/supportchat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 || created.Username != "alice" || created.Role != store.RoleUser {
		t.Fatalf("unexpected user: %+v", created)
	}

	got, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != created.ID || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := s.GetUserByUsername(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureUserIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "admin1", "hash1", store.RoleAdmin); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	// Second call must not overwrite the existing account.
	if err := s.EnsureUser(ctx, "admin1", "hash2", store.RoleUser); err != nil {
		t.Fatalf("ensure user again: %v", err)
	}

	got, err := s.GetUserByUsername(ctx, "admin1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.PasswordHash != "hash1" || got.Role != store.RoleAdmin {
		t.Fatalf("existing user was modified: %+v", got)
	}
}

func TestListUsernamesByRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, u := range []struct{ name, role string }{
		{"user2", store.RoleUser},
		{"user1", store.RoleUser},
		{"admin1", store.RoleAdmin},
	} {
		if _, err := s.CreateUser(ctx, u.name, "hash", u.role); err != nil {
			t.Fatalf("create %s: %v", u.name, err)
		}
	}

	names, err := s.ListUsernames(ctx, store.RoleUser)
	if err != nil {
		t.Fatalf("list usernames: %v", err)
	}
	if len(names) != 2 || names[0] != "user1" || names[1] != "user2" {
		t.Fatalf("unexpected usernames: %v", names)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	inputs := []*store.Message{
		{Sender: "alice", Receiver: "admin", Body: "hi", Timestamp: base},
		{Sender: "admin1", Receiver: "alice", Body: "hello", Timestamp: base.Add(time.Minute)},
		{Sender: "alice", Receiver: "admin", Body: "thanks", Timestamp: base.Add(2 * time.Minute)},
		{Sender: "bob", Receiver: "admin", Body: "help", Timestamp: base.Add(3 * time.Minute)},
	}
	for _, m := range inputs {
		saved, err := s.SaveMessage(ctx, m)
		if err != nil {
			t.Fatalf("save message: %v", err)
		}
		if saved.ID == 0 {
			t.Fatalf("expected assigned id, got %+v", saved)
		}
	}

	// Both participants of a conversation see it, ordered ascending with
	// no duplicates.
	forAlice, err := s.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list for alice: %v", err)
	}
	if len(forAlice) != 3 {
		t.Fatalf("expected 3 messages for alice, got %d", len(forAlice))
	}
	wantBodies := []string{"hi", "hello", "thanks"}
	for i, m := range forAlice {
		if m.Body != wantBodies[i] {
			t.Fatalf("order broken at %d: got %q", i, m.Body)
		}
	}

	forAdmin1, err := s.ListForUser(ctx, "admin1")
	if err != nil {
		t.Fatalf("list for admin1: %v", err)
	}
	if len(forAdmin1) != 1 || forAdmin1[0].Body != "hello" {
		t.Fatalf("unexpected messages for admin1: %+v", forAdmin1)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 messages total, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.Before(all[i-1].Timestamp) {
			t.Fatalf("ascending order broken at %d", i)
		}
	}
}

func TestMessageIDsMonotonic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var lastID int64
	for i := 0; i < 5; i++ {
		saved, err := s.SaveMessage(ctx, &store.Message{
			Sender: "alice", Receiver: "admin", Body: "m", Timestamp: ts,
		})
		if err != nil {
			t.Fatalf("save message %d: %v", i, err)
		}
		if saved.ID <= lastID {
			t.Fatalf("ids not monotonically increasing: %d after %d", saved.ID, lastID)
		}
		lastID = saved.ID
	}
}
