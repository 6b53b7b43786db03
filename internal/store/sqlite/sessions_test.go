package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corestudio/studio-server/internal/domain"
	"github.com/corestudio/studio-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastUsedAt:       now,
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	sess := makeTestSession("session-1", "user-1", "hash-abc", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "session-1" || got.UserID != "user-1" {
		t.Errorf("got %s/%s", got.ID, got.UserID)
	}

	_, err = s.GetSessionByRefreshToken(ctx, "hash-unknown")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSession_Rotation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	sess := makeTestSession("session-1", "user-1", "hash-old", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess.RefreshTokenHash = "hash-new"
	sess.ExpiresAt = time.Now().Add(2 * time.Hour)
	sess.LastUsedAt = time.Now()
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	// Old hash no longer resolves; new one does.
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-old"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old hash should be gone, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-new"); err != nil {
		t.Errorf("new hash should resolve: %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	sess := makeTestSession("session-1", "user-1", "hash-abc", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.DeleteSession(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := s.DeleteSession(ctx, "session-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		if err := s.CreateUser(ctx, makeTestUser("user-"+name, name, name+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}
	for i, tc := range []struct{ id, user, hash string }{
		{"session-1", "user-alice", "hash-1"},
		{"session-2", "user-alice", "hash-2"},
		{"session-3", "user-bob", "hash-3"},
	} {
		sess := makeTestSession(tc.id, tc.user, tc.hash, time.Now().Add(time.Hour))
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession %d: %v", i, err)
		}
	}

	if err := s.DeleteAllUserSessions(ctx, "user-alice"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Error("alice's first session should be gone")
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-3"); err != nil {
		t.Errorf("bob's session should survive: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	expired := makeTestSession("session-old", "user-1", "hash-old", time.Now().Add(-time.Hour))
	live := makeTestSession("session-live", "user-1", "hash-live", time.Now().Add(time.Hour))
	for _, sess := range []*domain.Session{expired, live} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
