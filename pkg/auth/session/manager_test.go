package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/daajin/poultrystore-backend/pkg/config"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) AccessSessionKey(accessID string) string {
	return "session:" + accessID
}

func newTestManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestNewManagerRejectsShortRefreshTTL(t *testing.T) {
	t.Parallel()

	cfg := config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "poultrystore",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 30,
	}
	if _, err := NewManager(nil, cfg); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestGenerateAndHasSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	token, err := mgr.Generate(context.Background(), accessID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a refresh token")
	}

	ok, err := mgr.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected session to exist")
	}

	ok, err = mgr.HasSession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no session for unknown access id")
	}
}

func TestRotateIssuesNewPairAndDropsOldSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	mgr := newTestManager(store)
	oldAccessID := NewAccessID()

	oldToken, err := mgr.Generate(context.Background(), oldAccessID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(context.Background(), oldAccessID, oldToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newAccessID == oldAccessID {
		t.Fatal("rotation must mint a fresh access id")
	}
	if newToken == oldToken {
		t.Fatal("rotation must mint a fresh refresh token")
	}

	if ok, _ := mgr.HasSession(context.Background(), oldAccessID); ok {
		t.Fatal("old session must be revoked after rotation")
	}
	if ok, _ := mgr.HasSession(context.Background(), newAccessID); !ok {
		t.Fatal("new session must exist after rotation")
	}

	// Replaying the consumed token must fail.
	if _, _, err := mgr.Rotate(context.Background(), oldAccessID, oldToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	if _, err := mgr.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := mgr.Rotate(context.Background(), accessID, "forged-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	// A failed rotation must not revoke the stored session.
	if ok, _ := mgr.HasSession(context.Background(), accessID); !ok {
		t.Fatal("session must survive a failed rotation")
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	if _, err := mgr.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Revoke(context.Background(), accessID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := mgr.HasSession(context.Background(), accessID); ok {
		t.Fatal("expected session to be gone after revoke")
	}
}
