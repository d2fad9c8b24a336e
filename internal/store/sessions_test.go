package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateAndGetSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	id, err := CreateSession(ctx, database, model.OTPSession{
		UserID:       "u1",
		Destinations: map[model.Channel]string{model.ChannelEmail: "ana@uni.edu"},
		CodeHash:     "hash",
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	s, err := GetSession(ctx, database, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if s == nil {
		t.Fatal("expected session, got nil")
	}
	if s.Destinations[model.ChannelEmail] != "ana@uni.edu" || s.CodeHash != "hash" {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.Verified || s.Attempts != 0 {
		t.Errorf("expected fresh session, got verified=%v attempts=%d", s.Verified, s.Attempts)
	}
	if !s.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Errorf("expires_at = %v, want %v", s.ExpiresAt, now.Add(time.Minute))
	}

	missing, _ := GetSession(ctx, database, "nope")
	if missing != nil {
		t.Error("expected nil for missing session")
	}
}

func TestUpdateSessionCheckAndSet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	id, _ := CreateSession(ctx, database, model.OTPSession{
		UserID:       "u1",
		Destinations: map[model.Channel]string{model.ChannelMobile: "+38640123456"},
		CodeHash:     "hash",
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Minute),
	})

	if err := UpdateSession(ctx, database, id, model.SessionPatch{ExpectedAttempts: 0, Attempts: 1}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	// A writer that read the old counter loses.
	err := UpdateSession(ctx, database, id, model.SessionPatch{ExpectedAttempts: 0, Attempts: 1})
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict on stale attempts, got %v", err)
	}

	verifiedAt := now.Add(10 * time.Second)
	err = UpdateSession(ctx, database, id, model.SessionPatch{ExpectedAttempts: 1, Attempts: 1, Verified: true, VerifiedAt: &verifiedAt})
	if err != nil {
		t.Fatalf("verifying session: %v", err)
	}

	// Verified sessions cannot be written again.
	err = UpdateSession(ctx, database, id, model.SessionPatch{ExpectedAttempts: 1, Attempts: 2})
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict on verified session, got %v", err)
	}

	s, _ := GetSession(ctx, database, id)
	if !s.Verified || s.VerifiedAt == nil || s.Attempts != 1 {
		t.Errorf("unexpected session after verify: %+v", s)
	}

	err = UpdateSession(ctx, database, "missing", model.SessionPatch{})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
