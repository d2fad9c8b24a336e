package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

// sessionRetention is how long expired sessions are kept for inspection.
const sessionRetention = 24 * time.Hour

// CreateSession stores a new OTP session and returns its ID.
func CreateSession(ctx context.Context, q db.Querier, s model.OTPSession) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	dest, err := json.Marshal(s.Destinations)
	if err != nil {
		return "", fmt.Errorf("encoding destinations: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO otp_sessions (id, user_id, destinations, code_hash, created_at, expires_at, verified, attempts)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 0)`,
		s.ID, s.UserID, string(dest), s.CodeHash, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("creating otp session: %w", err)
	}

	// Opportunistically clean up sessions that expired long ago.
	_, _ = q.ExecContext(ctx,
		`DELETE FROM otp_sessions WHERE expires_at < ?`, s.CreatedAt.UTC().Add(-sessionRetention),
	)

	return s.ID, nil
}

// GetSession returns an OTP session by ID, or nil if it does not exist.
func GetSession(ctx context.Context, q db.Querier, id string) (*model.OTPSession, error) {
	var s model.OTPSession
	var dest string
	var verifiedAt sql.NullTime
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, destinations, code_hash, created_at, expires_at, verified, verified_at, attempts
		 FROM otp_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &dest, &s.CodeHash, &s.CreatedAt, &s.ExpiresAt, &s.Verified, &verifiedAt, &s.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting otp session: %w", err)
	}
	if err := json.Unmarshal([]byte(dest), &s.Destinations); err != nil {
		return nil, fmt.Errorf("decoding destinations: %w", err)
	}
	if verifiedAt.Valid {
		s.VerifiedAt = &verifiedAt.Time
	}
	return &s, nil
}

// UpdateSession applies a check-and-set patch. It returns model.ErrConflict
// when the stored attempt counter moved or the session was already verified.
func UpdateSession(ctx context.Context, q db.Querier, id string, p model.SessionPatch) error {
	var verifiedAt any
	if p.VerifiedAt != nil {
		verifiedAt = p.VerifiedAt.UTC()
	}

	result, err := q.ExecContext(ctx,
		`UPDATE otp_sessions SET attempts = ?, verified = ?, verified_at = ?
		 WHERE id = ? AND attempts = ? AND verified = 0`,
		p.Attempts, p.Verified, verifiedAt, id, p.ExpectedAttempts,
	)
	if err != nil {
		return fmt.Errorf("updating otp session: %w", err)
	}
	return checkSwap(ctx, q, result, "otp_sessions", id)
}
