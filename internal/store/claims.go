package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

const claimColumns = `id, item_id, claimant_id, claimant_name, claimant_contact, description,
	proof_images, status, note, created_at, decided_at`

// ClaimFilter narrows ListClaims. Zero fields are ignored.
type ClaimFilter struct {
	Status     model.ClaimStatus
	ItemID     string
	ClaimantID string
}

// CreateClaim stores a new pending claim.
func CreateClaim(ctx context.Context, q db.Querier, c model.Claim) (*model.Claim, error) {
	c.ID = uuid.NewString()
	c.Status = model.ClaimPending
	c.CreatedAt = time.Now().UTC()
	c.DecidedAt = nil
	c.Note = ""
	if c.ProofImages == nil {
		c.ProofImages = []string{}
	}

	images, err := json.Marshal(c.ProofImages)
	if err != nil {
		return nil, fmt.Errorf("encoding proof images: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO claims (`+claimColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ItemID, c.Claimant.UserID, c.Claimant.Name, c.Claimant.Contact, c.Description,
		string(images), c.Status, c.Note, c.CreatedAt, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	return &c, nil
}

// GetClaim returns a claim by ID, or nil if it does not exist.
func GetClaim(ctx context.Context, q db.Querier, id string) (*model.Claim, error) {
	row := q.QueryRowContext(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = ?`, id)
	c, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

// ListClaims returns claims matching the filter, oldest first.
func ListClaims(ctx context.Context, q db.Querier, f ClaimFilter) ([]model.Claim, error) {
	where := squirrel.Eq{}
	if f.Status != "" {
		where["status"] = f.Status
	}
	if f.ItemID != "" {
		where["item_id"] = f.ItemID
	}
	if f.ClaimantID != "" {
		where["claimant_id"] = f.ClaimantID
	}

	query, args, err := squirrel.Select(claimColumns).
		From("claims").
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building claim query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	claims := []model.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}

// SetClaimStatus decides a claim. The write applies only while the claim is
// still in status from; otherwise model.ErrConflict is returned.
func SetClaimStatus(ctx context.Context, q db.Querier, id string, from, to model.ClaimStatus, note string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE claims SET status = ?, note = ?, decided_at = ? WHERE id = ? AND status = ?`,
		to, note, time.Now().UTC(), id, from,
	)
	if err != nil {
		return fmt.Errorf("setting claim status: %w", err)
	}
	return checkSwap(ctx, q, result, "claims", id)
}

func scanClaim(s scanner) (*model.Claim, error) {
	var c model.Claim
	var images string
	var decidedAt sql.NullTime
	err := s.Scan(&c.ID, &c.ItemID, &c.Claimant.UserID, &c.Claimant.Name, &c.Claimant.Contact,
		&c.Description, &images, &c.Status, &c.Note, &c.CreatedAt, &decidedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &c.ProofImages); err != nil {
		return nil, fmt.Errorf("decoding proof images: %w", err)
	}
	if decidedAt.Valid {
		c.DecidedAt = &decidedAt.Time
	}
	return &c, nil
}
