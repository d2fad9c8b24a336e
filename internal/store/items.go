package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

const itemColumns = `id, kind, title, category, color, location, description, status,
	reporter_id, reporter_name, reporter_contact, images, created_at, updated_at`

// ItemFilter narrows ListItems. Zero fields are ignored. Category matches
// case-insensitively.
type ItemFilter struct {
	Kind       model.Kind
	Status     model.Status
	Category   string
	ReporterID string
}

// CreateItem stores a new active item report. ID and timestamps are assigned here.
func CreateItem(ctx context.Context, q db.Querier, item model.Item) (*model.Item, error) {
	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.Status = model.ItemStatusActive
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = now
	if item.Images == nil {
		item.Images = []string{}
	}
	images, err := json.Marshal(item.Images)
	if err != nil {
		return nil, fmt.Errorf("encoding item images: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Kind, item.Title, item.Category, item.Color, item.Location, item.Description, item.Status,
		item.Reporter.UserID, item.Reporter.Name, item.Reporter.Contact, string(images), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return &item, nil
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, q db.Querier, id string) (*model.Item, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first.
func ListItems(ctx context.Context, q db.Querier, f ItemFilter) ([]model.Item, error) {
	where := squirrel.Eq{}
	if f.Kind != "" {
		where["kind"] = f.Kind
	}
	if f.Status != "" {
		where["status"] = f.Status
	}
	if f.Category != "" {
		where["lower(category)"] = strings.ToLower(strings.TrimSpace(f.Category))
	}
	if f.ReporterID != "" {
		where["reporter_id"] = f.ReporterID
	}

	query, args, err := squirrel.Select(itemColumns).
		From("items").
		Where(where).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetItemStatus moves an item from one status to another. It returns
// model.ErrNotFound if the item is missing and model.ErrConflict if the item
// is no longer in the expected status.
func SetItemStatus(ctx context.Context, q db.Querier, id string, from, to model.Status) error {
	result, err := q.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC(), id, from,
	)
	if err != nil {
		return fmt.Errorf("setting item status: %w", err)
	}
	return checkSwap(ctx, q, result, "items", id)
}

// DeleteItem hard-deletes an item. Claims are never deleted, so an item that
// has any claim on it is refused with model.ErrInvalidState.
func DeleteItem(ctx context.Context, q db.Querier, id string) error {
	var claims int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims WHERE item_id = ?`, id).Scan(&claims)
	if err != nil {
		return fmt.Errorf("counting item claims: %w", err)
	}
	if claims > 0 {
		return fmt.Errorf("%w: item has %d claim(s) on record", model.ErrInvalidState, claims)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	var (
		item   model.Item
		images string
	)
	err := s.Scan(&item.ID, &item.Kind, &item.Title, &item.Category, &item.Color, &item.Location,
		&item.Description, &item.Status, &item.Reporter.UserID, &item.Reporter.Name, &item.Reporter.Contact,
		&images, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
		return nil, fmt.Errorf("decoding item images: %w", err)
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	return &item, nil
}

// checkSwap interprets the result of a check-and-set UPDATE.
func checkSwap(ctx context.Context, q db.Querier, result sql.Result, table, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking %s row: %w", table, err)
	}
	if exists == 0 {
		return model.ErrNotFound
	}
	return model.ErrConflict
}
