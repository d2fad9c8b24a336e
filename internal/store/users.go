package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

const userColumns = `id, name, COALESCE(email, ''), COALESCE(mobile, ''), role,
	email_verified, mobile_verified, created_at`

// CreateUser creates a new unverified user. It returns model.ErrConflict when
// the email or mobile number is already registered.
func CreateUser(ctx context.Context, q db.Querier, u model.User) (*model.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.EmailVerified = false
	u.MobileVerified = false

	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, mobile, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, nullString(u.Email), nullString(u.Mobile), u.Role, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("creating user: %w", model.ErrConflict)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, q db.Querier, id string) (*model.User, error) {
	return getUserBy(ctx, q, "id", id)
}

// GetUserByEmail returns a user by email address, or nil if none is registered.
func GetUserByEmail(ctx context.Context, q db.Querier, email string) (*model.User, error) {
	return getUserBy(ctx, q, "email", email)
}

// GetUserByMobile returns a user by mobile number, or nil if none is registered.
func GetUserByMobile(ctx context.Context, q db.Querier, mobile string) (*model.User, error) {
	return getUserBy(ctx, q, "mobile", mobile)
}

func getUserBy(ctx context.Context, q db.Querier, column, value string) (*model.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}
	return u, nil
}

// ListUsers returns all users.
func ListUsers(ctx context.Context, q db.Querier) ([]model.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of registered users.
func CountUsers(ctx context.Context, q db.Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// UpdateUserRole changes a user's role.
func UpdateUserRole(ctx context.Context, q db.Querier, id, role string) error {
	result, err := q.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("updating user role: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user role: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// MarkUserVerified sets the verified flag for each given channel.
func MarkUserVerified(ctx context.Context, q db.Querier, id string, channels []model.Channel) error {
	for _, c := range channels {
		var column string
		switch c {
		case model.ChannelEmail:
			column = "email_verified"
		case model.ChannelMobile:
			column = "mobile_verified"
		default:
			return fmt.Errorf("%w: unknown channel %q", model.ErrInvalidInput, c)
		}
		if _, err := q.ExecContext(ctx, `UPDATE users SET `+column+` = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("marking %s verified: %w", c, err)
		}
	}
	return nil
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Role, &u.EmailVerified, &u.MobileVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
