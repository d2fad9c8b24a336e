package db

import (
	"context"
	"errors"
	"testing"
)

func countSettings(t *testing.T, q Querier) int {
	t.Helper()
	var n int
	if err := q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM settings`).Scan(&n); err != nil {
		t.Fatalf("counting settings: %v", err)
	}
	return n
}

func TestRunInTxCommits(t *testing.T) {
	database := NewTestDB(t)
	txm := NewTxManager(database)

	err := txm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := QuerierFromCtx(ctx, database)
		if q == Querier(database) {
			t.Error("expected the transaction, got the database handle")
		}
		_, err := q.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('a', '1')`)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	if n := countSettings(t, database); n != 1 {
		t.Errorf("expected 1 row after commit, got %d", n)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	database := NewTestDB(t)
	txm := NewTxManager(database)
	boom := errors.New("boom")

	err := txm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := QuerierFromCtx(ctx, database)
		if _, err := q.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('a', '1')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if n := countSettings(t, database); n != 0 {
		t.Errorf("expected rollback to leave 0 rows, got %d", n)
	}
}

func TestQuerierFromCtxWithoutTx(t *testing.T) {
	database := NewTestDB(t)
	if q := QuerierFromCtx(context.Background(), database); q != Querier(database) {
		t.Error("expected the database handle outside a transaction")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)
	if err := Migrate(context.Background(), database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
