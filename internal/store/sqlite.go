package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finances/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger in a local SQLite database. It keeps the
// same whole-document contract as the file store: Load reads every row and
// Save replaces every row inside one SQL transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.Ledger, error) {
	ledger := core.NewLedger()

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, category, note, created_at FROM transactions ORDER BY seq`)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var amountStr, category, note, createdAtStr string
		if err := rows.Scan(&amountStr, &category, &note, &createdAtStr); err != nil {
			return core.Ledger{}, fmt.Errorf("scan transaction: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%w: bad amount %q", core.ErrCorruptDocument, amountStr)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%w: bad created_at %q", core.ErrCorruptDocument, createdAtStr)
		}
		ledger.Transactions = append(ledger.Transactions, core.Transaction{
			Amount:    amount,
			Category:  category,
			Note:      note,
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return core.Ledger{}, fmt.Errorf("iterate transactions: %w", err)
	}

	limitRows, err := s.db.QueryContext(ctx,
		`SELECT category, max_amount FROM category_limits`)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("select limits: %w", err)
	}
	defer limitRows.Close()

	for limitRows.Next() {
		var category, maxStr string
		if err := limitRows.Scan(&category, &maxStr); err != nil {
			return core.Ledger{}, fmt.Errorf("scan limit: %w", err)
		}
		max, err := decimal.NewFromString(maxStr)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%w: bad limit %q", core.ErrCorruptDocument, maxStr)
		}
		ledger.Limits[category] = core.CategoryLimit{Category: category, Max: max}
	}
	if err := limitRows.Err(); err != nil {
		return core.Ledger{}, fmt.Errorf("iterate limits: %w", err)
	}

	return ledger, nil
}

func (s *SQLiteStore) Save(ctx context.Context, l core.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM category_limits`); err != nil {
		return fmt.Errorf("clear limits: %w", err)
	}

	for seq, t := range l.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, seq, amount, category, note, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), seq, t.Amount.String(), t.Category, t.Note,
			t.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", seq, err)
		}
	}
	for category, lim := range l.Limits {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO category_limits (category, max_amount) VALUES (?, ?)`,
			category, lim.Max.String())
		if err != nil {
			return fmt.Errorf("insert limit %q: %w", category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"transactions", len(l.Transactions),
		"limits", len(l.Limits))
	return nil
}
