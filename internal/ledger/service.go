// Package ledger implements the ledger engine: transaction ingestion with an
// advisory limit check, balance aggregation, report generation and limit
// management.
//
// Every operation loads the persisted document fresh and mutating operations
// write it back wholesale; no state is shared between calls, so each call
// sees the latest persisted ledger.
//
// A category limit caps the net cumulative total of the category: the limit
// check sums every transaction of the category, credits included, before
// comparing the projected total against the configured maximum. Exceeding a
// limit produces a warning value, never an error, and the transaction is
// recorded regardless.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/store"
)

type Service struct {
	store store.DocumentStore
}

func NewService(st store.DocumentStore) *Service {
	return &Service{store: st}
}

// LimitWarning reports a projected category total exceeding its limit. The
// engine hands it back as a value; how to show it is the caller's business.
type LimitWarning struct {
	Category  string
	Projected decimal.Decimal
	Max       decimal.Decimal
}

func (w *LimitWarning) String() string {
	return fmt.Sprintf("limit exceeded for category %q: projected total %s, limit %s",
		w.Category, w.Projected.StringFixed(2), w.Max.StringFixed(2))
}

// Add validates and appends a new transaction. The returned warning is non-nil
// when a configured limit for the category is exceeded by the projected net
// total; the transaction is persisted either way.
func (s *Service) Add(ctx context.Context, amount decimal.Decimal, category, note string) (core.Transaction, *LimitWarning, error) {
	if strings.TrimSpace(category) == "" {
		return core.Transaction{}, nil, core.ErrEmptyCategory
	}

	ledger, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, nil, fmt.Errorf("load ledger: %w", err)
	}

	var warning *LimitWarning
	if lim, ok := ledger.Limits[category]; ok {
		projected := ledger.CategoryTotal(category).Add(amount)
		if projected.GreaterThan(lim.Max) {
			warning = &LimitWarning{Category: category, Projected: projected, Max: lim.Max}
			slog.WarnContext(ctx, "Category limit exceeded",
				"category", category,
				"projected", projected.String(),
				"limit", lim.Max.String())
		}
	}

	tx := core.Transaction{
		Amount:    amount,
		Category:  category,
		Note:      note,
		CreatedAt: time.Now().Truncate(time.Microsecond),
	}
	ledger.Transactions = append(ledger.Transactions, tx)

	if err := s.store.Save(ctx, ledger); err != nil {
		return core.Transaction{}, nil, fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"category", tx.Category,
		"amount", tx.Amount.String(),
		"kind", string(tx.Kind()))
	return tx, warning, nil
}

// Balance returns the exact sum of every transaction's amount.
func (s *Service) Balance(ctx context.Context) (decimal.Decimal, error) {
	ledger, err := s.store.Load(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load ledger: %w", err)
	}
	total := decimal.Zero
	for _, t := range ledger.Transactions {
		total = total.Add(t.Amount)
	}
	return total, nil
}

// SetLimit validates and upserts the limit for a category. A later call for
// the same category overwrites the earlier one.
func (s *Service) SetLimit(ctx context.Context, category string, max decimal.Decimal) error {
	lim := core.CategoryLimit{Category: category, Max: max}
	if err := lim.Validate(); err != nil {
		return err
	}

	ledger, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	ledger.Limits[category] = lim

	if err := s.store.Save(ctx, ledger); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Category limit set",
		"category", category,
		"limit", max.String())
	return nil
}

// Categories returns the distinct category labels currently present among
// transactions, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ledger, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return ledger.Categories(), nil
}
