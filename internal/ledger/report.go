package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finances/internal/core"
)

// Report sort fields. Anything else falls back to sorting by note; that
// leniency is long-standing behavior and is kept rather than rejected.
const (
	SortByDate     = "date"
	SortByAmount   = "amount"
	SortByCategory = "category"
	SortByNote     = "note"
)

// reportDateLayout is the bound format accepted in report queries.
const reportDateLayout = "02.01.2006"

// ReportQuery selects and orders transactions for a report. StartDate and
// EndDate are DD.MM.YYYY strings and apply only when non-empty, as does
// Category.
type ReportQuery struct {
	SortBy     string
	Descending bool
	StartDate  string
	EndDate    string
	Category   string
}

// Report returns a filtered, stably sorted view over the transactions. The
// underlying ledger is never mutated. A malformed date bound fails the whole
// report with core.ErrInvalidDateFormat.
func (s *Service) Report(ctx context.Context, q ReportQuery) ([]core.Transaction, error) {
	ledger, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	transactions := ledger.Transactions

	if q.StartDate != "" || q.EndDate != "" {
		var start, end time.Time
		if q.StartDate != "" {
			start, err = time.ParseInLocation(reportDateLayout, q.StartDate, time.Local)
			if err != nil {
				return nil, fmt.Errorf("start date %q: %w", q.StartDate, core.ErrInvalidDateFormat)
			}
		}
		if q.EndDate != "" {
			end, err = time.ParseInLocation(reportDateLayout, q.EndDate, time.Local)
			if err != nil {
				return nil, fmt.Errorf("end date %q: %w", q.EndDate, core.ErrInvalidDateFormat)
			}
		}

		filtered := make([]core.Transaction, 0, len(transactions))
		for _, t := range transactions {
			d := dateOnly(t.CreatedAt)
			if !start.IsZero() && d.Before(start) {
				continue
			}
			if !end.IsZero() && d.After(end) {
				continue
			}
			filtered = append(filtered, t)
		}
		transactions = filtered
	}

	if q.Category != "" {
		filtered := make([]core.Transaction, 0, len(transactions))
		for _, t := range transactions {
			if t.Category == q.Category {
				filtered = append(filtered, t)
			}
		}
		transactions = filtered
	}

	out := make([]core.Transaction, len(transactions))
	copy(out, transactions)

	var less func(a, b core.Transaction) bool
	switch q.SortBy {
	case SortByDate:
		less = func(a, b core.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByAmount:
		less = func(a, b core.Transaction) bool { return a.Amount.LessThan(b.Amount) }
	case SortByCategory:
		less = func(a, b core.Transaction) bool { return a.Category < b.Category }
	default:
		less = func(a, b core.Transaction) bool { return a.Note < b.Note }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out, nil
}

// dateOnly truncates a timestamp to its calendar date: the date filter
// compares dates, so a transaction late on the end date still passes.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
