package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"finances/internal/core"
	"finances/internal/store"
)

func seededService(t *testing.T, transactions []core.Transaction) *Service {
	t.Helper()
	st := store.NewMemoryStore()
	l := core.NewLedger()
	l.Transactions = transactions
	if err := st.Save(context.Background(), l); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewService(st)
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.Local)
}

func notes(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Note
	}
	return out
}

func TestReportDateRangeFilter(t *testing.T) {
	svc := seededService(t, []core.Transaction{
		{Amount: dec("1"), Category: "C", Note: "jan", CreatedAt: at(2024, 1, 1)},
		{Amount: dec("2"), Category: "C", Note: "jun", CreatedAt: at(2024, 6, 15)},
		{Amount: dec("3"), Category: "C", Note: "dec", CreatedAt: at(2024, 12, 31)},
	})

	got, err := svc.Report(context.Background(), ReportQuery{
		SortBy:    SortByDate,
		StartDate: "01.03.2024",
		EndDate:   "01.09.2024",
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(got) != 1 || got[0].Note != "jun" {
		t.Fatalf("expected only the June entry, got %v", notes(got))
	}
}

func TestReportDateBoundsAreInclusiveOfWholeDay(t *testing.T) {
	// 23:59 on the end date still passes: bounds compare calendar dates
	late := time.Date(2024, 9, 1, 23, 59, 59, 0, time.Local)
	early := time.Date(2024, 3, 1, 0, 0, 1, 0, time.Local)
	svc := seededService(t, []core.Transaction{
		{Amount: dec("1"), Category: "C", Note: "early", CreatedAt: early},
		{Amount: dec("2"), Category: "C", Note: "late", CreatedAt: late},
	})

	got, err := svc.Report(context.Background(), ReportQuery{
		SortBy:    SortByDate,
		StartDate: "01.03.2024",
		EndDate:   "01.09.2024",
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both boundary entries, got %v", notes(got))
	}
}

func TestReportSingleBound(t *testing.T) {
	svc := seededService(t, []core.Transaction{
		{Amount: dec("1"), Category: "C", Note: "a", CreatedAt: at(2024, 1, 1)},
		{Amount: dec("2"), Category: "C", Note: "b", CreatedAt: at(2024, 6, 15)},
	})

	got, err := svc.Report(context.Background(), ReportQuery{SortBy: SortByDate, StartDate: "01.02.2024"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(got) != 1 || got[0].Note != "b" {
		t.Fatalf("start-only bound: got %v", notes(got))
	}

	got, err = svc.Report(context.Background(), ReportQuery{SortBy: SortByDate, EndDate: "01.02.2024"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(got) != 1 || got[0].Note != "a" {
		t.Fatalf("end-only bound: got %v", notes(got))
	}
}

func TestReportMalformedDateFailsWholeReport(t *testing.T) {
	svc := seededService(t, []core.Transaction{
		{Amount: dec("1"), Category: "C", CreatedAt: at(2024, 1, 1)},
	})

	for _, bad := range []string{"2024-03-01", "31.02.xyz", "1.13.2024"} {
		if _, err := svc.Report(context.Background(), ReportQuery{StartDate: bad}); !errors.Is(err, core.ErrInvalidDateFormat) {
			t.Fatalf("start %q: expected ErrInvalidDateFormat, got %v", bad, err)
		}
		if _, err := svc.Report(context.Background(), ReportQuery{EndDate: bad}); !errors.Is(err, core.ErrInvalidDateFormat) {
			t.Fatalf("end %q: expected ErrInvalidDateFormat, got %v", bad, err)
		}
	}
}

func TestReportCategoryIsolation(t *testing.T) {
	svc := seededService(t, []core.Transaction{
		{Amount: dec("100"), Category: "Food", Note: "food", CreatedAt: at(2024, 1, 1)},
		{Amount: dec("50"), Category: "Rent", Note: "rent", CreatedAt: at(2024, 1, 2)},
		{Amount: dec("7"), Category: "food", Note: "lowercase", CreatedAt: at(2024, 1, 3)},
	})

	got, err := svc.Report(context.Background(), ReportQuery{SortBy: SortByDate, Category: "Food"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	// Exact, case-sensitive match
	if len(got) != 1 || got[0].Note != "food" {
		t.Fatalf("expected only the Food entry, got %v", notes(got))
	}
}

func TestReportSortStability(t *testing.T) {
	svc := seededService(t, []core.Transaction{
		{Amount: dec("5"), Category: "C", Note: "first", CreatedAt: at(2024, 1, 1)},
		{Amount: dec("5"), Category: "C", Note: "second", CreatedAt: at(2024, 1, 2)},
		{Amount: dec("1"), Category: "C", Note: "third", CreatedAt: at(2024, 1, 3)},
	})

	got, err := svc.Report(context.Background(), ReportQuery{SortBy: SortByAmount})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want := []string{"third", "first", "second"}
	for i, n := range want {
		if got[i].Note != n {
			t.Fatalf("expected %v, got %v", want, notes(got))
		}
	}

	// Descending keeps insertion order among equal amounts too
	got, err = svc.Report(context.Background(), ReportQuery{SortBy: SortByAmount, Descending: true})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want = []string{"first", "second", "third"}
	for i, n := range want {
		if got[i].Note != n {
			t.Fatalf("descending: expected %v, got %v", want, notes(got))
		}
	}
}

func TestReportSortFields(t *testing.T) {
	txs := []core.Transaction{
		{Amount: dec("2"), Category: "B", Note: "y", CreatedAt: at(2024, 1, 2)},
		{Amount: dec("1"), Category: "A", Note: "z", CreatedAt: at(2024, 1, 3)},
		{Amount: dec("3"), Category: "C", Note: "x", CreatedAt: at(2024, 1, 1)},
	}

	cases := []struct {
		sortBy string
		want   []string
	}{
		{SortByDate, []string{"x", "y", "z"}},
		{SortByAmount, []string{"z", "y", "x"}},
		{SortByCategory, []string{"z", "y", "x"}},
		{SortByNote, []string{"x", "y", "z"}},
		// Unrecognized sort fields silently fall back to note
		{"весьма странно", []string{"x", "y", "z"}},
		{"", []string{"x", "y", "z"}},
	}
	for _, tc := range cases {
		svc := seededService(t, txs)
		got, err := svc.Report(context.Background(), ReportQuery{SortBy: tc.sortBy})
		if err != nil {
			t.Fatalf("sort %q: %v", tc.sortBy, err)
		}
		for i, n := range tc.want {
			if got[i].Note != n {
				t.Fatalf("sort %q: expected %v, got %v", tc.sortBy, tc.want, notes(got))
			}
		}
	}
}

func TestReportDoesNotMutateLedger(t *testing.T) {
	st := store.NewMemoryStore()
	l := core.NewLedger()
	l.Transactions = []core.Transaction{
		{Amount: dec("2"), Category: "B", Note: "b", CreatedAt: at(2024, 1, 2)},
		{Amount: dec("1"), Category: "A", Note: "a", CreatedAt: at(2024, 1, 1)},
	}
	ctx := context.Background()
	if err := st.Save(ctx, l); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewService(st)

	if _, err := svc.Report(ctx, ReportQuery{SortBy: SortByAmount}); err != nil {
		t.Fatalf("report: %v", err)
	}

	after, _ := st.Load(ctx)
	if after.Transactions[0].Note != "b" || after.Transactions[1].Note != "a" {
		t.Fatalf("report reordered the persisted ledger: %v", notes(after.Transactions))
	}
}
