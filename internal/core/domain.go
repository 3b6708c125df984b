package core

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Persisted kind labels. Existing documents carry these exact strings;
	// changing them breaks compatibility with data files already on disk.
	KindDebit  Kind = "списание"
	KindCredit Kind = "начисление"
)

type (
	Kind string

	Transaction struct {
		Amount    decimal.Decimal
		Category  string
		Note      string
		CreatedAt time.Time
	}

	CategoryLimit struct {
		Category string
		Max      decimal.Decimal
	}

	Ledger struct {
		Transactions []Transaction
		Limits       map[string]CategoryLimit
	}
)

var (
	ErrEmptyCategory     = errors.New("empty category")
	ErrNegativeLimit     = errors.New("negative limit")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDateFormat = errors.New("invalid date format, expected DD.MM.YYYY")
	ErrCorruptDocument   = errors.New("corrupt ledger document")
)

// Kind derives the transaction kind from the sign of the amount. It is never
// stored as independent state, so it cannot drift from Amount.
func (t Transaction) Kind() Kind {
	if t.Amount.IsNegative() {
		return KindDebit
	}
	return KindCredit
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (cl CategoryLimit) Validate() error {
	if strings.TrimSpace(cl.Category) == "" {
		return ErrEmptyCategory
	}
	if cl.Max.IsNegative() {
		return ErrNegativeLimit
	}
	return nil
}

// NewLedger returns an empty ledger, the state synthesized when no document
// has been persisted yet.
func NewLedger() Ledger {
	return Ledger{Limits: make(map[string]CategoryLimit)}
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate shared state behind the document's back.
func (l Ledger) Clone() Ledger {
	out := Ledger{
		Transactions: make([]Transaction, len(l.Transactions)),
		Limits:       make(map[string]CategoryLimit, len(l.Limits)),
	}
	copy(out.Transactions, l.Transactions)
	for k, v := range l.Limits {
		out.Limits[k] = v
	}
	return out
}

// CategoryTotal returns the signed sum of every transaction recorded under
// the category. Credits offset debits: a limit caps the net category total,
// not gross spending.
func (l Ledger) CategoryTotal(category string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.Transactions {
		if t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Categories returns the distinct category labels present among transactions,
// sorted for stable display.
func (l Ledger) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range l.Transactions {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}
