package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finances/internal/core"
)

// timestampLayout is the document timestamp encoding: local time, microsecond
// precision, no zone suffix. Existing documents use exactly this shape.
const timestampLayout = "2006-01-02T15:04:05.000000"

// document mirrors the persisted JSON shape. Amounts stay json.Number so the
// codec never routes them through binary floats.
type document struct {
	Transactions []documentTransaction  `json:"transactions"`
	Limits       map[string]json.Number `json:"limits"`
}

type documentTransaction struct {
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Note     string      `json:"note"`
	Date     string      `json:"date"`
	Kind     string      `json:"type"`
}

// FileStore keeps the whole ledger in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the document. A missing file yields an empty ledger; anything
// unparseable is surfaced as core.ErrCorruptDocument with no repair attempt.
func (f *FileStore) Load(ctx context.Context) (core.Ledger, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file missing, starting empty", "path", f.path)
		return core.NewLedger(), nil
	}
	if err != nil {
		return core.Ledger{}, fmt.Errorf("read ledger file %s: %w", f.path, err)
	}
	return decodeDocument(raw, f.path)
}

// Save serializes the full ledger and rewrites the file, replacing prior
// content entirely.
func (f *FileStore) Save(ctx context.Context, l core.Ledger) error {
	doc := document{
		Transactions: make([]documentTransaction, len(l.Transactions)),
		Limits:       make(map[string]json.Number, len(l.Limits)),
	}
	for i, t := range l.Transactions {
		doc.Transactions[i] = documentTransaction{
			Amount:   core.AmountToNumber(t.Amount),
			Category: t.Category,
			Note:     t.Note,
			Date:     t.CreatedAt.Format(timestampLayout),
			Kind:     string(t.Kind()),
		}
	}
	for category, lim := range l.Limits {
		doc.Limits[category] = core.AmountToNumber(lim.Max)
	}

	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0644); err != nil {
		return fmt.Errorf("write ledger file %s: %w", f.path, err)
	}
	slog.DebugContext(ctx, "Ledger file written",
		"path", f.path,
		"transactions", len(l.Transactions),
		"limits", len(l.Limits))
	return nil
}

func decodeDocument(raw []byte, path string) (core.Ledger, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return core.Ledger{}, fmt.Errorf("%s: %w: %v", path, core.ErrCorruptDocument, err)
	}

	ledger := core.NewLedger()
	for i, dt := range doc.Transactions {
		amount, err := core.AmountFromNumber(dt.Amount)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%s: transaction %d: %w: bad amount %q", path, i, core.ErrCorruptDocument, dt.Amount)
		}
		createdAt, err := time.ParseInLocation(timestampLayout, dt.Date, time.Local)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%s: transaction %d: %w: bad date %q", path, i, core.ErrCorruptDocument, dt.Date)
		}
		// The stored type label is ignored: the kind is recomputed from the
		// amount's sign, so a drifted label never survives a load.
		ledger.Transactions = append(ledger.Transactions, core.Transaction{
			Amount:    amount,
			Category:  dt.Category,
			Note:      dt.Note,
			CreatedAt: createdAt,
		})
	}
	for category, num := range doc.Limits {
		max, err := core.AmountFromNumber(num)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("%s: limit %q: %w: bad value %q", path, category, core.ErrCorruptDocument, num)
		}
		ledger.Limits[category] = core.CategoryLimit{Category: category, Max: max}
	}
	return ledger, nil
}
