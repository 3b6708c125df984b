// Package store persists the ledger document.
//
// A DocumentStore reads and writes the whole ledger as one unit: Load
// materializes the latest persisted state and Save replaces it entirely.
// There is no locking or versioning around a store; the engine assumes one
// caller at a time, and two concurrent read-modify-write cycles can silently
// lose an update. Anything layering concurrency on top must add its own
// mutual exclusion around the store.
package store

import (
	"context"

	"finances/internal/core"
)

type DocumentStore interface {
	// Load returns the persisted ledger. A store that has never been written
	// yields an empty ledger, not an error.
	Load(ctx context.Context) (core.Ledger, error)
	// Save replaces the persisted ledger wholesale.
	Save(ctx context.Context, l core.Ledger) error
}
