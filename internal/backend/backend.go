// Package backend selects and constructs the document store configured for
// the application.
package backend

import (
	"finances/internal/store"
)

// Type represents the kind of document store backing the ledger
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the resources a backend holds; may be nil
type CleanupFunc func() error

// Result contains the store instance and optional cleanup function
type Result struct {
	Store   store.DocumentStore
	Cleanup CleanupFunc
}

// Config holds what each backend needs to come up
type Config struct {
	Type       Type
	LedgerFile string
	SQLitePath string
}
