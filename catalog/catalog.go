package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a catalog entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// ErrConcurrentModification is returned when a conditional update loses a
// race with another writer. Re-read the entry and retry.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// Entry describes one saved session.
type Entry struct {
	// Name is the catalog key; it matches the session's blob name.
	Name string
	// Meter is the session's time signature in "4/4" form.
	Meter string
	// Subdivisions is the session's total position count N.
	Subdivisions int
	// VectorCount is the size of the enumerated space.
	VectorCount uint64
	// Filters is the number of filters recorded in the session.
	Filters int
	// Revision increments on every update; conditional writes compare it.
	Revision uint64
	// UpdatedAt is the time of the last write.
	UpdatedAt time.Time
}

// Catalog is a registry of saved sessions.
type Catalog interface {
	// Put creates or updates an entry. The entry's Revision must match
	// the stored revision (0 for a new entry) or the write fails with
	// ErrConcurrentModification; on success the stored revision is the
	// entry's revision plus one.
	Put(ctx context.Context, entry Entry) error
	// Get returns the entry with the given name.
	Get(ctx context.Context, name string) (Entry, error)
	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Entry, error)
	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, name string) error
}
