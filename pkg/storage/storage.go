// Package storage persists named structures.
//
// This package defines the [Store] interface with two implementations:
//   - [MemoryStore]: in-process storage for development and testing
//   - [MongoStore]: MongoDB-backed storage for the HTTP server
//
// # Usage
//
//	store := storage.NewMemoryStore()
//	rec, err := store.Save(ctx, storage.NewRecord("benzene", "c1ccccc1", st))
//	if err != nil {
//	    return err
//	}
//	got, err := store.Get(ctx, rec.ID)
//
// Record IDs are random UUIDs assigned by Save.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/molview/pkg/molecule"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for IDs that are not UUIDs.
	ErrInvalidID = errors.New("invalid record id")
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 100

// Record is one saved structure.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name" bson:"name"`
	Source    string            `json:"source,omitempty" bson:"source,omitempty"`
	Structure molecule.Document `json:"structure" bson:"structure"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// NewRecord builds an unsaved record for st. An empty name falls back to
// the structure name and then to the source string.
func NewRecord(name, source string, st molecule.Structure) Record {
	if name == "" {
		name = st.Name
	}
	if name == "" {
		name = source
	}
	return Record{
		Name:      name,
		Source:    source,
		Structure: molecule.ToDocument(st),
	}
}

// Decode converts the stored document back into a structure.
func (r Record) Decode() (molecule.Structure, error) {
	return molecule.FromDocument(r.Structure)
}

// Store is the interface for structure storage backends.
type Store interface {
	// Save assigns an ID and creation time and stores rec.
	Save(ctx context.Context, rec Record) (Record, error)

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Deleting a missing ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp fills in the ID and creation time of a new record.
func stamp(rec Record, now time.Time) Record {
	rec.ID = uuid.NewString()
	rec.CreatedAt = now.UTC().Truncate(time.Millisecond)
	return rec
}

// checkID rejects IDs that could never have been issued by Save.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
