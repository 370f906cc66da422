// Package store persists contacts and their interactions.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// ErrNotFound is returned for ids the store does not hold.
var ErrNotFound = errors.New("contact not found")

// Store is the persistence collaborator. Every call may fail; callers that
// update optimistically treat failures as best effort.
type Store interface {
	List(ctx context.Context) ([]model.Contact, error)
	Create(ctx context.Context, c model.Contact) (model.Contact, error)
	Update(ctx context.Context, id string, c model.Contact) error
	Delete(ctx context.Context, id string) error
	// LogInteraction appends in and moves the contact's last-contact
	// timestamps to in.At.
	LogInteraction(ctx context.Context, in model.Interaction) error
	Interactions(ctx context.Context, contactID string) ([]model.Interaction, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMarkdown = "markdown"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Options selects and locates a backend.
type Options struct {
	Backend      string
	Directory    string
	DatabasePath string
}

// Open returns the configured backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMarkdown:
		return OpenMarkdown(opts.Directory)
	case BackendSQLite:
		return OpenSQLite(opts.DatabasePath)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
