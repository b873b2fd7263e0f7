// Package catalog records the dashboards this tool has published, so
// they can be listed, re-opened, and trashed later.
//
// Two backends are available: a file store for CLI usage (one JSON file
// per entry under the config directory) and a MongoDB store for server
// deployments where the catalog is shared.
package catalog

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one published dashboard.
type Entry struct {
	// ID is the workspace dashboard ID.
	ID string `json:"id" bson:"_id"`

	// Name is the dashboard display name.
	Name string `json:"name" bson:"name"`

	// Owner identifies who published the dashboard. Empty for
	// single-user CLI catalogs.
	Owner string `json:"owner,omitempty" bson:"owner,omitempty"`

	// EmbedURL is the published iframe URL.
	EmbedURL string `json:"embed_url" bson:"embed_url"`

	// Definition is the serialized dashboard at publish time.
	Definition json.RawMessage `json:"definition,omitempty" bson:"definition,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for catalog backends.
type Store interface {
	// Get retrieves an entry by dashboard ID. Returns nil, nil when the
	// entry does not exist.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns entries, newest first. A non-empty owner restricts
	// the result to that owner's dashboards.
	List(ctx context.Context, owner string) ([]Entry, error)

	// Put inserts or replaces an entry.
	Put(ctx context.Context, entry *Entry) error

	// Delete removes an entry. Deleting a missing entry is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
