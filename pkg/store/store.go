// Package store persists diagrams for the API server.
//
// A Diagram pairs the uploaded source model with its most recent resolved
// layout. Two backends are provided: MongoStore for production and
// MemoryStore for tests and single-process setups.
package store

import (
	"context"
	"time"

	"github.com/flowline-dev/flowline/pkg/model"
)

// Diagram is a stored diagram record.
type Diagram struct {
	ID        string       `bson:"_id" json:"id"`
	Name      string       `bson:"name" json:"name"`
	Model     *model.Model `bson:"model" json:"model"`
	Resolved  *model.Model `bson:"resolved,omitempty" json:"resolved,omitempty"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}

// Summary is the listing view of a stored diagram, without model payloads.
type Summary struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Shapes    int       `bson:"shapes" json:"shapes"`
	Resolved  bool      `bson:"resolved" json:"resolved"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store defines the contract for persisting and retrieving diagrams.
type Store interface {
	// Save inserts or replaces a diagram by ID.
	Save(ctx context.Context, d *Diagram) error

	// Get returns the diagram with the given ID.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns summaries of all stored diagrams, most recently
	// updated first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the diagram with the given ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// summarize builds the listing view of a diagram.
func summarize(d *Diagram) Summary {
	shapes := 0
	if d.Model != nil {
		shapes = len(d.Model.Shapes)
	}
	return Summary{
		ID:        d.ID,
		Name:      d.Name,
		Shapes:    shapes,
		Resolved:  d.Resolved != nil,
		UpdatedAt: d.UpdatedAt,
	}
}
