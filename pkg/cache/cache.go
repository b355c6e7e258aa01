// Package cache provides pluggable caching for resolved layouts.
//
// A Cache stores opaque byte payloads under string keys with an optional
// TTL. A Keyer derives those keys from a model hash and the layout options
// that went into the resolution, so two calls with the same model and
// options hit the same entry.
//
// Three backends are provided:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for the API server
//   - NullCache: no-op, for tests and --no-cache
package cache

import (
	"context"
	"time"
)

// Cache entry lifetimes per artifact type.
const (
	// TTLLayout bounds how long a resolved layout stays valid. Resolution
	// is deterministic, so this mainly caps cache growth.
	TTLLayout = 24 * time.Hour

	// TTLDiagram bounds cached stored-diagram payloads.
	TTLDiagram = time.Hour
)

// Cache is the storage interface all backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts captures the layout options that affect a resolution
// result. Two resolutions with equal model hash and equal opts are
// interchangeable.
type LayoutKeyOpts struct {
	Mode      string `json:"mode"`
	Direction string `json:"direction"`
}

// Keyer generates cache keys for the cacheable artifacts.
type Keyer interface {
	// LayoutKey generates a key for a resolved layout.
	LayoutKey(modelHash string, opts LayoutKeyOpts) string

	// DiagramKey generates a key for a stored diagram payload.
	DiagramKey(name string) string
}

// DefaultKeyer is the standard key scheme: prefix plus a SHA-256 hash of
// the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a resolved layout.
func (k *DefaultKeyer) LayoutKey(modelHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", modelHash, opts)
}

// DiagramKey generates a key for a stored diagram payload.
func (k *DefaultKeyer) DiagramKey(name string) string {
	return hashKey("diagram", name)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
