// Package cache stores extracted style blocks and rendered pages.
//
// Blocks are addressed by their content token, so a block written while
// serving one request can be served to any later request that emits the
// same token, for example as a stylesheet at /sheet/{token}.css. Rendered
// pages are addressed by a hash of the component name and its props.
//
// # Backends
//
//   - [NullCache]: stores nothing
//   - [MemoryCache]: process-local map with expiry
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared across server replicas
//   - [MongoCache]: shared, documents expire through a TTL index
//
// [New] picks a backend from configuration.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl never expires.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer produces cache keys.
type Keyer interface {
	// BlockKey addresses a style block by its content token.
	BlockKey(token string) string

	// PageKey addresses a rendered page by component and props.
	PageKey(component string, props map[string]string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BlockKey returns "block:<token>".
func (DefaultKeyer) BlockKey(token string) string { return "block:" + token }

// PageKey returns "page:" followed by a hash of component and props.
func (DefaultKeyer) PageKey(component string, props map[string]string) string {
	return hashKey("page", component, props)
}
