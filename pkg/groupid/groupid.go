// Package groupid maps the stable key of a style definition to a small,
// monotonically increasing integer called the group id.
//
// Group ids index the per-group bookkeeping of a [sheet.StyleSheet]. They are
// compact and cheap to compare, but they depend on allocation order, so they
// are never used as content addresses (see the hasher package for that).
//
// An Allocator is scoped to one sheet lifetime: one server request, one test,
// or one page on the client. [Allocator.Reset] returns it to its initial state
// so that ids are reproducible across isolated lifecycles.
package groupid

import (
	"sync"

	"github.com/matzehuels/styletower/pkg/errors"
)

// ID identifies a group within one allocator lifetime. Zero is never allocated.
type ID int

// First is the id handed out for the first key after construction or Reset.
const First ID = 1

// Allocator assigns group ids to stable keys.
//
// Allocation is serialized by a mutex, so concurrent callers against the same
// instance observe a single allocation sequence.
type Allocator struct {
	mu   sync.Mutex
	ids  map[string]ID
	keys map[ID]string
	next ID
}

// New creates an empty allocator.
func New() *Allocator {
	a := &Allocator{}
	a.Reset()
	return a
}

// Allocate returns the id previously assigned to key, or assigns the next id.
func (a *Allocator) Allocate(key string) ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.ids[key]; ok {
		return id
	}
	id := a.next
	a.next++
	a.ids[key] = id
	a.keys[id] = key
	return id
}

// Lookup returns the id for key without allocating.
func (a *Allocator) Lookup(key string) (ID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.ids[key]
	return id, ok
}

// Key returns the stable key that was assigned id.
func (a *Allocator) Key(id ID) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	k, ok := a.keys[id]
	return k, ok
}

// Restore records a key/id pair produced by another allocator, typically the
// server's, read back from rendered markup. Later allocations continue after
// the highest restored id. Restoring a pair that contradicts an existing
// mapping fails with ErrCodeInvalidInput.
func (a *Allocator) Restore(key string, id ID) error {
	if id < First {
		return errors.New(errors.ErrCodeInvalidInput, "group id %d out of range", id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if prev, ok := a.ids[key]; ok {
		if prev != id {
			return errors.New(errors.ErrCodeInvalidInput, "key %q already has group %d, cannot restore as %d", key, prev, id)
		}
		return nil
	}
	if prev, ok := a.keys[id]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "group %d already belongs to key %q", id, prev)
	}

	a.ids[key] = id
	a.keys[id] = key
	if id >= a.next {
		a.next = id + 1
	}
	return nil
}

// Len returns the number of allocated keys.
func (a *Allocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ids)
}

// Reset clears all mappings and restarts allocation at First.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = make(map[string]ID)
	a.keys = make(map[ID]string)
	a.next = First
}
