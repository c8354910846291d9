package styled

import (
	"slices"
	"sync"

	"github.com/matzehuels/styletower/pkg/errors"
)

// Props are the values an element is rendered with.
type Props map[string]any

// Interpolation resolves prop-dependent declarations. An empty result adds
// no rule.
type Interpolation func(Props) (string, error)

// Definition is a named set of declarations, optionally extending a base.
// A Definition is safe for concurrent rendering once construction, including
// any WithDynamic calls, is complete.
type Definition struct {
	key     string
	base    *Definition
	static  []string
	dynamic []Interpolation
	lineage []*Definition // base first, ends with the definition itself
}

// Key returns the definition's stable key.
func (d *Definition) Key() string { return d.key }

// Base returns the extended definition, or nil.
func (d *Definition) Base() *Definition { return d.base }

// Static returns the definition's own static declarations.
func (d *Definition) Static() []string { return slices.Clone(d.static) }

// IsDynamic reports whether the definition has its own interpolations.
func (d *Definition) IsDynamic() bool { return len(d.dynamic) > 0 }

// Depth is the number of ancestors in the chain.
func (d *Definition) Depth() int { return len(d.lineage) - 1 }

// Chain returns the keys of the extension chain, base first.
func (d *Definition) Chain() []string {
	keys := make([]string, len(d.lineage))
	for i, def := range d.lineage {
		keys[i] = def.key
	}
	return keys
}

// WithDynamic appends an interpolation and returns d. It must not be called
// once d is being rendered.
func (d *Definition) WithDynamic(fn Interpolation) *Definition {
	if fn != nil {
		d.dynamic = append(d.dynamic, fn)
	}
	return d
}

// Registry holds definitions by key.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Define registers a definition without a base.
func (r *Registry) Define(key string, static ...string) (*Definition, error) {
	return r.add(nil, key, static)
}

// Extend registers a definition extending base, which must belong to r.
func (r *Registry) Extend(base *Definition, key string, static ...string) (*Definition, error) {
	if base == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "extend %q: base is nil", key)
	}
	return r.add(base, key, static)
}

func (r *Registry) add(base *Definition, key string, static []string) (*Definition, error) {
	if err := errors.ValidateDefinitionKey(key); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[key]; ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "definition %q already exists", key)
	}
	if base != nil && r.defs[base.key] != base {
		return nil, errors.New(errors.ErrCodeUnknownDefinition, "base %q of %q is not registered here", base.key, key)
	}

	d := &Definition{key: key, base: base}
	for _, decls := range static {
		if decls != "" {
			d.static = append(d.static, decls)
		}
	}
	if base != nil {
		d.lineage = append(slices.Clone(base.lineage), d)
	} else {
		d.lineage = []*Definition{d}
	}

	r.defs[key] = d
	r.order = append(r.order, d)
	return d, nil
}

// Lookup returns the definition registered under key.
func (r *Registry) Lookup(key string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[key]
	return d, ok
}

// Definitions returns all definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
