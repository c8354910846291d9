package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one Redis or Mongo backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "shop:")
//	keyer.BlockKey("st-1x2y") // "shop:block:st-1x2y"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// BlockKey generates a prefixed block key.
func (k *ScopedKeyer) BlockKey(token string) string {
	return k.prefix + k.inner.BlockKey(token)
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(component string, props map[string]string) string {
	return k.prefix + k.inner.PageKey(component, props)
}
