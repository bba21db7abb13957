package cache

// ScopedKeyer wraps a Keyer with a prefix so that several processes can share
// one Redis or Mongo backend without seeing each other's entries.
//
// Example usage:
//
//	// Keys of the server watching one repository
//	k := NewScopedKeyer(NewDefaultKeyer(), "serve:linux:")
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

// GraphKey generates a prefixed key for commit graph caching.
func (k *ScopedKeyer) GraphKey(repo string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(repo, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
