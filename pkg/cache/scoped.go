package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments can share
// one backend without colliding. The render service scopes its keys apart
// from CLI runs pointed at the same Redis.
//
// Example usage:
//
//	// Service-scoped keys
//	serviceKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
//
//	// Unscoped keys for local CLI runs
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated
// key. A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TableKey generates a prefixed key for a loaded input table.
func (k *ScopedKeyer) TableKey(path string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(path, opts)
}

// ArtifactKey generates a prefixed key for rendered output bytes.
func (k *ScopedKeyer) ArtifactKey(layersHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layersHash, opts)
}
