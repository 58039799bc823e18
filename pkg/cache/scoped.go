package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "brandqr:staging:")
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

func (k *ScopedKeyer) VectorKey(opts VectorKeyOpts) string {
	return k.prefix + k.inner.VectorKey(opts)
}

func (k *ScopedKeyer) RasterKey(vectorHash string, scale int) string {
	return k.prefix + k.inner.RasterKey(vectorHash, scale)
}

func (k *ScopedKeyer) ShareKey(id string) string {
	return k.prefix + k.inner.ShareKey(id)
}

func (k *ScopedKeyer) TemplateKey(source string) string {
	return k.prefix + k.inner.TemplateKey(source)
}
