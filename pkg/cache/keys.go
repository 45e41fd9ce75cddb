package cache

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key of a fetched payload.
	HTTPKey(namespace, key string) string
	// RenderKey is the key of a rendered artifact of a DOT document.
	RenderKey(dotHash string, opts RenderKeyOpts) string
	// ApplyKey is the key of an applied layout of a hierarchy.
	ApplyKey(hierarchyHash string, opts ApplyKeyOpts) string
}

// RenderKeyOpts are the render options that change the output.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine"`
}

// ApplyKeyOpts are the apply options that change the output.
type ApplyKeyOpts struct {
	LayoutHash string  `json:"layout_hash"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Simulate   bool    `json:"simulate"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return hashKey("render", dotHash, opts)
}

func (DefaultKeyer) ApplyKey(hierarchyHash string, opts ApplyKeyOpts) string {
	return hashKey("apply", hierarchyHash, opts)
}

// ScopedKeyer prefixes all keys of an inner keyer, for example to keep the
// entries of different servers sharing one Redis apart.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix. A nil inner keyer
// means the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(dotHash, opts)
}

func (k *ScopedKeyer) ApplyKey(hierarchyHash string, opts ApplyKeyOpts) string {
	return k.prefix + k.inner.ApplyKey(hierarchyHash, opts)
}
