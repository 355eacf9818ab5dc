package renderer

import (
	"github.com/MartinNikolovMarinov/memviz/internal/errcode"
)

// MaxCapabilities bounds every capability cache.
const MaxCapabilities = 254

// Cache holds the result of a two-call enumeration. The first Query fills
// it; later queries return the same slice until invalidated.
type Cache[T any] struct {
	enumerate func(count *uint32, buf []T) error
	name      func(T) string
	code      errcode.Error

	items  []T
	loaded bool
}

// NewCache returns an empty cache. Enumeration failures are reported as code.
func NewCache[T any](enumerate func(*uint32, []T) error, name func(T) string, code errcode.Error) *Cache[T] {
	return &Cache[T]{enumerate: enumerate, name: name, code: code}
}

// Query returns the cached entries, enumerating first when the cache is
// empty or invalidate is set. A failed refresh keeps the previous contents.
func (c *Cache[T]) Query(invalidate bool) ([]T, error) {
	if c.loaded && !invalidate {
		return c.items, nil
	}

	var count uint32
	if err := c.enumerate(&count, nil); err != nil {
		return nil, errcode.Wrap(c.code, err)
	}
	if count > MaxCapabilities {
		count = MaxCapabilities
	}

	items := make([]T, count)
	if count > 0 {
		if err := c.enumerate(&count, items); err != nil {
			return nil, errcode.Wrap(c.code, err)
		}
		if int(count) < len(items) {
			items = items[:count]
		}
	}

	c.items = items
	c.loaded = true
	return c.items, nil
}

// Supports reports whether an entry is named exactly name. The cache is
// filled on first use; enumeration failure reads as unsupported.
func (c *Cache[T]) Supports(name string) bool {
	items, err := c.Query(false)
	if err != nil {
		return false
	}
	for _, it := range items {
		if c.name(it) == name {
			return true
		}
	}
	return false
}

// Capabilities groups the instance layer and extension caches.
type Capabilities struct {
	layers     *Cache[LayerProperties]
	extensions *Cache[ExtensionProperties]
}

// NewCapabilities builds caches backed by driver.
func NewCapabilities(driver Driver) *Capabilities {
	return &Capabilities{
		layers: NewCache(driver.EnumerateLayers,
			func(l LayerProperties) string { return l.Name },
			errcode.VulkanLayerEnumerate),
		extensions: NewCache(driver.EnumerateExtensions,
			func(e ExtensionProperties) string { return e.Name },
			errcode.VulkanExtensionEnumerate),
	}
}

func (c *Capabilities) QueryLayers(invalidate bool) ([]LayerProperties, error) {
	return c.layers.Query(invalidate)
}

func (c *Capabilities) QueryExtensions(invalidate bool) ([]ExtensionProperties, error) {
	return c.extensions.Query(invalidate)
}

func (c *Capabilities) SupportsLayer(name string) bool { return c.layers.Supports(name) }

func (c *Capabilities) SupportsExtension(name string) bool { return c.extensions.Supports(name) }
