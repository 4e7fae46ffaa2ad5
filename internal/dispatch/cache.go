package dispatch

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/funvibe/multimethod/internal/typesystem"
)

// resolutionCache memoizes single-argument resolutions keyed by the
// concrete runtime type's qualified name. Entries never expire on their
// own; staleness is handled in bulk. The cache carries the registry
// version its entries were computed against, and a version mismatch
// flushes everything before trusting any entry, so a stale answer is
// never returned.
type resolutionCache struct {
	backend *gocache.Cache
	token   uint64
}

func newResolutionCache() *resolutionCache {
	return &resolutionCache{
		backend: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *resolutionCache) get(rt *typesystem.Type, version uint64) (Implementation, bool) {
	if c.token != version {
		c.backend.Flush()
		c.token = version
		return nil, false
	}
	v, found := c.backend.Get(rt.String())
	if !found {
		return nil, false
	}
	impl, ok := v.(Implementation)
	if !ok {
		return nil, false
	}
	return impl, true
}

func (c *resolutionCache) put(rt *typesystem.Type, version uint64, impl Implementation) {
	if c.token != version {
		c.backend.Flush()
		c.token = version
	}
	c.backend.Set(rt.String(), impl, gocache.NoExpiration)
}

func (c *resolutionCache) clear() {
	c.backend.Flush()
}
