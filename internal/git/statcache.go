package git

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	log "github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/models"
)

// DefaultStatTTL is how long a diff stat stays cached.
const DefaultStatTTL = 10 * time.Minute

// StatCache memoises diff stats by commit hash. A nil cache is valid and
// never hits.
type StatCache struct {
	cache *gocache.Cache
}

// NewStatCache builds a cache expiring entries after ttl.
func NewStatCache(ttl time.Duration) *StatCache {
	if ttl <= 0 {
		ttl = DefaultStatTTL
	}
	return &StatCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached stat for hash.
func (c *StatCache) Get(hash string) (models.DiffStat, bool) {
	if c == nil {
		return models.DiffStat{}, false
	}
	value, found := c.cache.Get(hash)
	if !found {
		return models.DiffStat{}, false
	}
	stat, ok := value.(models.DiffStat)
	if !ok {
		log.Printf("stat cache: unexpected %T for %s", value, hash)
		return models.DiffStat{}, false
	}
	return stat, true
}

// Set stores stat under hash with the default expiration.
func (c *StatCache) Set(hash string, stat models.DiffStat) {
	if c == nil {
		return
	}
	c.cache.Set(hash, stat, gocache.DefaultExpiration)
}

// Len reports the number of live entries.
func (c *StatCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}

// Flush drops every entry.
func (c *StatCache) Flush() {
	if c == nil {
		return
	}
	c.cache.Flush()
}
