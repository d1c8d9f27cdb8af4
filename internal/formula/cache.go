package formula

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cache memoises Parse by formula text. Entries never expire: the mapping
// from text to tree is pure, so a cached tree is always correct. Safe for
// concurrent use.
type Cache struct {
	items *gocache.Cache
}

type cached struct {
	expr Expr
	err  error
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{items: gocache.New(gocache.NoExpiration, 0)}
}

// Parse returns the tree for text, parsing it on first use. Parse failures
// are cached as well so a broken table row is not re-parsed on every request.
func (c *Cache) Parse(text string) (Expr, error) {
	if v, ok := c.items.Get(text); ok {
		entry := v.(cached)
		return entry.expr, entry.err
	}

	e, err := Parse(text)
	c.items.Set(text, cached{expr: e, err: err}, gocache.NoExpiration)
	return e, err
}

// Len reports the number of cached formulas.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.items.Flush()
}
