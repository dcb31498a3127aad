package engine

import lru "github.com/hashicorp/golang-lru/v2"

type discoveryOp uint8

const (
	opElements discoveryOp = iota + 1
	opAttributes
	opValues
)

// discoveryKey identifies one discovery result. Embedding the file's
// modification signature means any change to the document misses the
// cache rather than serving stale vocabulary. The walker name keeps a
// custom strategy from being served another strategy's entries.
type discoveryKey struct {
	walker    string
	path      string
	op        discoveryOp
	element   string
	attribute string
	modTime   int64
	size      int64
}

type discoveryCache struct {
	lru *lru.Cache[discoveryKey, []string]
}

func newDiscoveryCache(size int) *discoveryCache {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[discoveryKey, []string](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &discoveryCache{lru: c}
}

func (c *discoveryCache) get(key discoveryKey) ([]string, bool) {
	return c.lru.Get(key)
}

func (c *discoveryCache) put(key discoveryKey, values []string) {
	c.lru.Add(key, values)
}
