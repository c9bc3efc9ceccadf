// Package cache memoizes per-document transform results. Entries are guarded
// by a content fingerprint of the source and the stat of every file the
// result was built from; any change invalidates the entry.
package cache

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/inful/mdfp"
)

// Fingerprint hashes a document's frontmatter and body.
func Fingerprint(frontmatter, body string) string {
	return mdfp.CalculateFingerprintFromParts(frontmatter, body)
}

type depStat struct {
	path    string
	target  string // path with symlinks evaluated
	exists  bool
	size    int64
	modTime time.Time
}

func statDep(path string) depStat {
	info, err := os.Stat(path)
	if err != nil {
		return depStat{path: path}
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		target = path
	}
	return depStat{path: path, target: target, exists: true, size: info.Size(), modTime: info.ModTime()}
}

type entry[V any] struct {
	fingerprint string
	deps        []depStat
	value       V
}

// Stats counts cache lookups.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	hits    int
	misses  int
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]entry[V])}
}

// Get returns the value stored under key when fingerprint matches and no
// dependency changed since Put.
func (c *Cache[V]) Get(key, fingerprint string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if ok && e.fingerprint == fingerprint && depsUnchanged(e.deps) {
		c.record(true)
		return e.value, true
	}
	if ok {
		c.Invalidate(key)
	}
	c.record(false)
	return zero, false
}

// Put stores v under key. deps are the files v was derived from besides the
// fingerprinted source; missing files are tracked so their appearance
// invalidates the entry.
func (c *Cache[V]) Put(key, fingerprint string, deps []string, v V) {
	if c == nil {
		return
	}
	paths := slices.Clone(deps)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	stats := make([]depStat, len(paths))
	for i, p := range paths {
		stats[i] = statDep(p)
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{fingerprint: fingerprint, deps: stats, value: v}
	c.mu.Unlock()
}

// Invalidate drops key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Stats returns lookup counters and the number of live entries.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

func (c *Cache[V]) record(hit bool) {
	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
}

func depsUnchanged(deps []depStat) bool {
	for _, d := range deps {
		now := statDep(d.path)
		if now.exists != d.exists || now.target != d.target || now.size != d.size || !now.modTime.Equal(d.modTime) {
			return false
		}
	}
	return true
}
