// Package typecache memoises filetype-by-filename inference behind a
// bounded admission-counted cache, the same cache shape the teacher uses
// for its block and reader caches, applied here to a CPU-bound lookup
// rather than an I/O one.
package typecache

import (
	"hash/maphash"

	"github.com/dgryski/go-tinylfu"
)

const (
	entries = 4096
	samples = entries * 10
)

var seed = maphash.MakeSeed()

// result is the cached outcome of a filetype lookup: a filetype value,
// plus whether anything was actually inferred (stored explicitly so a
// negative lookup can be cached too).
type result struct {
	filetype int
	ok       bool
}

// Cache memoises calls to a filetype-inference function by filename.
// The zero value is not usable; create one with New.
type Cache struct {
	t    *tinylfu.T[string, result]
	miss func(name string) (int, bool)
}

// New wraps miss, an inference function such as filetypes.FromFilename
// bound to a particular MimeMap hook, with a bounded memoising cache.
func New(miss func(name string) (int, bool)) *Cache {
	return &Cache{
		t:    tinylfu.New[string, result](entries, samples, hashName),
		miss: miss,
	}
}

// Lookup returns the cached or freshly computed filetype for name.
func (c *Cache) Lookup(name string) (filetype int, ok bool) {
	if r, hit := c.t.Get(name); hit {
		return r.filetype, r.ok
	}
	ft, ok := c.miss(name)
	c.t.Add(name, result{filetype: ft, ok: ok})
	return ft, ok
}

func hashName(s string) uint64 { return maphash.String(seed, s) }
