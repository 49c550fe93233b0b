// Package registry deduplicates queries by their canonical form.
package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/Protocol-Lattice/gqlnormalize/normalizer"
	"github.com/Protocol-Lattice/gqlnormalize/parser"
	"github.com/Protocol-Lattice/gqlnormalize/printer"
)

// DefaultSize is the number of entries kept by the global registry.
const DefaultSize = 1024

// Entry is a registered canonical query.
type Entry struct {
	ID    string // Hex xxhash64 of Query
	Query string // Canonical query text, pretty layout
	hits  atomic.Int64
}

// Hits returns how many times an equivalent query was registered.
func (e *Entry) Hits() int64 {
	return e.hits.Load()
}

// Registry maps queries to canonical entries. Both the raw-source index and
// the entries are bounded LRU caches. A Registry is safe for concurrent use.
type Registry struct {
	normalizer *normalizer.Normalizer
	sources    *lru.Cache[uint64, string]
	entries    *lru.Cache[string, *Entry]
}

// New creates a registry holding at most size entries.
func New(size int, opts ...normalizer.Option) (*Registry, error) {
	sources, err := lru.New[uint64, string](size)
	if err != nil {
		return nil, errors.Wrap(err, "registry: create source cache")
	}
	entries, err := lru.New[string, *Entry](size)
	if err != nil {
		return nil, errors.Wrap(err, "registry: create entry cache")
	}
	return &Registry{
		normalizer: normalizer.New(opts...),
		sources:    sources,
		entries:    entries,
	}, nil
}

// Register canonicalizes src and returns its entry. Equivalent sources share
// one entry.
func (r *Registry) Register(src string) (*Entry, error) {
	sourceKey := xxhash.Sum64String(src)
	if id, ok := r.sources.Get(sourceKey); ok {
		if e, ok := r.entries.Get(id); ok {
			e.hits.Inc()
			return e, nil
		}
	}

	doc, err := parser.ParseDocument(src)
	if err != nil {
		return nil, errors.Wrap(err, "registry: parse query")
	}
	r.normalizer.NormalizeDocument(doc)

	var sb strings.Builder
	keyGen := xxhash.New()
	if err = printer.Print(io.MultiWriter(&sb, keyGen), doc); err != nil {
		return nil, errors.Wrap(err, "registry: print query")
	}

	e := &Entry{ID: formatID(keyGen.Sum64()), Query: sb.String()}
	if prev, ok, _ := r.entries.PeekOrAdd(e.ID, e); ok {
		e = prev
	}
	e.hits.Inc()
	r.sources.Add(sourceKey, e.ID)
	return e, nil
}

// Lookup returns the entry with the given id.
func (r *Registry) Lookup(id string) (*Entry, bool) {
	return r.entries.Get(id)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return r.entries.Len()
}

// ID returns the id of an already canonical query text.
func ID(canonical string) string {
	return formatID(xxhash.Sum64String(canonical))
}

func formatID(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// Global registry instance
var globalRegistry = mustNew(DefaultSize)

func mustNew(size int) *Registry {
	r, err := New(size)
	if err != nil {
		panic(err)
	}
	return r
}

// Register registers a query in the global registry.
func Register(src string) (*Entry, error) {
	return globalRegistry.Register(src)
}

// Lookup finds an entry in the global registry.
func Lookup(id string) (*Entry, bool) {
	return globalRegistry.Lookup(id)
}

// Default returns the global registry instance.
// This allows the handler package to serve the registered queries.
func Default() *Registry {
	return globalRegistry
}
