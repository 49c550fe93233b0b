package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Protocol-Lattice/gqlnormalize/normalizer"
	"github.com/Protocol-Lattice/gqlnormalize/parser"
)

func TestRegistry_Register(t *testing.T) {
	r, err := New(16)
	require.NoError(t, err)

	a, err := r.Register(`query Q { b a }`)
	require.NoError(t, err)
	assert.Equal(t, "query Q {\n  a\n  b\n}\n", a.Query)
	assert.Len(t, a.ID, 16)
	assert.Equal(t, ID(a.Query), a.ID)
	assert.EqualValues(t, 1, a.Hits())

	b, err := r.Register("query Q {\n  a, b # reordered\n}")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.EqualValues(t, 2, a.Hits())

	// Same source again takes the source index path.
	c, err := r.Register(`query Q { b a }`)
	require.NoError(t, err)
	assert.Same(t, a, c)
	assert.EqualValues(t, 3, a.Hits())

	other, err := r.Register(`query Q { a c }`)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, other.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := New(16)
	require.NoError(t, err)

	e, err := r.Register(`{ user { name id } }`)
	require.NoError(t, err)

	found, ok := r.Lookup(e.ID)
	require.True(t, ok)
	assert.Same(t, e, found)

	_, ok = r.Lookup("0000000000000000")
	assert.False(t, ok)
}

func TestRegistry_InvalidQuery(t *testing.T) {
	r, err := New(16)
	require.NoError(t, err)

	_, err = r.Register(`{ a `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry: parse query")

	var syntaxErr *parser.Error
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 1, syntaxErr.Line)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Eviction(t *testing.T) {
	r, err := New(1)
	require.NoError(t, err)

	first, err := r.Register(`{ a }`)
	require.NoError(t, err)
	_, err = r.Register(`{ b }`)
	require.NoError(t, err)

	_, ok := r.Lookup(first.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())

	again, err := r.Register(`{ a }`)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.EqualValues(t, 1, again.Hits())
}

func TestRegistry_Options(t *testing.T) {
	plain, err := New(4)
	require.NoError(t, err)
	withValues, err := New(4, normalizer.WithFieldArgumentValues())
	require.NoError(t, err)

	e, err := plain.Register(`{ f(v: [2, 1]) }`)
	require.NoError(t, err)
	assert.Equal(t, "{\n  f(v: [2, 1])\n}\n", e.Query)

	e, err = withValues.Register(`{ f(v: [2, 1]) }`)
	require.NoError(t, err)
	assert.Equal(t, "{\n  f(v: [1, 2])\n}\n", e.Query)
}

func TestRegistry_InvalidSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}

func TestRegistry_Concurrent(t *testing.T) {
	r, err := New(64)
	require.NoError(t, err)

	queries := []string{`{ a b c }`, `{ c b a }`, `{ b, a, c }`, `{ c a b }`}
	var wg sync.WaitGroup
	ids := make([]string, 40)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := r.Register(queries[i%len(queries)])
			if assert.NoError(t, err) {
				ids[i] = e.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, r.Len())
	e, ok := r.Lookup(ids[0])
	require.True(t, ok)
	assert.EqualValues(t, len(ids), e.Hits())
}

func TestGlobalRegistry(t *testing.T) {
	e, err := Register(`query Global { z y }`)
	require.NoError(t, err)

	found, ok := Lookup(e.ID)
	require.True(t, ok)
	assert.Same(t, e, found)
	assert.Same(t, Default(), globalRegistry)
}
