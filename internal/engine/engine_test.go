package engine

import (
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/xmlgrep/internal/query"
)

const productsDoc = `<Products><Product id="1" category="electronics"><ProductCode>P001</ProductCode></Product><Product id="2" category="food"><ProductCode>P002</ProductCode></Product></Products>`

func newTestEngine(t *testing.T, docs map[string]string, opts ...Option) *Engine {
	t.Helper()
	fs := memfs.New()
	for path, content := range docs {
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
	}
	return New(append([]Option{WithFilesystem(fs)}, opts...)...)
}

func TestSearchAcrossStrategies(t *testing.T) {
	eng := newTestEngine(t, map[string]string{"/products.xml": productsDoc})
	q, err := query.New("Product")
	require.NoError(t, err)
	q = q.WithAttribute("category").WithValue("electronics")

	var baseline []query.Match
	for _, strategy := range eng.Strategies() {
		t.Run(strategy, func(t *testing.T) {
			res, err := eng.Search(strategy, "/products.xml", q)
			require.NoError(t, err)

			assert.Equal(t, strategy, res.Strategy)
			assert.Equal(t, q, res.Query)
			require.Equal(t, 1, res.Count())

			id, ok := res.Matches[0].Attr("id")
			require.True(t, ok)
			assert.Equal(t, "1", id)

			if baseline == nil {
				baseline = res.Matches
			} else {
				assert.Equal(t, baseline, res.Matches, "strategies must agree")
			}
		})
	}
}

func TestSearchRepeatIsIdempotent(t *testing.T) {
	eng := newTestEngine(t, map[string]string{"/products.xml": productsDoc})
	q, err := query.New("Product")
	require.NoError(t, err)

	first, err := eng.Search("tree", "/products.xml", q)
	require.NoError(t, err)
	second, err := eng.Search("tree", "/products.xml", q)
	require.NoError(t, err)

	// Identical modulo elapsed duration.
	assert.Equal(t, first.Matches, second.Matches)
	assert.Equal(t, first.Strategy, second.Strategy)
	assert.Equal(t, first.Query, second.Query)
}

func TestUnsupportedStrategy(t *testing.T) {
	eng := newTestEngine(t, map[string]string{"/products.xml": productsDoc})
	q, err := query.New("Product")
	require.NoError(t, err)

	_, err = eng.Search("dom", "/products.xml", q)
	require.ErrorIs(t, err, query.ErrUnsupportedStrategy)

	_, err = eng.ElementNames("dom", "/products.xml")
	require.ErrorIs(t, err, query.ErrUnsupportedStrategy)
}

func TestDocumentUnreadable(t *testing.T) {
	eng := newTestEngine(t, nil)
	q, err := query.New("Product")
	require.NoError(t, err)

	_, err = eng.Search("streaming", "/missing.xml", q)
	require.ErrorIs(t, err, query.ErrDocumentUnreadable)

	_, err = eng.AttributeNames("streaming", "/missing.xml", "Product")
	require.ErrorIs(t, err, query.ErrDocumentUnreadable)
}

func TestInvalidQueryDetectedBeforeIO(t *testing.T) {
	eng := newTestEngine(t, nil)

	// The document does not exist; the query error must win because it
	// is checked before any I/O.
	_, err := eng.Search("streaming", "/missing.xml", query.Query{})
	require.ErrorIs(t, err, query.ErrInvalidQuery)
}

func TestMalformedDocumentPropagates(t *testing.T) {
	eng := newTestEngine(t, map[string]string{"/bad.xml": `<Products><Product></Products>`})
	q, err := query.New("Product")
	require.NoError(t, err)

	for _, strategy := range eng.Strategies() {
		_, err := eng.Search(strategy, "/bad.xml", q)
		assert.ErrorIs(t, err, query.ErrMalformedDocument, strategy)
	}
}

func TestDiscoveryDelegation(t *testing.T) {
	eng := newTestEngine(t, map[string]string{"/products.xml": productsDoc})

	names, err := eng.ElementNames("xpath", "/products.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "ProductCode", "Products"}, names)

	attrs, err := eng.AttributeNames("tree", "/products.xml", "Product")
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "id"}, attrs)

	values, err := eng.AttributeValues("streaming", "/products.xml", "Product", "category")
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "food"}, values)
}

func TestDiscoveryCacheInvalidatesOnChange(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/doc.xml", []byte(`<a><b/></a>`), 0o644))
	eng := New(WithFilesystem(fs), WithDiscoveryCache(8))

	names, err := eng.ElementNames("streaming", "/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	// Served from cache on repeat.
	names, err = eng.ElementNames("streaming", "/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	// Rewriting the file changes its modification signature, so the
	// next call must see the new vocabulary.
	require.NoError(t, util.WriteFile(fs, "/doc.xml", []byte(`<a><c/><d/></a>`), 0o644))
	names, err = eng.ElementNames("streaming", "/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, names)
}

// stubWalker reports a fixed vocabulary, standing in for a custom
// strategy whose discovery results differ from the built-ins.
type stubWalker struct{ names []string }

func (s stubWalker) Name() string { return "stub" }

func (s stubWalker) ElementNames(io.Reader) ([]string, error) { return s.names, nil }

func (s stubWalker) AttributeNames(io.Reader, string) ([]string, error) { return s.names, nil }

func (s stubWalker) AttributeValues(io.Reader, string, string) ([]string, error) {
	return s.names, nil
}

func (s stubWalker) Search(io.Reader, query.Query) ([]query.Match, error) { return nil, nil }

func TestDiscoveryCacheIsStrategyScoped(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/doc.xml", []byte(`<a><b/></a>`), 0o644))
	eng := New(
		WithFilesystem(fs),
		WithDiscoveryCache(8),
		WithWalker(stubWalker{names: []string{"stubbed"}}),
	)

	names, err := eng.ElementNames("streaming", "/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	// The custom walker must not be served the built-in's cached entry.
	names, err = eng.ElementNames("stub", "/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"stubbed"}, names)

	names, err = eng.ElementNames("streaming", "/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestStrategies(t *testing.T) {
	eng := newTestEngine(t, nil)
	assert.Equal(t, []string{"streaming", "tree", "xpath"}, eng.Strategies())
}
