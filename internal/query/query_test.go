package query

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid names", func(t *testing.T) {
		for _, name := range []string{"Product", "_private", "a-b.c", "Книга"} {
			q, err := New(name)
			require.NoError(t, err, name)
			assert.Equal(t, name, q.Element)
		}
	})

	t.Run("empty element name", func(t *testing.T) {
		_, err := New("")
		require.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"1abc", "with space", "a<b", "-lead", "ns:local"} {
			_, err := New(name)
			assert.ErrorIs(t, err, ErrInvalidQuery, name)
		}
	})
}

func TestWithReturnsCopies(t *testing.T) {
	base, err := New("Product")
	require.NoError(t, err)

	derived := base.WithAttribute("category").WithValue("food").WithText("cheese").WithFold()

	assert.Empty(t, base.Attribute)
	assert.Empty(t, base.Value)
	assert.Empty(t, base.Text)
	assert.False(t, base.Fold)

	assert.Equal(t, "category", derived.Attribute)
	assert.Equal(t, "food", derived.Value)
	assert.Equal(t, "cheese", derived.Text)
	assert.True(t, derived.Fold)
}

func TestMatchesAttrs(t *testing.T) {
	attrs := []Attr{{Name: "id", Value: "1"}, {Name: "category", Value: "electronics"}}

	t.Run("no filter matches anything", func(t *testing.T) {
		q, _ := New("Product")
		assert.True(t, q.MatchesAttrs(attrs))
		assert.True(t, q.MatchesAttrs(nil))
	})

	t.Run("attribute presence", func(t *testing.T) {
		q, _ := New("Product")
		assert.True(t, q.WithAttribute("category").MatchesAttrs(attrs))
		assert.False(t, q.WithAttribute("missing").MatchesAttrs(attrs))
	})

	t.Run("attribute value", func(t *testing.T) {
		q, _ := New("Product")
		q = q.WithAttribute("category")
		assert.True(t, q.WithValue("electronics").MatchesAttrs(attrs))
		assert.False(t, q.WithValue("food").MatchesAttrs(attrs))
	})

	t.Run("folded comparison", func(t *testing.T) {
		q, _ := New("Product")
		q = q.WithAttribute("CATEGORY").WithValue("Electronics").WithFold()
		assert.True(t, q.MatchesAttrs(attrs))
	})

	t.Run("folded scan continues past colliding names", func(t *testing.T) {
		// ID and id are distinct attributes that fold to the same name;
		// the first near-miss must not hide the real match.
		dup := []Attr{{Name: "ID", Value: "y"}, {Name: "id", Value: "x"}}
		q, _ := New("e")
		q = q.WithAttribute("id").WithValue("x").WithFold()
		assert.True(t, q.MatchesAttrs(dup))

		q = q.WithValue("z")
		assert.False(t, q.MatchesAttrs(dup))
	})
}

func TestMatchesText(t *testing.T) {
	q, _ := New("Product")

	assert.True(t, q.MatchesText(""), "no filter")
	assert.True(t, q.WithText("cheese").MatchesText("aged cheese wheel"))
	assert.False(t, q.WithText("Cheese").MatchesText("aged cheese wheel"), "case-sensitive by default")
	assert.True(t, q.WithText("Cheese").WithFold().MatchesText("aged cheese wheel"))
	assert.False(t, q.WithText("cheddar").MatchesText("aged cheese wheel"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeText("  a \n\t b   c  "))
	assert.Equal(t, "", NormalizeText("   \n  "))
	assert.Equal(t, "P001", NormalizeText("P001"))
}

func TestMatchAttrLookup(t *testing.T) {
	m := Match{
		Element: "Product",
		Attrs:   []Attr{{Name: "id", Value: "1"}, {Name: "category", Value: "food"}},
	}

	v, ok := m.Attr("category")
	require.True(t, ok)
	assert.Equal(t, "food", v)

	_, ok = m.Attr("missing")
	assert.False(t, ok)

	assert.Equal(t, `<Product id="1" category="food">`, m.String())
	assert.Equal(t, "<Empty>", Match{Element: "Empty"}.String())
}

func TestResultRendering(t *testing.T) {
	q, _ := New("Product")
	q = q.WithAttribute("category").WithValue("food")
	r := &Result{
		Strategy: "tree",
		Query:    q,
		Matches: []Match{
			{Element: "Product", Attrs: []Attr{{Name: "id", Value: "2"}}, Text: "P002", Path: "/Products[1]/Product[2]"},
		},
	}

	assert.Equal(t, 1, r.Count())

	summary := r.Summary()
	assert.Contains(t, summary, "Strategy: tree")
	assert.Contains(t, summary, "Attribute filter: category=food")
	assert.Contains(t, summary, "Results found: 1")

	detail := r.Detail()
	assert.Contains(t, detail, "/Products[1]/Product[2]")
	assert.Contains(t, detail, "@id: 2")
	assert.Contains(t, detail, "Text: P002")

	empty := &Result{Strategy: "tree", Query: q}
	assert.Contains(t, empty.Detail(), "No results found.")
}

func TestDetailTruncatesOnRuneBoundary(t *testing.T) {
	q, _ := New("book")
	long := strings.Repeat("ї", 150)
	r := &Result{
		Strategy: "tree",
		Query:    q,
		Matches:  []Match{{Element: "book", Text: long, Path: "/book[1]"}},
	}

	detail := r.Detail()
	require.True(t, utf8.ValidString(detail))
	assert.Contains(t, detail, strings.Repeat("ї", 100)+"...")
	assert.NotContains(t, detail, strings.Repeat("ї", 101))
}
