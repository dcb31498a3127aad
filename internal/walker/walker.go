// Package walker holds the traversal strategies. Each Walker satisfies
// both the vocabulary discovery contract and the search contract over a
// single forward read of the document, and all strategies must produce
// identical matches in document order for any given query.
package walker

import (
	"io"
	"sort"

	"github.com/agentic-research/xmlgrep/internal/query"
)

// Walker abstracts over the streaming, tree and path-query traversals.
// Implementations are stateless values; every call opens with a fresh
// reader and leaves nothing behind.
type Walker interface {
	// Name identifies the strategy (e.g. "streaming").
	Name() string

	// ElementNames lists every distinct element local name in the
	// document, sorted.
	ElementNames(r io.Reader) ([]string, error)

	// AttributeNames lists the union of attribute names over every
	// instance of the named element. An element the document never uses
	// yields an empty slice, not an error.
	AttributeNames(r io.Reader, element string) ([]string, error)

	// AttributeValues lists the union of values the named attribute
	// takes across instances of the named element. Instances lacking
	// the attribute are skipped.
	AttributeValues(r io.Reader, element, attribute string) ([]string, error)

	// Search evaluates the query and returns matches in document order.
	Search(r io.Reader, q query.Query) ([]query.Match, error)
}

// All returns one instance of every built-in strategy.
func All() []Walker {
	return []Walker{Streaming{}, Tree{}, XPath{}}
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// xmlns declarations are namespace plumbing, not data. They are dropped
// from every strategy's attribute view so parsers that retain them stay
// consistent with parsers that do not.
func isNamespaceDecl(space, local string) bool {
	return space == "xmlns" || (space == "" && local == "xmlns")
}
