// Package query defines the value types shared by every traversal
// strategy: the search request, a matched element, and the packaged
// result set. All values are created fresh per call and are read-only
// after construction.
package query

import (
	"fmt"
	"strings"
	"unicode"
)

// Query describes one search request. The zero value is invalid; build
// queries through New and the With* methods, which return copies.
type Query struct {
	// Element is the required element local name to match.
	Element string `json:"element"`
	// Attribute, when non-empty, requires matched elements to carry an
	// attribute of that name.
	Attribute string `json:"attribute,omitempty"`
	// Value, meaningful only with Attribute, requires the attribute to
	// hold exactly this value. Empty means any value.
	Value string `json:"value,omitempty"`
	// Text, when non-empty, requires the element's normalized subtree
	// text to contain it as a substring. An empty substring is contained
	// in every string, so an empty Text matches every element.
	Text string `json:"text,omitempty"`
	// Fold enables case-insensitive comparison for element names,
	// attribute names/values and text. Off by default.
	Fold bool `json:"fold,omitempty"`
}

// New builds a query for the given element name.
func New(element string) (Query, error) {
	q := Query{Element: element}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// WithAttribute returns a copy filtering on the presence of an attribute.
func (q Query) WithAttribute(name string) Query {
	q.Attribute = name
	return q
}

// WithValue returns a copy that also requires the attribute's value.
func (q Query) WithValue(value string) Query {
	q.Value = value
	return q
}

// WithText returns a copy filtering on subtree text containing s.
func (q Query) WithText(s string) Query {
	q.Text = s
	return q
}

// WithFold returns a copy that matches case-insensitively.
func (q Query) WithFold() Query {
	q.Fold = true
	return q
}

// Validate checks the query before any document I/O. Attribute and text
// filters are deliberately not validated here: an attribute the document
// never uses is an empty-result case, not an error.
func (q Query) Validate() error {
	if q.Element == "" {
		return fmt.Errorf("%w: element name is empty", ErrInvalidQuery)
	}
	if !ValidName(q.Element) {
		return fmt.Errorf("%w: %q is not a valid XML name", ErrInvalidQuery, q.Element)
	}
	return nil
}

// MatchesElement reports whether an element name satisfies the query.
func (q Query) MatchesElement(name string) bool {
	return q.equal(q.Element, name)
}

// MatchesAttrs reports whether an element's attributes satisfy the
// attribute filter. With no filter set every element passes.
func (q Query) MatchesAttrs(attrs []Attr) bool {
	if q.Attribute == "" {
		return true
	}
	for _, a := range attrs {
		if !q.equal(q.Attribute, a.Name) {
			continue
		}
		if q.Value == "" || q.equal(q.Value, a.Value) {
			return true
		}
		// With Fold set, distinct attribute names can collide on the
		// name test; keep scanning for one whose value also matches.
	}
	return false
}

// MatchesText reports whether normalized subtree text satisfies the
// text filter.
func (q Query) MatchesText(text string) bool {
	if q.Text == "" {
		return true
	}
	if q.Fold {
		return strings.Contains(strings.ToLower(text), strings.ToLower(q.Text))
	}
	return strings.Contains(text, q.Text)
}

func (q Query) equal(a, b string) bool {
	if q.Fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// ValidName reports whether s is a syntactically valid XML local name.
func ValidName(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return false
		}
	}
	return s != ""
}

// NormalizeText trims leading and trailing whitespace and collapses
// internal whitespace runs to single spaces. Every strategy normalizes
// through this function so that whitespace-only text nodes cannot cause
// results to differ between traversal models.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
