package query

import (
	"fmt"
	"strings"
	"time"
)

// Attr is one attribute of a matched element. Matches carry attributes
// as an ordered slice so document order survives into the result.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Match is one result row: the element's name, its attributes in
// document order, its whitespace-normalized subtree text, and a
// positional path such as /Products[1]/Product[2]. The 1-based index
// counts same-named siblings, so elements with identical names and
// attributes at different positions stay distinct.
type Match struct {
	Element string `json:"element"`
	Attrs   []Attr `json:"attrs,omitempty"`
	Text    string `json:"text,omitempty"`
	Path    string `json:"path"`
}

// Attr returns the value of the named attribute, if present.
func (m Match) Attr(name string) (string, bool) {
	for _, a := range m.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (m Match) String() string {
	if len(m.Attrs) == 0 {
		return fmt.Sprintf("<%s>", m.Element)
	}
	parts := make([]string, 0, len(m.Attrs))
	for _, a := range m.Attrs {
		parts = append(parts, fmt.Sprintf("%s=%q", a.Name, a.Value))
	}
	return fmt.Sprintf("<%s %s>", m.Element, strings.Join(parts, " "))
}

// Result packages one search call: which strategy ran, the originating
// query, elapsed wall-clock time, and the matches in document order.
// Ordering is document order regardless of strategy.
type Result struct {
	Strategy string        `json:"strategy"`
	Query    Query         `json:"query"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Matches  []Match       `json:"matches"`
}

// Count returns the number of matched elements.
func (r *Result) Count() int { return len(r.Matches) }

// Summary renders a short text report of the search.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Strategy: %s\n", r.Strategy)
	fmt.Fprintf(&b, "Query: %s\n", r.Query.Element)
	if r.Query.Attribute != "" {
		fmt.Fprintf(&b, "Attribute filter: %s=%s\n", r.Query.Attribute, r.Query.Value)
	}
	if r.Query.Text != "" {
		fmt.Fprintf(&b, "Text filter: contains %q\n", r.Query.Text)
	}
	fmt.Fprintf(&b, "Results found: %d\n", r.Count())
	fmt.Fprintf(&b, "Execution time: %.2fms", float64(r.Elapsed.Microseconds())/1000)
	return b.String()
}

// Detail renders the summary followed by every match.
func (r *Result) Detail() string {
	var b strings.Builder
	b.WriteString(r.Summary())
	if r.Count() == 0 {
		b.WriteString("\nNo results found.")
		return b.String()
	}
	b.WriteString("\nResults:")
	for i, m := range r.Matches {
		fmt.Fprintf(&b, "\n\n%d. %s\n   Path: %s", i+1, m, m.Path)
		for _, a := range m.Attrs {
			fmt.Fprintf(&b, "\n   @%s: %s", a.Name, a.Value)
		}
		if m.Text != "" {
			text := m.Text
			if runes := []rune(text); len(runes) > 100 {
				text = string(runes[:100]) + "..."
			}
			fmt.Fprintf(&b, "\n   Text: %s", text)
		}
	}
	return b.String()
}
