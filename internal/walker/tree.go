package walker

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/agentic-research/xmlgrep/internal/query"
)

// Tree materializes the whole document into an etree tree once per call
// and runs a pre-order walk over it. It trades memory for random access
// and is the natural shape when one parse would serve several queries,
// though the contract re-parses per call.
type Tree struct{}

func (Tree) Name() string { return "tree" }

func (Tree) Search(r io.Reader, q query.Query) ([]query.Match, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}

	matches := []query.Match{}
	var walk func(e *etree.Element, path string)
	walk = func(e *etree.Element, path string) {
		if q.MatchesElement(e.Tag) {
			attrs := elementAttrs(e)
			if q.MatchesAttrs(attrs) {
				text := query.NormalizeText(subtreeText(e))
				if q.MatchesText(text) {
					matches = append(matches, query.Match{
						Element: e.Tag,
						Attrs:   attrs,
						Text:    text,
						Path:    path,
					})
				}
			}
		}
		seen := make(map[string]int)
		for _, c := range e.ChildElements() {
			seen[c.Tag]++
			walk(c, fmt.Sprintf("%s/%s[%d]", path, c.Tag, seen[c.Tag]))
		}
	}
	walk(root, fmt.Sprintf("/%s[1]", root.Tag))
	return matches, nil
}

func (Tree) ElementNames(r io.Reader) ([]string, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	walkElements(root, func(e *etree.Element) {
		set[e.Tag] = struct{}{}
	})
	return setToSorted(set), nil
}

func (Tree) AttributeNames(r io.Reader, element string) ([]string, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	walkElements(root, func(e *etree.Element) {
		if e.Tag != element {
			return
		}
		for _, a := range e.Attr {
			if !isNamespaceDecl(a.Space, a.Key) {
				set[a.Key] = struct{}{}
			}
		}
	})
	return setToSorted(set), nil
}

func (Tree) AttributeValues(r io.Reader, element, attribute string) ([]string, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	walkElements(root, func(e *etree.Element) {
		if e.Tag != element {
			return
		}
		for _, a := range e.Attr {
			if a.Key == attribute && !isNamespaceDecl(a.Space, a.Key) {
				set[a.Value] = struct{}{}
			}
		}
	})
	return setToSorted(set), nil
}

func parseTree(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrMalformedDocument, err)
	}
	// The decoder tolerates character data before or after the root;
	// XML 1.0 allows only whitespace there.
	for _, child := range doc.Child {
		if cd, ok := child.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return nil, fmt.Errorf("%w: text outside root element", query.ErrMalformedDocument)
		}
	}
	roots := doc.ChildElements()
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no root element", query.ErrMalformedDocument)
	}
	if len(roots) > 1 {
		return nil, fmt.Errorf("%w: multiple root elements", query.ErrMalformedDocument)
	}
	return roots[0], nil
}

func walkElements(e *etree.Element, visit func(*etree.Element)) {
	visit(e)
	for _, c := range e.ChildElements() {
		walkElements(c, visit)
	}
}

func elementAttrs(e *etree.Element) []query.Attr {
	attrs := make([]query.Attr, 0, len(e.Attr))
	for _, a := range e.Attr {
		if isNamespaceDecl(a.Space, a.Key) {
			continue
		}
		attrs = append(attrs, query.Attr{Name: a.Key, Value: a.Value})
	}
	return attrs
}

// subtreeText concatenates every character-data token in the subtree,
// covering nested markup inside the target element.
func subtreeText(e *etree.Element) string {
	var b strings.Builder
	var gather func(*etree.Element)
	gather = func(el *etree.Element) {
		for _, child := range el.Child {
			switch c := child.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				gather(c)
			}
		}
	}
	gather(e)
	return b.String()
}
