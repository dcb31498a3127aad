package walker

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentic-research/xmlgrep/internal/query"
)

// Streaming walks the document with a forward-only token decoder and an
// explicit stack of open-element frames. Memory is bounded by ancestor
// depth, not document size.
type Streaming struct{}

func (Streaming) Name() string { return "streaming" }

// frame records one currently-open element during the walk.
type frame struct {
	name  string
	attrs []query.Attr
	text  strings.Builder
	// childSeen counts child elements by name, giving each child its
	// 1-based position among same-named siblings.
	childSeen map[string]int
	path      string
	// seq is the element's start order, used to restore document order
	// for nested matches that close inner-first.
	seq int
}

func (Streaming) Search(r io.Reader, q query.Query) ([]query.Match, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	type seqMatch struct {
		seq int
		m   query.Match
	}

	dec := xml.NewDecoder(r)
	var stack []*frame
	var found []seqMatch
	seq := 0
	roots := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", query.ErrMalformedDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			var path string
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					return nil, fmt.Errorf("%w: multiple root elements", query.ErrMalformedDocument)
				}
				path = fmt.Sprintf("/%s[1]", name)
			} else {
				parent := stack[len(stack)-1]
				parent.childSeen[name]++
				path = fmt.Sprintf("%s/%s[%d]", parent.path, name, parent.childSeen[name])
			}
			attrs := make([]query.Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name.Space, a.Name.Local) {
					continue
				}
				attrs = append(attrs, query.Attr{Name: a.Name.Local, Value: a.Value})
			}
			seq++
			stack = append(stack, &frame{
				name:      name,
				attrs:     attrs,
				childSeen: make(map[string]int),
				path:      path,
				seq:       seq,
			})
		case xml.CharData:
			if len(stack) == 0 {
				// Only whitespace may appear in the prolog or epilog.
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("%w: text outside root element", query.ErrMalformedDocument)
				}
				continue
			}
			// Subtree text: every open ancestor sees this data, and
			// appending as it arrives keeps document order.
			for _, f := range stack {
				f.text.Write(t)
			}
		case xml.EndElement:
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !q.MatchesElement(f.name) || !q.MatchesAttrs(f.attrs) {
				continue
			}
			text := query.NormalizeText(f.text.String())
			if !q.MatchesText(text) {
				continue
			}
			found = append(found, seqMatch{seq: f.seq, m: query.Match{
				Element: f.name,
				Attrs:   f.attrs,
				Text:    text,
				Path:    f.path,
			}})
		}
	}
	if roots == 0 {
		return nil, fmt.Errorf("%w: no root element", query.ErrMalformedDocument)
	}

	// Siblings close in document order, but a nested match closes before
	// its enclosing match. Sorting on start order restores document order.
	sort.SliceStable(found, func(i, j int) bool { return found[i].seq < found[j].seq })
	matches := make([]query.Match, len(found))
	for i, fm := range found {
		matches[i] = fm.m
	}
	return matches, nil
}

func (Streaming) ElementNames(r io.Reader) ([]string, error) {
	set := make(map[string]struct{})
	if err := scanStarts(r, func(t xml.StartElement) {
		set[t.Name.Local] = struct{}{}
	}); err != nil {
		return nil, err
	}
	return setToSorted(set), nil
}

func (Streaming) AttributeNames(r io.Reader, element string) ([]string, error) {
	set := make(map[string]struct{})
	if err := scanStarts(r, func(t xml.StartElement) {
		if t.Name.Local != element {
			return
		}
		for _, a := range t.Attr {
			if !isNamespaceDecl(a.Name.Space, a.Name.Local) {
				set[a.Name.Local] = struct{}{}
			}
		}
	}); err != nil {
		return nil, err
	}
	return setToSorted(set), nil
}

func (Streaming) AttributeValues(r io.Reader, element, attribute string) ([]string, error) {
	set := make(map[string]struct{})
	if err := scanStarts(r, func(t xml.StartElement) {
		if t.Name.Local != element {
			return
		}
		for _, a := range t.Attr {
			if a.Name.Local == attribute && !isNamespaceDecl(a.Name.Space, a.Name.Local) {
				set[a.Value] = struct{}{}
			}
		}
	}); err != nil {
		return nil, err
	}
	return setToSorted(set), nil
}

// scanStarts drives one forward pass, visiting every start element.
// Any decoder error aborts the scan: vocabulary is never assembled from
// a broken document. Well-formedness checks match Search so malformed
// means the same thing for discovery and search alike.
func scanStarts(r io.Reader, visit func(xml.StartElement)) error {
	dec := xml.NewDecoder(r)
	depth := 0
	roots := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if roots == 0 {
				return fmt.Errorf("%w: no root element", query.ErrMalformedDocument)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", query.ErrMalformedDocument, err)
		}
		switch s := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("%w: multiple root elements", query.ErrMalformedDocument)
				}
			}
			depth++
			visit(s)
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(s)) > 0 {
				return fmt.Errorf("%w: text outside root element", query.ErrMalformedDocument)
			}
		}
	}
}
