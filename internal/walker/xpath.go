package walker

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/agentic-research/xmlgrep/internal/query"
)

// XPath selects candidate nodes with a declarative path expression and
// narrows them with the same predicates as the other strategies. It must
// produce identical matches and ordering for any query.
type XPath struct{}

func (XPath) Name() string { return "xpath" }

func (XPath) Search(r io.Reader, q query.Query) ([]query.Match, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	doc, err := parseXPathDoc(r)
	if err != nil {
		return nil, err
	}

	// XPath name tests are case-sensitive, so folded queries select
	// every element and let the predicate decide.
	expr := "//" + q.Element
	if q.Fold {
		expr = "//*"
	}
	nodes, err := xmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrInvalidQuery, err)
	}

	matches := []query.Match{}
	for _, n := range nodes {
		if n.Type != xmlquery.ElementNode || !q.MatchesElement(n.Data) {
			continue
		}
		attrs := nodeAttrs(n)
		if !q.MatchesAttrs(attrs) {
			continue
		}
		text := query.NormalizeText(n.InnerText())
		if !q.MatchesText(text) {
			continue
		}
		matches = append(matches, query.Match{
			Element: n.Data,
			Attrs:   attrs,
			Text:    text,
			Path:    nodePath(n),
		})
	}
	return matches, nil
}

func (XPath) ElementNames(r io.Reader) ([]string, error) {
	doc, err := parseXPathDoc(r)
	if err != nil {
		return nil, err
	}
	nodes, err := xmlquery.QueryAll(doc, "//*")
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, n := range nodes {
		if n.Type == xmlquery.ElementNode {
			set[n.Data] = struct{}{}
		}
	}
	return setToSorted(set), nil
}

func (XPath) AttributeNames(r io.Reader, element string) ([]string, error) {
	doc, err := parseXPathDoc(r)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, n := range selectElements(doc, element) {
		for _, a := range n.Attr {
			if !isNamespaceDecl(a.Name.Space, a.Name.Local) {
				set[a.Name.Local] = struct{}{}
			}
		}
	}
	return setToSorted(set), nil
}

func (XPath) AttributeValues(r io.Reader, element, attribute string) ([]string, error) {
	doc, err := parseXPathDoc(r)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, n := range selectElements(doc, element) {
		for _, a := range n.Attr {
			if a.Name.Local == attribute && !isNamespaceDecl(a.Name.Space, a.Name.Local) {
				set[a.Value] = struct{}{}
			}
		}
	}
	return setToSorted(set), nil
}

func parseXPathDoc(r io.Reader) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrMalformedDocument, err)
	}
	roots := 0
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			roots++
		case xmlquery.TextNode, xmlquery.CharDataNode:
			// Text siblings of the root are tolerated by the parser but
			// are not well-formed XML.
			if strings.TrimSpace(c.Data) != "" {
				return nil, fmt.Errorf("%w: text outside root element", query.ErrMalformedDocument)
			}
		}
	}
	if roots == 0 {
		return nil, fmt.Errorf("%w: no root element", query.ErrMalformedDocument)
	}
	if roots > 1 {
		return nil, fmt.Errorf("%w: multiple root elements", query.ErrMalformedDocument)
	}
	return doc, nil
}

// selectElements finds every instance of the named element. A name that
// cannot occur in well-formed XML selects nothing: discovery treats
// "not found" as an empty set, never an error.
func selectElements(doc *xmlquery.Node, element string) []*xmlquery.Node {
	if !query.ValidName(element) {
		return nil
	}
	nodes, err := xmlquery.QueryAll(doc, "//"+element)
	if err != nil {
		return nil
	}
	return nodes
}

func nodeAttrs(n *xmlquery.Node) []query.Attr {
	attrs := make([]query.Attr, 0, len(n.Attr))
	for _, a := range n.Attr {
		if isNamespaceDecl(a.Name.Space, a.Name.Local) {
			continue
		}
		attrs = append(attrs, query.Attr{Name: a.Name.Local, Value: a.Value})
	}
	return attrs
}

// nodePath builds the positional path by walking the parent chain and
// counting preceding same-named element siblings.
func nodePath(n *xmlquery.Node) string {
	if n == nil || n.Type != xmlquery.ElementNode {
		return ""
	}
	idx := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == xmlquery.ElementNode && sib.Data == n.Data {
			idx++
		}
	}
	parent := ""
	if n.Parent != nil && n.Parent.Type == xmlquery.ElementNode {
		parent = nodePath(n.Parent)
	}
	return fmt.Sprintf("%s/%s[%d]", parent, n.Data, idx)
}
