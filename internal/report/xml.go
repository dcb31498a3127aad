// Package report renders a search result as a shareable XML document,
// so results can be archived or fed back through the engine like any
// other document.
package report

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/agentic-research/xmlgrep/internal/query"
)

// XML renders the result as an indented searchResults document: query
// metadata first, then one element entry per match in document order.
func XML(res *query.Result) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("searchResults")

	meta := root.CreateElement("metadata")
	meta.CreateElement("strategy").SetText(res.Strategy)
	meta.CreateElement("elementName").SetText(res.Query.Element)
	if res.Query.Attribute != "" {
		filter := meta.CreateElement("attributeFilter")
		filter.CreateElement("name").SetText(res.Query.Attribute)
		if res.Query.Value != "" {
			filter.CreateElement("value").SetText(res.Query.Value)
		}
	}
	if res.Query.Text != "" {
		meta.CreateElement("textFilter").SetText(res.Query.Text)
	}
	meta.CreateElement("resultsCount").SetText(strconv.Itoa(res.Count()))
	meta.CreateElement("executionTime").SetText(
		fmt.Sprintf("%.2f", float64(res.Elapsed.Microseconds())/1000))

	results := root.CreateElement("results")
	for _, m := range res.Matches {
		el := results.CreateElement("element")
		el.CreateElement("tag").SetText(m.Element)
		el.CreateElement("path").SetText(m.Path)
		if len(m.Attrs) > 0 {
			attrs := el.CreateElement("attributes")
			for _, a := range m.Attrs {
				attr := attrs.CreateElement("attribute")
				attr.CreateAttr("name", a.Name)
				attr.CreateAttr("value", a.Value)
			}
		}
		if m.Text != "" {
			el.CreateElement("text").SetText(m.Text)
		}
	}

	doc.Indent(2)
	return doc.WriteToString()
}
