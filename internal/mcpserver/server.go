// Package mcpserver exposes the query engine's four operations as MCP
// tools, so agents can interrogate XML documents over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/xmlgrep/internal/engine"
	"github.com/agentic-research/xmlgrep/internal/query"
)

type srv struct {
	eng             *engine.Engine
	defaultStrategy string
}

// New builds an MCP server wrapping the engine. defaultStrategy is used
// when a tool call does not name one.
func New(eng *engine.Engine, defaultStrategy string) *server.MCPServer {
	h := &srv{eng: eng, defaultStrategy: defaultStrategy}

	s := server.NewMCPServer("xmlgrep", "0.1.0", server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List every element name occurring in an XML document"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the XML document")),
		mcp.WithString("strategy", mcp.Description("Traversal strategy: streaming, tree or xpath")),
	), h.listElements)

	s.AddTool(mcp.NewTool("list_attributes",
		mcp.WithDescription("List attribute names used by one element in an XML document"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the XML document")),
		mcp.WithString("element", mcp.Required(), mcp.Description("Element name to inspect")),
		mcp.WithString("strategy", mcp.Description("Traversal strategy: streaming, tree or xpath")),
	), h.listAttributes)

	s.AddTool(mcp.NewTool("list_attribute_values",
		mcp.WithDescription("List the values one attribute takes on one element"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the XML document")),
		mcp.WithString("element", mcp.Required(), mcp.Description("Element name to inspect")),
		mcp.WithString("attribute", mcp.Required(), mcp.Description("Attribute name to inspect")),
		mcp.WithString("strategy", mcp.Description("Traversal strategy: streaming, tree or xpath")),
	), h.listValues)

	s.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Search an XML document for elements matching a name plus optional attribute and text filters"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to the XML document")),
		mcp.WithString("element", mcp.Required(), mcp.Description("Element name to match")),
		mcp.WithString("attribute", mcp.Description("Require this attribute to be present")),
		mcp.WithString("value", mcp.Description("Require the attribute to hold exactly this value")),
		mcp.WithString("contains", mcp.Description("Require subtree text to contain this substring")),
		mcp.WithString("strategy", mcp.Description("Traversal strategy: streaming, tree or xpath")),
	), h.search)

	return s
}

// Serve runs the server over stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (h *srv) listElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := h.file(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names, err := h.eng.ElementNames(h.strategy(req), file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(oj.JSON(names)), nil
}

func (h *srv) listAttributes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := h.file(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	element, err := req.RequireString("element")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names, err := h.eng.AttributeNames(h.strategy(req), file, element)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(oj.JSON(names)), nil
}

func (h *srv) listValues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := h.file(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	element, err := req.RequireString("element")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attribute, err := req.RequireString("attribute")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	values, err := h.eng.AttributeValues(h.strategy(req), file, element, attribute)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(oj.JSON(values)), nil
}

func (h *srv) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := h.file(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	element, err := req.RequireString("element")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q, err := query.New(element)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if attr := req.GetString("attribute", ""); attr != "" {
		q = q.WithAttribute(attr)
	}
	if value := req.GetString("value", ""); value != "" {
		q = q.WithValue(value)
	}
	if contains := req.GetString("contains", ""); contains != "" {
		q = q.WithText(contains)
	}

	res, err := h.eng.Search(h.strategy(req), file, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(oj.JSON(res, 2)), nil
}

func (h *srv) strategy(req mcp.CallToolRequest) string {
	return req.GetString("strategy", h.defaultStrategy)
}

func (h *srv) file(req mcp.CallToolRequest) (string, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return abs, nil
}
