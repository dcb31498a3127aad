// Package transform applies an XSLT stylesheet to an XML document and
// renders the result, typically HTML. It is a one-shot, stateless
// collaborator: the query engine has no dependency on it.
package transform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wamuir/go-xslt"

	"github.com/agentic-research/xmlgrep/internal/query"
)

// Apply transforms the XML document at xmlPath with the stylesheet at
// xslPath and returns the rendered bytes.
func Apply(xmlPath, xslPath string) ([]byte, error) {
	xmlData, err := os.ReadFile(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrDocumentUnreadable, err)
	}
	xslData, err := os.ReadFile(xslPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrDocumentUnreadable, err)
	}

	style, err := xslt.NewStylesheet(xslData)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	defer style.Close()

	out, err := style.Transform(xmlData)
	if err != nil {
		return nil, fmt.Errorf("apply stylesheet: %w", err)
	}
	return out, nil
}

// ApplyToFile transforms and writes the result to outPath, creating
// parent directories as needed.
func ApplyToFile(xmlPath, xslPath, outPath string) error {
	out, err := Apply(xmlPath, xslPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
