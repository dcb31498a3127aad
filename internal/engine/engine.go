// Package engine is the facade over the traversal strategies. It owns
// strategy selection, document access and search timing; everything
// else is delegated unchanged to the chosen walker.
package engine

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/agentic-research/xmlgrep/internal/query"
	"github.com/agentic-research/xmlgrep/internal/walker"
)

// Engine dispatches discovery and search calls to registered walkers.
// Walkers are stateless, and each call opens its own private view of the
// document, so an Engine is safe for concurrent use.
type Engine struct {
	fs      billy.Filesystem
	walkers map[string]walker.Walker
	cache   *discoveryCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithFilesystem overrides the filesystem documents are read from.
// Paths passed to the engine are resolved against this filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithWalker registers an additional strategy (or replaces a built-in
// one of the same name).
func WithWalker(w walker.Walker) Option {
	return func(e *Engine) { e.walkers[w.Name()] = w }
}

// WithDiscoveryCache enables an LRU cache for discovery results, keyed
// by the document's path and modification signature plus the discovery
// arguments. Entries are invalidated whenever the file's size or mtime
// changes. Searches are never cached.
func WithDiscoveryCache(size int) Option {
	return func(e *Engine) { e.cache = newDiscoveryCache(size) }
}

// New builds an Engine with the three built-in strategies registered and
// documents read from the host filesystem.
func New(opts ...Option) *Engine {
	e := &Engine{
		fs:      osfs.New("/"),
		walkers: make(map[string]walker.Walker),
	}
	for _, w := range walker.All() {
		e.walkers[w.Name()] = w
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategies lists the registered strategy identifiers, sorted.
func (e *Engine) Strategies() []string {
	out := make([]string, 0, len(e.walkers))
	for name := range e.walkers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Search runs the query through the named strategy and wraps the matches
// with elapsed time and strategy metadata. Strategy errors propagate
// unchanged: parse failures are not transient and are never retried.
func (e *Engine) Search(strategy, path string, q query.Query) (*query.Result, error) {
	w, err := e.walker(strategy)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	f, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	matches, err := w.Search(f, q)
	if err != nil {
		return nil, err
	}
	return &query.Result{
		Strategy: w.Name(),
		Query:    q,
		Elapsed:  time.Since(start),
		Matches:  matches,
	}, nil
}

// ElementNames lists every distinct element name in the document.
func (e *Engine) ElementNames(strategy, path string) ([]string, error) {
	return e.discover(strategy, path, opElements, "", "",
		func(w walker.Walker, r io.Reader) ([]string, error) {
			return w.ElementNames(r)
		})
}

// AttributeNames lists attribute names across instances of one element.
func (e *Engine) AttributeNames(strategy, path, element string) ([]string, error) {
	return e.discover(strategy, path, opAttributes, element, "",
		func(w walker.Walker, r io.Reader) ([]string, error) {
			return w.AttributeNames(r, element)
		})
}

// AttributeValues lists the values one attribute takes across instances
// of one element.
func (e *Engine) AttributeValues(strategy, path, element, attribute string) ([]string, error) {
	return e.discover(strategy, path, opValues, element, attribute,
		func(w walker.Walker, r io.Reader) ([]string, error) {
			return w.AttributeValues(r, element, attribute)
		})
}

func (e *Engine) discover(strategy, path string, op discoveryOp, element, attribute string,
	fn func(walker.Walker, io.Reader) ([]string, error),
) ([]string, error) {
	w, err := e.walker(strategy)
	if err != nil {
		return nil, err
	}

	var key discoveryKey
	if e.cache != nil {
		key, err = e.cacheKey(w.Name(), path, op, element, attribute)
		if err == nil {
			if cached, ok := e.cache.get(key); ok {
				return cached, nil
			}
		}
		// A failed stat falls through to open, which reports the real error.
	}

	f, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := fn(w, f)
	if err != nil {
		return nil, err
	}
	if e.cache != nil && key != (discoveryKey{}) {
		e.cache.put(key, out)
	}
	return out, nil
}

func (e *Engine) walker(strategy string) (walker.Walker, error) {
	w, ok := e.walkers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", query.ErrUnsupportedStrategy, strategy)
	}
	return w, nil
}

func (e *Engine) open(path string) (billy.File, error) {
	f, err := e.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrDocumentUnreadable, err)
	}
	return f, nil
}

func (e *Engine) cacheKey(walkerName, path string, op discoveryOp, element, attribute string) (discoveryKey, error) {
	info, err := e.fs.Stat(path)
	if err != nil {
		return discoveryKey{}, err
	}
	return discoveryKey{
		walker:    walkerName,
		path:      path,
		op:        op,
		element:   element,
		attribute: attribute,
		modTime:   info.ModTime().UnixNano(),
		size:      info.Size(),
	}, nil
}
