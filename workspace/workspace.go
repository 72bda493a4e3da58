// Package workspace tracks the latest translated document per URI and runs
// batch translation. Publication is versioned by timestamp so concurrent
// translations of the same document cannot roll the workspace back to an
// older state.
package workspace

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/uvl-tools/uvlsem/ast"
	"github.com/uvl-tools/uvlsem/builder"
	"github.com/uvl-tools/uvlsem/diag"
	"github.com/uvl-tools/uvlsem/internal/config"
	"github.com/uvl-tools/uvlsem/modelstore"
	"github.com/uvl-tools/uvlsem/syntax"
)

// Input is one document to translate: a parse tree with the source text it
// was parsed from.
type Input struct {
	Tree      syntax.Tree
	Source    []byte
	URI       string
	Timestamp time.Time
}

// Workspace holds the latest published Document per URI. Safe for
// concurrent use.
type Workspace struct {
	mu        sync.RWMutex
	docs      map[string]*ast.Document
	logger    zerolog.Logger
	workers   int
	minWeight int
	storePath string
}

// New creates an empty workspace. workers bounds how many documents
// TranslateAll processes in parallel; values below one fall back to the CPU
// count.
func New(logger zerolog.Logger, workers int) *Workspace {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Workspace{
		docs:    make(map[string]*ast.Document),
		logger:  logger,
		workers: workers,
	}
}

// NewFromDir creates a workspace configured by the uvlsem.yml in dir:
// worker limit, store path and the minimum diagnostic weight surfaced by
// Diagnostics. A missing config file yields the defaults.
func NewFromDir(logger zerolog.Logger, dir string) (*Workspace, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	w := New(logger, cfg.Workers)
	w.minWeight = cfg.MinDiagnosticWeight
	w.storePath = cfg.StorePath
	return w, nil
}

// Diagnostics returns the published document's diagnostics at or above the
// configured minimum weight.
func (w *Workspace) Diagnostics(uri string) ([]diag.Diagnostic, bool) {
	doc, ok := w.Document(uri)
	if !ok {
		return nil, false
	}
	return diag.Filter(doc.Diagnostics(), w.minWeight), true
}

// OpenStore opens the symbol-graph store selected by the configured store
// path. The caller owns the store and closes it.
func (w *Workspace) OpenStore() (modelstore.Store, error) {
	return modelstore.Open(w.storePath)
}

// Publish installs doc as the latest version of its URI. A document older
// than the published one is rejected and the workspace keeps the newer
// version.
func (w *Workspace) Publish(doc *ast.Document) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.docs[doc.URI()]; ok && doc.Timestamp().Before(old.Timestamp()) {
		w.logger.Warn().
			Str("uri", doc.URI()).
			Time("published", old.Timestamp()).
			Time("rejected", doc.Timestamp()).
			Msg("stale document rejected")
		return false
	}
	w.docs[doc.URI()] = doc
	w.logger.Debug().
		Str("uri", doc.URI()).
		Int("diagnostics", len(doc.Diagnostics())).
		Msg("document published")
	return true
}

// Document returns the latest published document for uri.
func (w *Workspace) Document(uri string) (*ast.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.docs[uri]
	return doc, ok
}

// Documents returns the latest published documents, in no particular order.
func (w *Workspace) Documents() []*ast.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*ast.Document, 0, len(w.docs))
	for _, doc := range w.docs {
		out = append(out, doc)
	}
	return out
}

// Len returns the number of tracked URIs.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.docs)
}

// TranslateAll translates every input concurrently and publishes the
// results. The first context cancellation stops the batch; translation
// itself cannot fail, so the returned error is only ever the context's.
func (w *Workspace) TranslateAll(ctx context.Context, inputs []Input) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for _, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			doc := builder.Translate(in.Tree, in.Source, in.URI, in.Timestamp)
			w.Publish(doc)
			w.logger.Info().
				Str("uri", in.URI).
				Dur("took", time.Since(start)).
				Int("diagnostics", len(doc.Diagnostics())).
				Msg("translated")
			return nil
		})
	}
	return g.Wait()
}
