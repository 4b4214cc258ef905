// Package indexer runs the full indexing pipeline for a project: file
// discovery, concurrent parsing into block documents, optional LLM
// summarization, and persistence to the key-value store. A run replaces
// the project's index wholesale; there is no incremental mode.
package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/parser"
	"github.com/ziadkadry99/blockdex/internal/project"
	"github.com/ziadkadry99/blockdex/internal/store"
	"github.com/ziadkadry99/blockdex/internal/summarize"
	"github.com/ziadkadry99/blockdex/internal/walker"
)

// DefaultConcurrency bounds parallel file processing when the caller
// does not choose a limit.
const DefaultConcurrency = 4

// Options controls a single indexing run.
type Options struct {
	WithSummaries bool
	Include       []string // glob patterns; empty means walker defaults
	Exclude       []string // extra exclusions on top of walker defaults
	Concurrency   int      // 0 means DefaultConcurrency
	MaxFileSize   int64    // 0 means walker default
	Progress      ProgressFunc
}

// Result reports what an indexing run did.
type Result struct {
	FilesFound    int
	FilesIndexed  int
	BlocksIndexed int
	SummaryCost   float64 // USD
	Errors        []error
	Duration      time.Duration
}

// Indexer coordinates indexing runs. Runs for different projects may
// proceed concurrently; runs for the same project are serialized.
type Indexer struct {
	store      store.Store
	registry   *parser.Registry
	projects   *project.Manager
	summarizer summarize.Summarizer

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-project run locks
}

// New creates an Indexer. The summarizer may be nil, in which case runs
// requesting summaries fail with summarize.ErrUnavailable before any
// file work starts.
func New(st store.Store, registry *parser.Registry, projects *project.Manager, summarizer summarize.Summarizer) *Indexer {
	return &Indexer{
		store:      st,
		registry:   registry,
		projects:   projects,
		summarizer: summarizer,
		locks:      make(map[string]*sync.Mutex),
	}
}

// IndexCurrent indexes the currently selected project.
func (ix *Indexer) IndexCurrent(ctx context.Context, opts Options) (*block.Project, *Result, error) {
	p, err := ix.projects.Current()
	if err != nil {
		return nil, nil, err
	}
	res, err := ix.IndexProject(ctx, p.ID, opts)
	if err != nil {
		return p, nil, err
	}
	return p, res, nil
}

// IndexProject discovers, parses and persists all indexable files under
// the project root. Individual file failures are collected in
// Result.Errors; only run-level failures (unknown project, missing
// summarizer, store writes) return an error.
func (ix *Indexer) IndexProject(ctx context.Context, projectID string, opts Options) (*Result, error) {
	p, err := ix.projects.Get(projectID)
	if err != nil {
		return nil, err
	}

	// Fail before touching any file, not after minutes of parsing.
	if opts.WithSummaries && ix.summarizer == nil {
		return nil, summarize.ErrUnavailable
	}

	lock := ix.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()

	files, err := walker.Collect(walker.Config{
		RootDir:     p.Path,
		Include:     opts.Include,
		Exclude:     opts.Exclude,
		MaxFileSize: opts.MaxFileSize,
	})
	if err != nil {
		return nil, fmt.Errorf("indexer: discover files: %w", err)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	var summarizer summarize.Summarizer
	if opts.WithSummaries {
		summarizer = ix.summarizer
	}

	batch := newBatcher(concurrency, ix.registry, summarizer, opts.Progress).processFiles(ctx, files)

	result := &Result{
		FilesFound:   len(files),
		FilesIndexed: len(batch.Docs),
		SummaryCost:  batch.Cost,
		Errors:       batch.Errors,
	}
	for _, doc := range batch.Docs {
		result.BlocksIndexed += len(doc.Blocks)
	}

	if err := ix.store.Set(store.BlockIndexKey(p.ID), batch.Docs); err != nil {
		return nil, fmt.Errorf("indexer: persist block index: %w", err)
	}

	hasSummaries := false
	if opts.WithSummaries && len(batch.Summaries) > 0 {
		overall, err := ix.summarizer.SummarizeProject(ctx, batch.Summaries)
		if err != nil {
			result.Errors = append(result.Errors, err)
		} else {
			result.SummaryCost += overall.Cost
			if err := ix.store.Set(store.OverallSummaryKey(p.ID), overall.Summary); err != nil {
				return nil, fmt.Errorf("indexer: persist project summary: %w", err)
			}
			hasSummaries = true
		}
	}

	p.Indexed = true
	p.LastIndexed = time.Now().UnixMilli()
	p.HasSummaries = hasSummaries
	if err := ix.projects.Update(*p); err != nil {
		return nil, fmt.Errorf("indexer: update project record: %w", err)
	}

	result.Duration = time.Since(started)
	return result, nil
}

func (ix *Indexer) projectLock(projectID string) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	lock, ok := ix.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		ix.locks[projectID] = lock
	}
	return lock
}
