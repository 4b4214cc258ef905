package indexer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/parser"
	"github.com/ziadkadry99/blockdex/internal/summarize"
	"github.com/ziadkadry99/blockdex/internal/walker"
)

// ProgressFunc is called after each file completes, successfully or not.
type ProgressFunc func(done, total int, path string)

// batcher parses (and optionally summarizes) files concurrently with a
// configurable parallelism limit.
type batcher struct {
	concurrency int
	registry    *parser.Registry
	summarizer  summarize.Summarizer // nil when summaries are off
	onProgress  ProgressFunc
}

func newBatcher(concurrency int, registry *parser.Registry, summarizer summarize.Summarizer, onProgress ProgressFunc) *batcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &batcher{
		concurrency: concurrency,
		registry:    registry,
		summarizer:  summarizer,
		onProgress:  onProgress,
	}
}

// batchResult holds collected documents and errors from batch processing.
// Docs preserve the discovery order of the input files regardless of
// which worker finished first.
type batchResult struct {
	Docs      []block.IndexedDocument
	Summaries []summarize.FileSummary
	Cost      float64
	Errors    []error
}

// fileOutcome is one worker's result, slotted by input position so the
// merge is deterministic.
type fileOutcome struct {
	ok      bool
	doc     block.IndexedDocument
	summary string
	cost    float64
}

// processFiles parses a list of files concurrently. A failing file is
// recorded as an error and skipped; it never aborts the batch.
func (b *batcher) processFiles(ctx context.Context, files []walker.FileInfo) *batchResult {
	total := len(files)
	result := &batchResult{}
	if total == 0 {
		return result
	}

	// Circuit breaker: stop asking for summaries once the provider
	// reports an exhausted quota, but keep parsing.
	var quotaExhausted int64

	sem := make(chan struct{}, b.concurrency)
	var mu sync.Mutex
	var processed int64
	outcomes := make([]fileOutcome, total)

	var wg sync.WaitGroup
	for i, file := range files {
		select {
		case <-ctx.Done():
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Errorf("index %s: %w", file.RelPath, ctx.Err()))
			mu.Unlock()
			count := atomic.AddInt64(&processed, 1)
			if b.onProgress != nil {
				b.onProgress(int(count), total, file.RelPath)
			}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(pos int, f walker.FileInfo) {
			defer wg.Done()
			defer func() { <-sem }()

			data, err := os.ReadFile(f.Path)
			if err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Errorf("read %s: %w", f.RelPath, err))
				mu.Unlock()
				count := atomic.AddInt64(&processed, 1)
				if b.onProgress != nil {
					b.onProgress(int(count), total, f.RelPath)
				}
				return
			}
			content := string(data)

			doc := b.registry.Parse(f.RelPath, content, block.FileStats{
				Size:    f.Size,
				ModTime: f.ModTime,
			})

			out := fileOutcome{ok: true, doc: doc}
			if b.summarizer != nil && atomic.LoadInt64(&quotaExhausted) == 0 {
				res, err := b.summarizer.SummarizeFile(ctx, content, f.RelPath)
				if err != nil {
					mu.Lock()
					result.Errors = append(result.Errors, err)
					mu.Unlock()
					if isQuotaError(err) {
						atomic.StoreInt64(&quotaExhausted, 1)
					}
				} else {
					out.summary = res.Summary
					out.cost = res.Cost
				}
			}

			mu.Lock()
			outcomes[pos] = out
			mu.Unlock()

			count := atomic.AddInt64(&processed, 1)
			if b.onProgress != nil {
				b.onProgress(int(count), total, f.RelPath)
			}
		}(i, file)
	}

	wg.Wait()

	for _, out := range outcomes {
		if !out.ok {
			continue
		}
		doc := out.doc
		if out.summary != "" {
			// The registry may hand back a cached document whose block
			// slice is shared; copy before mutating the root block.
			doc.Blocks = append([]block.Block(nil), doc.Blocks...)
			if root := doc.Root(); root != nil {
				root.Summary = out.summary
			}
			result.Summaries = append(result.Summaries, summarize.FileSummary{
				Path:    doc.Path,
				Summary: out.summary,
			})
		}
		result.Docs = append(result.Docs, doc)
		result.Cost += out.cost
	}
	return result
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "insufficient_quota") || strings.Contains(msg, "quota")
}
