package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// parseCacheSize bounds the number of parse results kept in memory.
// One entry per distinct path+content pair seen during a run.
const parseCacheSize = 1024

// Registry dispatches files to the first registered parser whose
// CanParse accepts them. Parser selection is memoized by file extension
// and parse results are memoized by content hash, so re-indexing
// unchanged files is free and byte-identical (idempotence contract).
type Registry struct {
	mu      sync.Mutex
	parsers []Parser
	byExt   map[string]Parser // extension -> selected parser; pure optimization
	results *lru.Cache[string, block.IndexedDocument]
}

// NewRegistry creates a Registry with the default parser set, in
// precedence order: Markdown, code, stylesheet, YAML.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.Register(NewMarkdownParser())
	r.Register(NewCodeParser())
	r.Register(NewStylesheetParser())
	r.Register(NewYAMLParser())
	return r
}

// NewEmptyRegistry creates a Registry with no parsers registered.
// Unmatched files fall back to a single-root document.
func NewEmptyRegistry() *Registry {
	cache, _ := lru.New[string, block.IndexedDocument](parseCacheSize)
	return &Registry{
		byExt:   make(map[string]Parser),
		results: cache,
	}
}

// Register appends a parser at the lowest precedence and invalidates
// the extension cache, since the new parser may now win extensions that
// previously resolved to no parser.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, p)
	r.byExt = make(map[string]Parser)
}

// FindParser returns the first registered parser that accepts the file,
// or nil if none does.
func (r *Registry) FindParser(path, content string) Parser {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.Lock()
	if p, ok := r.byExt[ext]; ok {
		r.mu.Unlock()
		return p
	}
	parsers := r.parsers
	r.mu.Unlock()

	for _, p := range parsers {
		if p.CanParse(path, content) {
			if ext != "" {
				r.mu.Lock()
				r.byExt[ext] = p
				r.mu.Unlock()
			}
			return p
		}
	}
	return nil
}

// Parse runs the matched parser over the file, caching the result by
// path and content hash. Cache hits return the prior document
// unchanged. A file with no matching parser, or whose parser panics,
// yields the generic fallback document, which is cached the same way.
func (r *Registry) Parse(path, content string, stats block.FileStats) block.IndexedDocument {
	key := path + ":" + hashContent(content)
	if doc, ok := r.results.Get(key); ok {
		return doc
	}

	doc := r.parse(path, content, stats)
	r.results.Add(key, doc)
	return doc
}

func (r *Registry) parse(path, content string, stats block.FileStats) (doc block.IndexedDocument) {
	p := r.FindParser(path, content)
	if p == nil {
		return FallbackDocument(path, content, DetectLanguage(path), stats)
	}

	// Parsers are fail-soft by contract, but a buggy parser must not
	// take down the whole indexing run either.
	defer func() {
		if recover() != nil {
			doc = FallbackDocument(path, content, DetectLanguage(path), stats)
		}
	}()

	return p.Parse(path, content, stats)
}

// hashContent returns the SHA-256 hex digest of content.
func hashContent(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
