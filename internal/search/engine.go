// Package search answers free-text queries against a project's
// persisted block index. Scoring is a term-overlap heuristic with
// structural boosts; matched blocks are expanded with their ancestors
// and immediate children so results carry enough context to read.
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/project"
	"github.com/ziadkadry99/blockdex/internal/store"
)

// ErrProjectNotIndexed is returned when the current project has no
// persisted block index. Callers are expected to run indexing first.
var ErrProjectNotIndexed = errors.New("search: project is not indexed (run `blockdex index` first)")

// maxResults caps the number of documents returned per query.
const maxResults = 5

// maxBlocksPerDoc caps the scored blocks selected per document before
// context expansion.
const maxBlocksPerDoc = 5

// Response is the outcome of one query.
type Response struct {
	Query   string               `json:"query"`
	Label   string               `json:"label"` // how the query was interpreted, for display
	Project string               `json:"project"`
	Results []block.SearchResult `json:"results"`
}

// Engine evaluates queries against the store. It is read-only and safe
// for concurrent use.
type Engine struct {
	store    store.Store
	projects *project.Manager
}

func NewEngine(st store.Store, projects *project.Manager) *Engine {
	return &Engine{store: st, projects: projects}
}

// SearchBlocks scores every block of the current project's index
// against the query and returns the top documents with their matched,
// context-expanded blocks.
func (e *Engine) SearchBlocks(query string) (*Response, error) {
	p, err := e.projects.Current()
	if err != nil {
		return nil, err
	}
	return e.SearchProject(p, query)
}

// SearchProject is SearchBlocks against an explicit project.
func (e *Engine) SearchProject(p *block.Project, query string) (*Response, error) {
	var docs []block.IndexedDocument
	if err := e.store.Get(store.BlockIndexKey(p.ID), &docs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotIndexed
		}
		return nil, fmt.Errorf("search: load block index: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrProjectNotIndexed
	}

	terms := tokenize(query)
	summarySeeking := isSummarySeeking(query)

	var results []block.SearchResult
	for i := range docs {
		if r := searchDocument(&docs[i], terms, summarySeeking); r != nil {
			results = append(results, *r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return &Response{
		Query:   query,
		Label:   queryLabel(query),
		Project: p.Name,
		Results: results,
	}, nil
}

type scoredBlock struct {
	id    string
	score float64
}

// searchDocument scores one document's blocks and builds its
// context-expanded result set, or returns nil if nothing matched.
func searchDocument(doc *block.IndexedDocument, terms []string, summarySeeking bool) *block.SearchResult {
	var scored []scoredBlock
	for i := range doc.Blocks {
		if s := scoreBlock(&doc.Blocks[i], terms, summarySeeking); s > 0 {
			scored = append(scored, scoredBlock{id: doc.Blocks[i].ID, score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	included := make(map[string]bool)
	var order []string
	add := func(id string) {
		if id == "" || included[id] {
			return
		}
		included[id] = true
		order = append(order, id)
	}

	// Summary-seeking queries always surface the document summary when
	// one exists, whatever its term score.
	if summarySeeking {
		if root := doc.Root(); root != nil && root.Summary != "" {
			add(root.ID)
		}
	}

	top := scored
	if len(top) > maxBlocksPerDoc {
		top = top[:maxBlocksPerDoc]
	}
	for _, sb := range top {
		add(sb.id)
		for b := doc.Lookup(sb.id); b != nil && b.Parent != ""; {
			parent := doc.Lookup(b.Parent)
			if parent == nil {
				break
			}
			add(parent.ID)
			b = parent
		}
		if b := doc.Lookup(sb.id); b != nil {
			for _, child := range b.Children {
				add(child)
			}
		}
	}

	if len(order) == 0 {
		return nil
	}

	blocks := make([]block.Block, 0, len(order))
	for _, id := range order {
		if b := doc.Lookup(id); b != nil {
			blocks = append(blocks, *b)
		}
	}

	var topScore float64
	if len(scored) > 0 {
		topScore = scored[0].score
	}
	return &block.SearchResult{
		Document: doc.Path,
		Blocks:   blocks,
		Score:    topScore,
	}
}

// scoreBlock computes the relevance of one block to the query terms.
func scoreBlock(b *block.Block, terms []string, summarySeeking bool) float64 {
	title := strings.ToLower(b.Title)
	content := strings.ToLower(b.Content)
	var name, signature string
	if b.Metadata != nil {
		name = strings.ToLower(b.Metadata.Name)
		signature = strings.ToLower(b.Metadata.Signature)
	}

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 5
			if title == term {
				score += 10
			}
		}
		if occurrences := strings.Count(content, term); occurrences > 0 {
			score += 1
			bonus := float64(occurrences) / 5
			if bonus > 1 {
				bonus = 1
			}
			score += bonus
		}
		if name != "" && strings.Contains(name, term) {
			score += 3
		}
		if signature != "" && strings.Contains(signature, term) {
			score += 2
		}
	}

	switch b.Type {
	case block.TypeFunction, block.TypeMethod, block.TypeClass, block.TypeInterface:
		score *= 1.2
	case block.TypeHeading:
		score *= 1.1
	}

	if summarySeeking && b.Type == block.TypeDocument && b.Summary != "" {
		score += 5
	}
	return score
}
