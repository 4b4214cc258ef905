package block

// Type classifies a block within a document's structural hierarchy.
type Type string

const (
	TypeDocument  Type = "document"
	TypeHeading   Type = "heading"
	TypeParagraph Type = "paragraph"
	TypeList      Type = "list"
	TypeCodeBlock Type = "codeblock"
	TypeTable     Type = "table"
	TypeComment   Type = "comment"
	TypeFunction  Type = "function"
	TypeMethod    Type = "method"
	TypeClass     Type = "class"
	TypeInterface Type = "interface"
	TypeVariable  Type = "variable"
)

// Metadata carries type-specific block attributes. Only the fields
// relevant to the block's Type are populated: Level for headings and
// nested stylesheet rules, Name/Signature/Language for code symbols and
// fenced code blocks, Ordered/Spread for lists.
type Metadata struct {
	Level     int    `json:"level,omitempty"`
	Name      string `json:"name,omitempty"`
	Signature string `json:"signature,omitempty"`
	Language  string `json:"language,omitempty"`
	Ordered   bool   `json:"ordered,omitempty"`
	Spread    bool   `json:"spread,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Block is the atomic unit of document structure: a typed, line-ranged
// slice of a source file. Parent and Children reference other blocks of
// the same document by id and are kept mutually consistent by the
// Builder.
type Block struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Content   string    `json:"content"`
	StartLine int       `json:"start_line"` // 1-indexed, inclusive
	EndLine   int       `json:"end_line"`   // 1-indexed, inclusive
	Path      string    `json:"path"`
	Title     string    `json:"title,omitempty"`
	Parent    string    `json:"parent,omitempty"`
	Children  []string  `json:"children,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	// Summary is populated only on document-type blocks when an
	// indexing run requested summaries.
	Summary string `json:"summary,omitempty"`
}

// Hierarchy indexes a document's parent/child relation for O(1) lookup.
// It is redundant with Block.Children but avoids scanning the block list.
type Hierarchy struct {
	Root     string              `json:"root"`
	Children map[string][]string `json:"children"`
}

// IndexedDocument is one file's parse result. Blocks are in discovery
// order, which is not necessarily line order.
type IndexedDocument struct {
	Path         string    `json:"path"`
	Title        string    `json:"title"`
	Blocks       []Block   `json:"blocks"`
	Hierarchy    Hierarchy `json:"block_hierarchy"`
	LastModified int64     `json:"last_modified"` // epoch millis
	Size         int64     `json:"size"`          // bytes
	Language     string    `json:"language"`      // file-type tag
}

// Root returns the document-type root block, or nil if the document is
// malformed. Well-formed documents always have exactly one.
func (d *IndexedDocument) Root() *Block {
	for i := range d.Blocks {
		if d.Blocks[i].ID == d.Hierarchy.Root {
			return &d.Blocks[i]
		}
	}
	return nil
}

// Lookup returns the block with the given id, or nil.
func (d *IndexedDocument) Lookup(id string) *Block {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return &d.Blocks[i]
		}
	}
	return nil
}

// Project is a registered filesystem root that can be indexed and
// searched. The indexer only updates Indexed, LastIndexed and
// HasSummaries after a run; everything else is managed by the project
// package.
type Project struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	Name         string `json:"name"`
	Indexed      bool   `json:"indexed,omitempty"`
	LastIndexed  int64  `json:"last_indexed,omitempty"` // epoch millis
	HasSummaries bool   `json:"has_summaries,omitempty"`
}

// SearchResult holds the selected, context-expanded blocks of a single
// document that matched a query. Score is the top block score for that
// document. Results are ephemeral: built per query, never persisted.
type SearchResult struct {
	Document string  `json:"document"`
	Blocks   []Block `json:"blocks"`
	Score    float64 `json:"score"`
}

// FileStats carries the file metadata a parser needs to fill in an
// IndexedDocument.
type FileStats struct {
	Size    int64
	ModTime int64 // epoch millis
}
