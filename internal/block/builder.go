package block

import (
	"fmt"
	"strings"
)

// Builder assembles a document's block tree. Blocks are stored in one
// ordered arena and related by integer index while building, so a
// half-built tree can never hold a dangling reference; string ids and
// the id-keyed hierarchy are materialized once at Finish.
type Builder struct {
	path    string
	blocks  []Block
	parents []int   // arena index of each block's parent, -1 for the root
	kids    [][]int // arena indexes of each block's children
}

// NewBuilder creates a Builder for the given file and adds the document
// root block spanning the whole content. The root is always arena index 0.
func NewBuilder(path, content string) *Builder {
	b := &Builder{path: path}
	b.blocks = append(b.blocks, Block{
		Type:      TypeDocument,
		Content:   content,
		StartLine: 1,
		EndLine:   CountLines(content),
		Path:      path,
	})
	b.parents = append(b.parents, -1)
	b.kids = append(b.kids, nil)
	return b
}

// Root returns the arena index of the document root block.
func (b *Builder) Root() int { return 0 }

// Add appends a block as a child of the block at parent and returns its
// arena index. The block's Path is set; Parent/Children/ID are managed
// by the builder and must be left empty.
func (b *Builder) Add(parent int, blk Block) int {
	blk.Path = b.path
	idx := len(b.blocks)
	b.blocks = append(b.blocks, blk)
	b.parents = append(b.parents, parent)
	b.kids = append(b.kids, nil)
	b.kids[parent] = append(b.kids[parent], idx)
	return idx
}

// Block returns a mutable reference to the block at the given arena
// index, for deferred fixups such as heading content re-slicing.
func (b *Builder) Block(idx int) *Block { return &b.blocks[idx] }

// Len returns the number of blocks in the arena, including the root.
func (b *Builder) Len() int { return len(b.blocks) }

// Finish materializes the IndexedDocument: deterministic ids in arena
// order, mutually consistent parent/children id references, and the
// id-keyed hierarchy map.
func (b *Builder) Finish(title, language string, stats FileStats) IndexedDocument {
	ids := make([]string, len(b.blocks))
	for i := range b.blocks {
		ids[i] = fmt.Sprintf("b%d", i)
	}

	doc := IndexedDocument{
		Path:         b.path,
		Title:        title,
		Language:     language,
		Size:         stats.Size,
		LastModified: stats.ModTime,
		Hierarchy: Hierarchy{
			Root:     ids[0],
			Children: make(map[string][]string, len(b.blocks)),
		},
	}

	for i := range b.blocks {
		blk := b.blocks[i]
		blk.ID = ids[i]
		if p := b.parents[i]; p >= 0 {
			blk.Parent = ids[p]
		}
		for _, c := range b.kids[i] {
			blk.Children = append(blk.Children, ids[c])
		}
		doc.Hierarchy.Children[blk.ID] = blk.Children
		doc.Blocks = append(doc.Blocks, blk)
	}

	return doc
}

// CountLines returns the 1-indexed number of lines in content. Empty
// content counts as a single line so every document spans at least 1..1.
func CountLines(content string) int {
	if content == "" {
		return 1
	}
	n := strings.Count(content, "\n") + 1
	if strings.HasSuffix(content, "\n") {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ValidateHierarchy checks the structural invariants of a parsed
// document: exactly one document-type root covering the whole file, and
// a mutually consistent parent/child relation.
func ValidateHierarchy(d *IndexedDocument) error {
	byID := make(map[string]*Block, len(d.Blocks))
	rootCount := 0
	for i := range d.Blocks {
		blk := &d.Blocks[i]
		if _, dup := byID[blk.ID]; dup {
			return fmt.Errorf("duplicate block id %q", blk.ID)
		}
		byID[blk.ID] = blk
		if blk.Type == TypeDocument {
			rootCount++
		}
	}
	if rootCount != 1 {
		return fmt.Errorf("expected exactly one document block, found %d", rootCount)
	}

	root := d.Root()
	if root == nil {
		return fmt.Errorf("hierarchy root %q not found among blocks", d.Hierarchy.Root)
	}
	if root.Parent != "" {
		return fmt.Errorf("root block %q has parent %q", root.ID, root.Parent)
	}

	for _, blk := range d.Blocks {
		if blk.Parent != "" {
			parent, ok := byID[blk.Parent]
			if !ok {
				return fmt.Errorf("block %q references missing parent %q", blk.ID, blk.Parent)
			}
			if !containsID(parent.Children, blk.ID) {
				return fmt.Errorf("block %q missing from children of its parent %q", blk.ID, parent.ID)
			}
		}
		for _, childID := range blk.Children {
			child, ok := byID[childID]
			if !ok {
				return fmt.Errorf("block %q references missing child %q", blk.ID, childID)
			}
			if child.Parent != blk.ID {
				return fmt.Errorf("child %q of %q has parent %q", childID, blk.ID, child.Parent)
			}
		}
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
