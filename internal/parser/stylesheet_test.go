package parser

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/blockdex/internal/block"
)

const cssSample = `/* Layout helpers for the main grid */
.container {
  color: red;
}

@media (max-width: 600px) {
  .container {
    color: blue;
  }
}
`

func TestStylesheetRulesAndComments(t *testing.T) {
	p := NewStylesheetParser()
	doc := p.Parse("grid.css", cssSample, block.FileStats{})

	if err := block.ValidateHierarchy(&doc); err != nil {
		t.Fatalf("ValidateHierarchy: %v", err)
	}

	var comment, topRule, media, nested *block.Block
	for i := range doc.Blocks {
		blk := &doc.Blocks[i]
		switch {
		case blk.Type == block.TypeComment:
			comment = blk
		case blk.Type == block.TypeCodeBlock && blk.Metadata != nil && blk.Metadata.Name == ".container" && blk.Metadata.Level == 0:
			topRule = blk
		case blk.Type == block.TypeCodeBlock && strings.HasPrefix(blk.Title, "Media Query:"):
			media = blk
		case blk.Type == block.TypeCodeBlock && blk.Metadata != nil && blk.Metadata.Name == ".container" && blk.Metadata.Level == 1:
			nested = blk
		}
	}

	if comment == nil {
		t.Fatal("substantial comment should become a block")
	}
	if comment.Title != "Layout helpers for the main grid" {
		t.Errorf("comment title: got %q", comment.Title)
	}

	if topRule == nil {
		t.Fatal("missing top-level .container rule")
	}
	if topRule.StartLine != 2 || topRule.EndLine != 4 {
		t.Errorf(".container extent: got %d-%d, want 2-4", topRule.StartLine, topRule.EndLine)
	}

	if media == nil {
		t.Fatal("missing media query rule")
	}
	if media.Title != "Media Query: (max-width: 600px)" {
		t.Errorf("media title: got %q", media.Title)
	}
	if media.StartLine != 6 || media.EndLine != 10 {
		t.Errorf("media extent: got %d-%d, want 6-10", media.StartLine, media.EndLine)
	}

	if nested == nil {
		t.Fatal("missing nested .container rule")
	}
	if nested.Parent != media.ID {
		t.Errorf("nested rule parent: got %q, want media rule %q", nested.Parent, media.ID)
	}
}

func TestStylesheetShortCommentIgnored(t *testing.T) {
	doc := NewStylesheetParser().Parse("x.css", "/* reset */\nbody { margin: 0; }\n", block.FileStats{})
	for _, blk := range doc.Blocks {
		if blk.Type == block.TypeComment {
			t.Errorf("short comment should not become a block: %+v", blk)
		}
	}
}

func TestStylesheetUnbalancedBracesCloseAtEOF(t *testing.T) {
	doc := NewStylesheetParser().Parse("broken.css", ".a {\n  color: red;\n", block.FileStats{})

	rule := findBlock(&doc, block.TypeCodeBlock, ".a")
	if rule == nil {
		t.Fatal("missing rule block for unbalanced input")
	}
	if rule.EndLine != 2 {
		t.Errorf("unbalanced rule end: got %d, want 2 (EOF)", rule.EndLine)
	}
}
