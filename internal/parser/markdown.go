package parser

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// MarkdownParser builds a section tree from a Markdown document:
// headings nest by level, and paragraphs, lists, code fences, and
// tables attach to the innermost open heading.
type MarkdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser creates a MarkdownParser with GFM tables enabled.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		md: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

func (p *MarkdownParser) Name() string { return "markdown" }

func (p *MarkdownParser) CanParse(path, _ string) bool {
	return hasExt(path, ".md", ".markdown", ".mdx")
}

// headingRef tracks a heading block while its final extent is unknown.
type headingRef struct {
	idx   int // arena index
	level int
	start int // 1-indexed start line
}

// Parse walks the goldmark AST over the document's top-level nodes.
// Heading extents are deferred: a section textually runs until the next
// heading of the same or shallower level (or end of file), so after the
// first pass every heading's content is re-sliced to cover its whole
// section, nested subsections included.
func (p *MarkdownParser) Parse(path, content string, stats block.FileStats) (doc block.IndexedDocument) {
	defer func() {
		if recover() != nil {
			doc = FallbackDocument(path, content, "markdown", stats)
		}
	}()

	src := []byte(content)
	lines := splitLines(content)
	total := block.CountLines(content)
	starts := lineStarts(content)

	b := block.NewBuilder(path, content)
	root := b.Root()

	docNode := p.md.Parser().Parse(text.NewReader(src))

	var stack []headingRef    // currently open sections, outermost first
	var headings []headingRef // every heading in document order
	title := ""

	for n := docNode.FirstChild(); n != nil; n = n.NextSibling() {
		start, end, ok := nodeLineRange(n, starts)
		if !ok {
			continue
		}

		if h, isHeading := n.(*ast.Heading); isHeading {
			for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			parent := root
			if len(stack) > 0 {
				parent = stack[len(stack)-1].idx
			}
			headingTitle := strings.TrimSpace(segmentsText(h.Lines(), src))
			idx := b.Add(parent, block.Block{
				Type:      block.TypeHeading,
				Content:   sliceLines(lines, start, end),
				StartLine: start,
				EndLine:   end,
				Title:     headingTitle,
				Metadata:  &block.Metadata{Level: h.Level},
			})
			ref := headingRef{idx: idx, level: h.Level, start: start}
			stack = append(stack, ref)
			headings = append(headings, ref)
			if title == "" && h.Level == 1 {
				title = headingTitle
			}
			continue
		}

		parent := root
		if len(stack) > 0 {
			parent = stack[len(stack)-1].idx
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			// Lines() covers only the body; pull the fences back in.
			if start > 1 && isFenceLine(lines[start-2]) {
				start--
			}
			if end < total && isFenceLine(lines[end]) {
				end++
			}
			var meta *block.Metadata
			if lang := node.Language(src); len(lang) > 0 {
				meta = &block.Metadata{Language: string(lang)}
			}
			b.Add(parent, block.Block{
				Type:      block.TypeCodeBlock,
				Content:   sliceLines(lines, start, end),
				StartLine: start,
				EndLine:   end,
				Metadata:  meta,
			})
		case *ast.CodeBlock:
			b.Add(parent, block.Block{
				Type:      block.TypeCodeBlock,
				Content:   sliceLines(lines, start, end),
				StartLine: start,
				EndLine:   end,
			})
		case *ast.List:
			b.Add(parent, block.Block{
				Type:      block.TypeList,
				Content:   sliceLines(lines, start, end),
				StartLine: start,
				EndLine:   end,
				Metadata:  &block.Metadata{Ordered: node.IsOrdered(), Spread: !node.IsTight},
			})
		case *east.Table:
			b.Add(parent, block.Block{
				Type:      block.TypeTable,
				Content:   sliceLines(lines, start, end),
				StartLine: start,
				EndLine:   end,
			})
		case *ast.ThematicBreak:
			// Horizontal rules carry no searchable content.
		default:
			// Paragraphs, blockquotes, HTML blocks: plain prose.
			b.Add(parent, block.Block{
				Type:      block.TypeParagraph,
				Content:   sliceLines(lines, start, end),
				StartLine: start,
				EndLine:   end,
			})
		}
	}

	// Second pass: a heading's extent runs to the line before the next
	// heading at the same or shallower level, defaulting to EOF.
	for i, h := range headings {
		end := total
		for j := i + 1; j < len(headings); j++ {
			if headings[j].level <= h.level {
				end = headings[j].start - 1
				break
			}
		}
		blk := b.Block(h.idx)
		blk.EndLine = end
		blk.Content = sliceLines(lines, blk.StartLine, end)
	}

	if title == "" {
		title = baseTitle(path)
	}
	return b.Finish(title, "markdown", stats)
}

// nodeLineRange returns the 1-indexed line span covered by a node and
// its block-level descendants. ok is false for nodes with no source
// segments (e.g. empty containers).
func nodeLineRange(n ast.Node, starts []int) (start, end int, ok bool) {
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() == ast.TypeInline {
			return ast.WalkSkipChildren, nil
		}
		segs := c.Lines()
		if segs == nil {
			return ast.WalkContinue, nil
		}
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			if seg.Start >= seg.Stop {
				continue
			}
			s := lineOfOffset(starts, seg.Start)
			e := lineOfOffset(starts, seg.Stop-1)
			if !ok || s < start {
				start = s
			}
			if !ok || e > end {
				end = e
			}
			ok = true
		}
		return ast.WalkContinue, nil
	})
	return start, end, ok
}

// lineStarts returns the byte offset of each line's first character.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOfOffset maps a byte offset to its 1-indexed line number.
func lineOfOffset(starts []int, off int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > off })
}

// segmentsText concatenates the raw source text of the given segments.
func segmentsText(segs *text.Segments, src []byte) string {
	if segs == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}
