package parser

import (
	"strings"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// minCommentLength is the smallest comment body (trimmed) that gets its
// own comment block; shorter ones are noise.
const minCommentLength = 10

// ruleTitleMax bounds rule titles so selector lists stay readable.
const ruleTitleMax = 40

// StylesheetParser extracts rule, at-rule, and comment blocks from CSS
// and CSS-like files by tracking brace depth character by character.
type StylesheetParser struct{}

func NewStylesheetParser() *StylesheetParser { return &StylesheetParser{} }

func (p *StylesheetParser) Name() string { return "stylesheet" }

func (p *StylesheetParser) CanParse(path, _ string) bool {
	return hasExt(path, ".css", ".scss", ".sass", ".less")
}

// Parse finds comment regions first, then scans the comment-masked
// source for braces. Opening a brace starts a candidate rule whose
// selector is the text preceding the brace (scanning upward through
// blank lines when the brace stands alone); the matching close brace
// finalizes it. Nested rules parent to the nearest enclosing open rule.
func (p *StylesheetParser) Parse(path, content string, stats block.FileStats) (doc block.IndexedDocument) {
	defer func() {
		if recover() != nil {
			doc = FallbackDocument(path, content, "css", stats)
		}
	}()

	lines := splitLines(content)
	b := block.NewBuilder(path, content)
	root := b.Root()

	masked, comments := maskComments(content)

	// Substantial comments become standalone blocks under the root,
	// never attached to a rule.
	for _, c := range comments {
		body := strings.TrimSpace(c.text)
		if len(body) <= minCommentLength {
			continue
		}
		b.Add(root, block.Block{
			Type:      block.TypeComment,
			Content:   content[c.start:c.end],
			StartLine: c.startLine,
			EndLine:   c.endLine,
			Title:     firstLine(body),
		})
	}

	maskedLines := splitLines(masked)

	type openRule struct {
		idx   int
		level int // brace depth at which the rule opened
	}
	var stack []openRule
	depth := 0
	line := 1
	var quote byte

	for i := 0; i < len(masked); i++ {
		ch := masked[i]
		if ch == '\n' {
			line++
			continue
		}
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '{':
			selector, selLine := selectorBefore(maskedLines, line, i, lineOffset(masked, i))
			parent := root
			if len(stack) > 0 {
				parent = stack[len(stack)-1].idx
			}
			kind, title := classifySelector(selector)
			idx := b.Add(parent, block.Block{
				Type:      kind,
				Title:     title,
				StartLine: selLine,
				EndLine:   selLine,
				Metadata:  &block.Metadata{Level: depth, Name: selector},
			})
			stack = append(stack, openRule{idx: idx, level: depth})
			depth++
		case '}':
			depth--
			if len(stack) > 0 && depth == stack[len(stack)-1].level {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				blk := b.Block(top.idx)
				blk.EndLine = line
				blk.Content = sliceLines(lines, blk.StartLine, line)
			}
		}
	}

	// Unbalanced input: close whatever is still open at end of file.
	total := block.CountLines(content)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		blk := b.Block(top.idx)
		blk.EndLine = total
		blk.Content = sliceLines(lines, blk.StartLine, total)
	}

	return b.Finish(baseTitle(path), "css", stats)
}

// classifySelector maps a selector to a block kind and display title.
// At-rules are labeled by family; everything else is a plain rule.
func classifySelector(selector string) (block.Type, string) {
	title := selector
	lower := strings.ToLower(selector)
	switch {
	case strings.HasPrefix(lower, "@media"):
		title = "Media Query: " + strings.TrimSpace(strings.TrimPrefix(selector, "@media"))
	case strings.HasPrefix(lower, "@keyframes"):
		title = "Keyframes: " + strings.TrimSpace(strings.TrimPrefix(selector, "@keyframes"))
	case strings.HasPrefix(lower, "@"):
		title = "At-Rule: " + selector
	}
	if len(title) > ruleTitleMax {
		title = title[:ruleTitleMax]
	}
	return block.TypeCodeBlock, title
}

// selectorBefore extracts the selector text for a brace at the given
// line: the text preceding the brace on the same line, or the nearest
// non-blank line above when the brace stands alone.
func selectorBefore(maskedLines []string, braceLine, off, lineStart int) (string, int) {
	sel := strings.TrimSpace(maskedLines[braceLine-1][:off-lineStart])
	selLine := braceLine
	for sel == "" && selLine > 1 {
		selLine--
		sel = strings.TrimSpace(maskedLines[selLine-1])
	}
	if sel == "" {
		selLine = braceLine
	}
	return strings.TrimSuffix(sel, ","), selLine
}

// lineOffset returns the byte offset of the start of the line
// containing offset off.
func lineOffset(s string, off int) int {
	idx := strings.LastIndexByte(s[:off], '\n')
	return idx + 1
}

// commentRegion records one /* ... */ span.
type commentRegion struct {
	start, end         int // byte offsets, end exclusive
	startLine, endLine int
	text               string // body without the comment markers
}

// maskComments replaces comment regions with spaces (newlines kept) so
// brace scanning and selector extraction never see comment text.
func maskComments(content string) (string, []commentRegion) {
	var regions []commentRegion
	buf := []byte(content)
	line := 1
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			line++
			continue
		}
		if content[i] == '/' && i+1 < len(content) && content[i+1] == '*' {
			start, startLine := i, line
			j := i + 2
			for j < len(content) {
				if content[j] == '\n' {
					line++
				}
				if content[j] == '*' && j+1 < len(content) && content[j+1] == '/' {
					j += 2
					break
				}
				j++
			}
			if j >= len(content) {
				j = len(content)
			}
			bodyEnd := j
			if bodyEnd >= start+4 && strings.HasSuffix(content[start:j], "*/") {
				bodyEnd = j - 2
			}
			regions = append(regions, commentRegion{
				start:     start,
				end:       j,
				startLine: startLine,
				endLine:   line,
				text:      content[start+2 : bodyEnd],
			})
			for k := start; k < j; k++ {
				if buf[k] != '\n' {
					buf[k] = ' '
				}
			}
			i = j - 1
		}
	}
	return string(buf), regions
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(strings.TrimLeft(s, "* "))
	if len(s) > ruleTitleMax {
		s = s[:ruleTitleMax]
	}
	return s
}
