package parser

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// YAMLParser turns each top-level mapping key of a YAML document into a
// block, recursively expanding nested mappings into child blocks. Line
// ranges come from scanning the raw text for the key's line, ending at
// the first subsequent line with equal or shallower indentation.
//
// The structured path decodes with gopkg.in/yaml.v3. When decoding
// fails, or when constructed without a decoder, an
// indentation-heuristic fallback extracts only top-level keys; it is
// structurally shallower and deliberately documented as degraded, not
// equivalent.
type YAMLParser struct {
	structured bool
}

// NewYAMLParser creates a YAMLParser using the structured decoder.
func NewYAMLParser() *YAMLParser { return &YAMLParser{structured: true} }

// NewHeuristicYAMLParser creates a YAMLParser that only uses the
// degraded indentation heuristic. Intended for configurations where the
// structured decoder is not wanted.
func NewHeuristicYAMLParser() *YAMLParser { return &YAMLParser{structured: false} }

func (p *YAMLParser) Name() string { return "yaml" }

func (p *YAMLParser) CanParse(path, _ string) bool {
	return hasExt(path, ".yaml", ".yml")
}

func (p *YAMLParser) Parse(path, content string, stats block.FileStats) (doc block.IndexedDocument) {
	defer func() {
		if recover() != nil {
			doc = FallbackDocument(path, content, "yaml", stats)
		}
	}()

	lines := splitLines(content)
	b := block.NewBuilder(path, content)

	if !p.structured {
		p.parseHeuristic(b, lines, block.CountLines(content))
		return b.Finish(baseTitle(path), "yaml", stats)
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		// Malformed YAML: degrade to the indentation heuristic, which
		// still recovers top-level keys from a broken file.
		p.parseHeuristic(b, lines, block.CountLines(content))
		return b.Finish(baseTitle(path), "yaml", stats)
	}

	if len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		p.addMappingBlocks(b, b.Root(), root.Content[0], lines, 1, block.CountLines(content), -1)
	}

	return b.Finish(baseTitle(path), "yaml", stats)
}

// addMappingBlocks walks a mapping node's key/value pairs, locating
// each key's line inside (fromLine..toLine) and attaching a block under
// parent. Mapping values recurse with the child's own range.
func (p *YAMLParser) addMappingBlocks(b *block.Builder, parent int, mapping *yaml.Node, lines []string, fromLine, toLine, parentIndent int) {
	searchFrom := fromLine
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valNode := mapping.Content[i+1]
		key := keyNode.Value

		start, indent, found := findKeyLine(lines, key, searchFrom, toLine, parentIndent)
		if !found {
			continue
		}
		searchFrom = start + 1

		end := keyExtent(lines, start, indent, toLine)
		idx := b.Add(parent, block.Block{
			Type:      block.TypeVariable,
			Title:     key,
			Content:   sliceLines(lines, start, end),
			StartLine: start,
			EndLine:   end,
			Metadata:  &block.Metadata{Name: key},
		})

		if valNode.Kind == yaml.MappingNode {
			p.addMappingBlocks(b, idx, valNode, lines, start+1, end, indent)
		}
	}
}

// findKeyLine scans lines fromLine..toLine (1-indexed, inclusive) for
// the first line whose content is "<key>:" at an indentation deeper
// than parentIndent. Returns the line number and the key's indentation.
func findKeyLine(lines []string, key string, fromLine, toLine, parentIndent int) (line, indent int, found bool) {
	for n := fromLine; n <= toLine && n <= len(lines); n++ {
		raw := lines[n-1]
		trimmed := strings.TrimLeft(raw, " ")
		ind := len(raw) - len(trimmed)
		if trimmed == "" || ind <= parentIndent {
			continue
		}
		if strings.HasPrefix(trimmed, key+":") {
			return n, ind, true
		}
	}
	return 0, 0, false
}

// keyExtent returns the last line of the value starting at startLine:
// the line before the first subsequent non-blank line indented at or
// above the key's own level, bounded by toLine.
func keyExtent(lines []string, startLine, indent, toLine int) int {
	end := toLine
	if end > len(lines) {
		end = len(lines)
	}
	for n := startLine + 1; n <= end; n++ {
		raw := lines[n-1]
		trimmed := strings.TrimLeft(raw, " ")
		if trimmed == "" {
			continue
		}
		if len(raw)-len(trimmed) <= indent {
			return n - 1
		}
	}
	return end
}

var topLevelKeyRe = regexp.MustCompile(`^([A-Za-z0-9_.\-"']+):`)

// parseHeuristic is the degraded path: only zero-indentation "key:"
// lines become blocks, with no nested expansion.
func (p *YAMLParser) parseHeuristic(b *block.Builder, lines []string, total int) {
	root := b.Root()
	type keyRef struct {
		idx   int
		start int
	}
	var prev *keyRef
	closePrev := func(endLine int) {
		if prev == nil {
			return
		}
		blk := b.Block(prev.idx)
		blk.EndLine = endLine
		blk.Content = sliceLines(lines, prev.start, endLine)
		prev = nil
	}

	for i, raw := range lines {
		m := topLevelKeyRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		closePrev(i)
		key := strings.Trim(m[1], `"'`)
		idx := b.Add(root, block.Block{
			Type:      block.TypeVariable,
			Title:     key,
			Content:   raw,
			StartLine: i + 1,
			EndLine:   i + 1,
			Metadata:  &block.Metadata{Name: key},
		})
		prev = &keyRef{idx: idx, start: i + 1}
	}
	closePrev(total)
}
