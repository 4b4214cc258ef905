package parser

import (
	"regexp"
	"strings"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// symbolPattern matches one kind of declaration at the start of a
// (whitespace-trimmed) line. The first submatch is the symbol name.
type symbolPattern struct {
	re   *regexp.Regexp
	kind block.Type
}

// langPatterns maps a file-type tag to its declaration patterns, in
// match-precedence order.
var langPatterns = map[string][]symbolPattern{
	"go": {
		{regexp.MustCompile(`^func\s+\([^)]*\)\s+([A-Za-z_]\w*)`), block.TypeMethod},
		{regexp.MustCompile(`^func\s+([A-Za-z_]\w*)`), block.TypeFunction},
		{regexp.MustCompile(`^type\s+([A-Za-z_]\w*)\s+interface\b`), block.TypeInterface},
		{regexp.MustCompile(`^type\s+([A-Za-z_]\w*)\s+struct\b`), block.TypeClass},
		{regexp.MustCompile(`^(?:var|const)\s+([A-Za-z_]\w*)\s*=`), block.TypeVariable},
	},
	"python": {
		{regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`), block.TypeClass},
		{regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_]\w*)`), block.TypeFunction},
	},
	"javascript": jsPatterns,
	"typescript": append([]symbolPattern{
		{regexp.MustCompile(`^(?:export\s+)?interface\s+([A-Za-z_$][\w$]*)`), block.TypeInterface},
		{regexp.MustCompile(`^(?:export\s+)?type\s+([A-Za-z_$][\w$]*)\s*=`), block.TypeClass},
	}, jsPatterns...),
	"java": {
		{regexp.MustCompile(`\binterface\s+([A-Za-z_]\w*)`), block.TypeInterface},
		{regexp.MustCompile(`\bclass\s+([A-Za-z_]\w*)`), block.TypeClass},
	},
	"ruby": {
		{regexp.MustCompile(`^class\s+([A-Z]\w*)`), block.TypeClass},
		{regexp.MustCompile(`^module\s+([A-Z]\w*)`), block.TypeClass},
		{regexp.MustCompile(`^def\s+([A-Za-z_]\w*[?!]?)`), block.TypeFunction},
	},
	"rust": {
		{regexp.MustCompile(`^(?:pub\s+)?(?:async\s+)?fn\s+([A-Za-z_]\w*)`), block.TypeFunction},
		{regexp.MustCompile(`^(?:pub\s+)?struct\s+([A-Za-z_]\w*)`), block.TypeClass},
		{regexp.MustCompile(`^(?:pub\s+)?trait\s+([A-Za-z_]\w*)`), block.TypeInterface},
	},
}

var jsPatterns = []symbolPattern{
	{regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`), block.TypeFunction},
	{regexp.MustCompile(`^(?:export\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`), block.TypeClass},
	{regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`), block.TypeFunction},
}

// CodeParser extracts function, method, class, and interface blocks
// from source files by scanning declaration lines. It is a textual
// heuristic, not a grammar: good enough to anchor search results to
// symbols, and fail-soft on anything it cannot read.
type CodeParser struct{}

func NewCodeParser() *CodeParser { return &CodeParser{} }

func (p *CodeParser) Name() string { return "code" }

func (p *CodeParser) CanParse(path, _ string) bool {
	_, ok := langPatterns[DetectLanguage(path)]
	return ok
}

// Parse scans the file line by line. A symbol's extent runs to the line
// before the next declaration at the same or shallower indentation
// (end of file otherwise), with trailing blank lines trimmed. A
// function declared inside an open class or interface body becomes a
// method block parented to it.
func (p *CodeParser) Parse(path, content string, stats block.FileStats) (doc block.IndexedDocument) {
	defer func() {
		if recover() != nil {
			doc = FallbackDocument(path, content, DetectLanguage(path), stats)
		}
	}()

	lang := DetectLanguage(path)
	patterns := langPatterns[lang]
	lines := splitLines(content)
	total := block.CountLines(content)

	b := block.NewBuilder(path, content)
	root := b.Root()

	type openSym struct {
		idx    int
		indent int
		kind   block.Type
	}
	type symRef struct {
		idx    int
		indent int
		start  int
	}
	var stack []openSym
	var syms []symRef

	for i, raw := range lines {
		trimmed := strings.TrimLeft(raw, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(raw) - len(trimmed)

		name, kind, ok := matchSymbol(patterns, trimmed)
		if !ok {
			continue
		}
		lineNo := i + 1

		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		parent := root
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			parent = top.idx
			if kind == block.TypeFunction && (top.kind == block.TypeClass || top.kind == block.TypeInterface) {
				kind = block.TypeMethod
			}
		}

		signature := strings.TrimSpace(strings.TrimRight(trimmed, "{: \t"))
		blk := block.Block{
			Type:      kind,
			Title:     name,
			Content:   raw,
			StartLine: lineNo,
			EndLine:   lineNo,
			Metadata:  &block.Metadata{Name: name, Signature: signature, Language: lang},
		}

		if kind == block.TypeVariable {
			// Variable blocks cover only their declaration line.
			b.Add(parent, blk)
			continue
		}

		idx := b.Add(parent, blk)
		stack = append(stack, openSym{idx: idx, indent: indent, kind: kind})
		syms = append(syms, symRef{idx: idx, indent: indent, start: lineNo})
	}

	for i, s := range syms {
		end := total
		for j := i + 1; j < len(syms); j++ {
			if syms[j].indent <= s.indent {
				end = syms[j].start - 1
				break
			}
		}
		for end > s.start && strings.TrimSpace(lines[end-1]) == "" {
			end--
		}
		blk := b.Block(s.idx)
		blk.EndLine = end
		blk.Content = sliceLines(lines, s.start, end)
	}

	return b.Finish(baseTitle(path), lang, stats)
}

func matchSymbol(patterns []symbolPattern, line string) (name string, kind block.Type, ok bool) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			return m[1], p.kind, true
		}
	}
	return "", "", false
}
