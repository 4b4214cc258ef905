// Package parser turns raw file content into trees of typed blocks.
//
// Each file type (Markdown, source code, stylesheets, YAML) has its own
// parser behind a shared capability interface; a Registry picks the
// right one per file and caches results. All parsers are fail-soft: on
// malformed input they degrade to a single document-root block instead
// of failing the indexing run.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// Parser converts one file's content into an IndexedDocument.
type Parser interface {
	// Name identifies the parser in logs and cache diagnostics.
	Name() string

	// CanParse is a cheap, side-effect-free test of whether this
	// parser handles the given file. It must be total: any path and
	// content combination yields a bool.
	CanParse(path, content string) bool

	// Parse builds the document tree. It never fails: malformed input
	// for the parser's own file type yields a fallback document whose
	// sole block is the document root covering the whole file.
	Parse(path, content string, stats block.FileStats) block.IndexedDocument
}

// FallbackDocument builds the degraded single-block document used when
// no parser matches a file or a parser cannot make sense of its input.
func FallbackDocument(path, content, language string, stats block.FileStats) block.IndexedDocument {
	b := block.NewBuilder(path, content)
	return b.Finish(baseTitle(path), language, stats)
}

// baseTitle derives a document title from the file name.
func baseTitle(path string) string {
	return filepath.Base(path)
}

// hasExt reports whether path has one of the given lowercase extensions.
func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// splitLines splits content into lines without dropping a trailing
// newline's empty remainder ambiguity: line i (0-indexed) is the text
// between newline i and newline i+1.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// sliceLines joins lines start..end (1-indexed, inclusive) back into
// the exact source substring. Out-of-range bounds are clamped.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
