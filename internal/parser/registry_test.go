package parser

import (
	"testing"

	"github.com/ziadkadry99/blockdex/internal/block"
)

// countingParser accepts everything and counts Parse invocations.
type countingParser struct {
	calls int
}

func (p *countingParser) Name() string                 { return "counting" }
func (p *countingParser) CanParse(_, _ string) bool    { return true }
func (p *countingParser) Parse(path, content string, stats block.FileStats) block.IndexedDocument {
	p.calls++
	return FallbackDocument(path, content, "unknown", stats)
}

type panickingParser struct{}

func (p *panickingParser) Name() string              { return "panicking" }
func (p *panickingParser) CanParse(_, _ string) bool { return true }
func (p *panickingParser) Parse(_, _ string, _ block.FileStats) block.IndexedDocument {
	panic("boom")
}

func TestRegistrySelectsByPrecedence(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		path string
		want string
	}{
		{"README.md", "markdown"},
		{"main.go", "code"},
		{"style.css", "stylesheet"},
		{"config.yml", "yaml"},
	}
	for _, c := range cases {
		p := r.FindParser(c.path, "")
		if p == nil {
			t.Errorf("FindParser(%s): got nil", c.path)
			continue
		}
		if p.Name() != c.want {
			t.Errorf("FindParser(%s): got %q, want %q", c.path, p.Name(), c.want)
		}
	}

	if p := r.FindParser("data.bin", ""); p != nil {
		t.Errorf("FindParser(data.bin): got %q, want nil", p.Name())
	}
}

func TestRegistryUnmatchedFileFallsBack(t *testing.T) {
	r := NewRegistry()
	doc := r.Parse("notes.txt", "plain text\n", block.FileStats{})
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != block.TypeDocument {
		t.Fatalf("unmatched file should fall back to a single document block, got %+v", doc.Blocks)
	}
	if doc.Title != "notes.txt" {
		t.Errorf("fallback title: got %q, want notes.txt", doc.Title)
	}
}

func TestRegistryCachesByContentHash(t *testing.T) {
	r := NewEmptyRegistry()
	p := &countingParser{}
	r.Register(p)

	r.Parse("a.txt", "hello", block.FileStats{})
	r.Parse("a.txt", "hello", block.FileStats{})
	if p.calls != 1 {
		t.Errorf("unchanged content should hit the cache: got %d calls, want 1", p.calls)
	}

	r.Parse("a.txt", "changed", block.FileStats{})
	if p.calls != 2 {
		t.Errorf("changed content should re-parse: got %d calls, want 2", p.calls)
	}

	// Same content under another path is a distinct cache entry.
	r.Parse("b.txt", "hello", block.FileStats{})
	if p.calls != 3 {
		t.Errorf("distinct path should re-parse: got %d calls, want 3", p.calls)
	}
}

// namedParser accepts a fixed extension set.
type namedParser struct {
	name string
	exts []string
}

func (p *namedParser) Name() string { return p.name }
func (p *namedParser) CanParse(path, _ string) bool {
	return hasExt(path, p.exts...)
}
func (p *namedParser) Parse(path, content string, stats block.FileStats) block.IndexedDocument {
	return FallbackDocument(path, content, p.name, stats)
}

func TestRegistryRegisterInvalidatesExtensionCache(t *testing.T) {
	r := NewEmptyRegistry()
	first := &namedParser{name: "first", exts: []string{".md"}}
	r.Register(first)

	// Warm the extension cache and confirm .txt has no parser yet.
	if p := r.FindParser("a.md", ""); p == nil || p.Name() != "first" {
		t.Fatalf("FindParser(a.md): got %v, want first", p)
	}
	if p := r.FindParser("a.txt", ""); p != nil {
		t.Fatalf("FindParser(a.txt): got %q, want nil", p.Name())
	}

	second := &namedParser{name: "second", exts: []string{".md", ".txt"}}
	r.Register(second)

	// The new parser wins the previously unresolvable extension.
	if p := r.FindParser("a.txt", ""); p == nil || p.Name() != "second" {
		t.Errorf("FindParser(a.txt) after Register: got %v, want second", p)
	}
	// Cached extensions re-resolve by precedence, not staleness.
	if p := r.FindParser("a.md", ""); p == nil || p.Name() != "first" {
		t.Errorf("FindParser(a.md) after Register: got %v, want first", p)
	}
}

func TestRegistryRecoversFromPanickingParser(t *testing.T) {
	r := NewEmptyRegistry()
	r.Register(&panickingParser{})

	doc := r.Parse("a.txt", "content\n", block.FileStats{})
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != block.TypeDocument {
		t.Fatalf("panicking parser should fall back, got %+v", doc.Blocks)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"app.py", "python"},
		{"index.ts", "typescript"},
		{"style.scss", "css"},
		{"README.md", "markdown"},
		{"data.bin", "unknown"},
	}
	for _, c := range cases {
		if got := DetectLanguage(c.path); got != c.want {
			t.Errorf("DetectLanguage(%s): got %q, want %q", c.path, got, c.want)
		}
	}
}
