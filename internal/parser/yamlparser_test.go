package parser

import (
	"testing"

	"github.com/ziadkadry99/blockdex/internal/block"
)

const yamlSample = `server:
  host: localhost
  port: 8080
name: test
`

func TestYAMLStructuredKeys(t *testing.T) {
	p := NewYAMLParser()
	if !p.CanParse("config.yml", yamlSample) {
		t.Fatal("CanParse should accept .yml files")
	}
	doc := p.Parse("config.yml", yamlSample, block.FileStats{})

	if err := block.ValidateHierarchy(&doc); err != nil {
		t.Fatalf("ValidateHierarchy: %v", err)
	}

	server := findBlock(&doc, block.TypeVariable, "server")
	host := findBlock(&doc, block.TypeVariable, "host")
	port := findBlock(&doc, block.TypeVariable, "port")
	name := findBlock(&doc, block.TypeVariable, "name")
	if server == nil || host == nil || port == nil || name == nil {
		t.Fatalf("missing key blocks: server=%v host=%v port=%v name=%v", server, host, port, name)
	}

	if server.StartLine != 1 || server.EndLine != 3 {
		t.Errorf("server extent: got %d-%d, want 1-3", server.StartLine, server.EndLine)
	}
	if host.Parent != server.ID || port.Parent != server.ID {
		t.Errorf("nested keys should parent to server: host=%q port=%q", host.Parent, port.Parent)
	}
	if name.Parent != doc.Hierarchy.Root {
		t.Errorf("name parent: got %q, want root", name.Parent)
	}
	if name.StartLine != 4 || name.EndLine != 4 {
		t.Errorf("name extent: got %d-%d, want 4-4", name.StartLine, name.EndLine)
	}
}

func TestYAMLHeuristicTopLevelOnly(t *testing.T) {
	doc := NewHeuristicYAMLParser().Parse("config.yml", yamlSample, block.FileStats{})

	if findBlock(&doc, block.TypeVariable, "server") == nil {
		t.Error("heuristic parser should find top-level key server")
	}
	if findBlock(&doc, block.TypeVariable, "name") == nil {
		t.Error("heuristic parser should find top-level key name")
	}
	if findBlock(&doc, block.TypeVariable, "host") != nil {
		t.Error("heuristic parser should not expand nested keys")
	}
}

func TestYAMLMalformedDegradesToHeuristic(t *testing.T) {
	// The decoder rejects this, but the top-level keys are still
	// recoverable by the indentation heuristic.
	doc := NewYAMLParser().Parse("bad.yml", "foo: [1, 2\nbar: ok\n", block.FileStats{})

	if err := block.ValidateHierarchy(&doc); err != nil {
		t.Fatalf("ValidateHierarchy: %v", err)
	}
	foo := findBlock(&doc, block.TypeVariable, "foo")
	bar := findBlock(&doc, block.TypeVariable, "bar")
	if foo == nil || bar == nil {
		t.Fatalf("top-level keys should survive a decode failure: foo=%v bar=%v", foo, bar)
	}
	if foo.Parent != doc.Hierarchy.Root || bar.Parent != doc.Hierarchy.Root {
		t.Errorf("heuristic keys should parent to the root: foo=%q bar=%q", foo.Parent, bar.Parent)
	}
	if bar.StartLine != 2 || bar.EndLine != 2 {
		t.Errorf("bar extent: got %d-%d, want 2-2", bar.StartLine, bar.EndLine)
	}
}
