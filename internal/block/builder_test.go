package block

import "testing"

func TestBuilderMaterializesConsistentHierarchy(t *testing.T) {
	content := "line one\nline two\nline three\n"
	b := NewBuilder("doc.md", content)

	h1 := b.Add(b.Root(), Block{Type: TypeHeading, Title: "Intro", StartLine: 1, EndLine: 3})
	p1 := b.Add(h1, Block{Type: TypeParagraph, StartLine: 2, EndLine: 2})

	doc := b.Finish("Intro", "markdown", FileStats{Size: int64(len(content)), ModTime: 42})

	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}
	if doc.Hierarchy.Root != "b0" {
		t.Errorf("root id: got %q, want %q", doc.Hierarchy.Root, "b0")
	}
	if doc.Blocks[0].Type != TypeDocument {
		t.Errorf("block 0 type: got %q, want %q", doc.Blocks[0].Type, TypeDocument)
	}
	if doc.Blocks[h1].ID != "b1" || doc.Blocks[p1].ID != "b2" {
		t.Errorf("unexpected ids: %q, %q", doc.Blocks[h1].ID, doc.Blocks[p1].ID)
	}
	if doc.Blocks[h1].Parent != "b0" {
		t.Errorf("heading parent: got %q, want b0", doc.Blocks[h1].Parent)
	}
	if doc.Blocks[p1].Parent != "b1" {
		t.Errorf("paragraph parent: got %q, want b1", doc.Blocks[p1].Parent)
	}
	if got := doc.Hierarchy.Children["b1"]; len(got) != 1 || got[0] != "b2" {
		t.Errorf("hierarchy children of b1: got %v, want [b2]", got)
	}
	if doc.Blocks[0].Path != "doc.md" || doc.Blocks[h1].Path != "doc.md" {
		t.Errorf("paths not propagated: %q, %q", doc.Blocks[0].Path, doc.Blocks[h1].Path)
	}

	if err := ValidateHierarchy(&doc); err != nil {
		t.Errorf("ValidateHierarchy: %v", err)
	}
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 1},
		{"one line", 1},
		{"one line\n", 1},
		{"a\nb", 2},
		{"a\nb\nc\n", 3},
	}
	for _, c := range cases {
		if got := CountLines(c.content); got != c.want {
			t.Errorf("CountLines(%q): got %d, want %d", c.content, got, c.want)
		}
	}
}

func TestValidateHierarchyRejectsDanglingParent(t *testing.T) {
	doc := IndexedDocument{
		Hierarchy: Hierarchy{Root: "b0", Children: map[string][]string{}},
		Blocks: []Block{
			{ID: "b0", Type: TypeDocument},
			{ID: "b1", Type: TypeParagraph, Parent: "b9"},
		},
	}
	if err := ValidateHierarchy(&doc); err == nil {
		t.Error("expected error for dangling parent reference")
	}
}

func TestValidateHierarchyRejectsAsymmetry(t *testing.T) {
	// b1 claims b0 as parent, but b0 does not list b1 as a child.
	doc := IndexedDocument{
		Hierarchy: Hierarchy{Root: "b0", Children: map[string][]string{}},
		Blocks: []Block{
			{ID: "b0", Type: TypeDocument},
			{ID: "b1", Type: TypeParagraph, Parent: "b0"},
		},
	}
	if err := ValidateHierarchy(&doc); err == nil {
		t.Error("expected error for asymmetric parent/child relation")
	}
}

func TestValidateHierarchyRejectsSecondRoot(t *testing.T) {
	doc := IndexedDocument{
		Hierarchy: Hierarchy{Root: "b0", Children: map[string][]string{}},
		Blocks: []Block{
			{ID: "b0", Type: TypeDocument},
			{ID: "b1", Type: TypeDocument},
		},
	}
	if err := ValidateHierarchy(&doc); err == nil {
		t.Error("expected error for duplicate document block")
	}
}
