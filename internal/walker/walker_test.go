package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func collectRelPaths(t *testing.T, config Config) map[string]bool {
	t.Helper()
	files, err := Collect(config)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := make(map[string]bool, len(files))
	for _, f := range files {
		got[f.RelPath] = true
	}
	return got
}

func TestCollectAppliesDefaultFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", []byte("# readme\n"))
	writeFile(t, root, "main.go", []byte("package main\n"))
	writeFile(t, root, "sub/notes.md", []byte("notes\n"))
	writeFile(t, root, "data.csv", []byte("a,b\n"))                    // extension not included
	writeFile(t, root, "node_modules/pkg/x.md", []byte("dep\n"))      // excluded dir
	writeFile(t, root, "binary.md", []byte{'h', 'i', 0x00, 'x'})      // NUL byte
	writeFile(t, root, "app.min.js", []byte("var a=1;\n"))            // default exclude glob
	writeFile(t, root, "ignored.md", []byte("secret\n"))
	writeFile(t, root, ".gitignore", []byte("ignored.md\n"))

	got := collectRelPaths(t, Config{RootDir: root})

	want := []string{"README.md", "main.go", "sub/notes.md"}
	for _, w := range want {
		if !got[w] {
			t.Errorf("expected %s in results, got %v", w, got)
		}
	}
	for _, skip := range []string{"data.csv", "node_modules/pkg/x.md", "binary.md", "app.min.js", "ignored.md"} {
		if got[skip] {
			t.Errorf("%s should have been filtered out", skip)
		}
	}
}

func TestCollectHonorsExplicitPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", []byte("a\n"))
	writeFile(t, root, "b.go", []byte("package b\n"))
	writeFile(t, root, "skip/c.md", []byte("c\n"))

	got := collectRelPaths(t, Config{
		RootDir: root,
		Include: []string{"**/*.md"},
		Exclude: []string{"skip/**"},
	})

	if !got["a.md"] {
		t.Errorf("a.md should be included, got %v", got)
	}
	if got["b.go"] {
		t.Error("b.go should not match an md-only include")
	}
	if got["skip/c.md"] {
		t.Error("skip/c.md should be excluded")
	}
}

func TestCollectSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.md", []byte("ok\n"))
	writeFile(t, root, "large.md", make([]byte, 64))

	got := collectRelPaths(t, Config{RootDir: root, MaxFileSize: 16})

	if !got["small.md"] {
		t.Error("small.md should pass the size filter")
	}
	if got["large.md"] {
		t.Error("large.md exceeds MaxFileSize and should be skipped")
	}
}
