package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/blockdex/internal/block"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := OpenFile(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	sq, err := OpenSQLite(filepath.Join(dir, "store.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		fs.Close()
		sq.Close()
	})
	return map[string]Store{"file": fs, "sqlite": sq}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, st := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			projects := map[string]block.Project{
				"p1": {ID: "p1", Name: "demo", Path: "/tmp/demo", Indexed: true},
			}
			if err := st.Set(KeyProjects, projects); err != nil {
				t.Fatalf("Set: %v", err)
			}

			var got map[string]block.Project
			if err := st.Get(KeyProjects, &got); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got["p1"].Name != "demo" || !got["p1"].Indexed {
				t.Errorf("round trip mismatch: %+v", got["p1"])
			}

			if !st.Has(KeyProjects) {
				t.Error("Has should report the stored key")
			}
			if st.Has("nope") {
				t.Error("Has should not report a missing key")
			}

			var missing string
			if err := st.Get("nope", &missing); !errors.Is(err, ErrNotFound) {
				t.Errorf("missing key: got %v, want ErrNotFound", err)
			}

			if err := st.Delete(KeyProjects); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if st.Has(KeyProjects) {
				t.Error("key should be gone after Delete")
			}
		})
	}
}

func TestStoreDottedKeys(t *testing.T) {
	for name, st := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Set(OverallSummaryKey("p1"), "a small project"); err != nil {
				t.Fatalf("Set: %v", err)
			}

			var summary string
			if err := st.Get("summaries.p1.overall", &summary); err != nil {
				t.Fatalf("Get dotted key: %v", err)
			}
			if summary != "a small project" {
				t.Errorf("summary: got %q", summary)
			}

			// Deleting the subtree removes the leaf too.
			if err := st.Delete(SummariesKey("p1")); err != nil {
				t.Fatalf("Delete subtree: %v", err)
			}
			if st.Has(OverallSummaryKey("p1")) {
				t.Error("leaf should be gone after subtree delete")
			}
		})
	}
}

func TestStoreSetReplacesMapValues(t *testing.T) {
	for name, st := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			before := map[string]block.Project{
				"p1": {ID: "p1", Name: "keep"},
				"p2": {ID: "p2", Name: "drop"},
			}
			if err := st.Set(KeyProjects, before); err != nil {
				t.Fatalf("Set: %v", err)
			}

			// Writing a map with an entry removed must not merge the
			// old entry back in.
			after := map[string]block.Project{
				"p1": {ID: "p1", Name: "keep"},
			}
			if err := st.Set(KeyProjects, after); err != nil {
				t.Fatalf("Set: %v", err)
			}

			var got map[string]block.Project
			if err := st.Get(KeyProjects, &got); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if len(got) != 1 {
				t.Errorf("Set did not replace: %+v", got)
			}
			if _, ok := got["p2"]; ok {
				t.Error("removed entry resurrected by Set")
			}
		})
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	st, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := st.Set(KeyCurrentProject, "p1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	st.Close()

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var id string
	if err := reopened.Get(KeyCurrentProject, &id); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if id != "p1" {
		t.Errorf("current project after reopen: got %q, want p1", id)
	}
}

func TestStoreDocumentCollection(t *testing.T) {
	for name, st := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			docs := []block.IndexedDocument{
				{
					Path:  "README.md",
					Title: "Readme",
					Blocks: []block.Block{
						{ID: "b0", Type: block.TypeDocument, Content: "# Readme\n"},
					},
					Hierarchy: block.Hierarchy{Root: "b0", Children: map[string][]string{"b0": nil}},
				},
			}
			if err := st.Set(BlockIndexKey("p1"), docs); err != nil {
				t.Fatalf("Set: %v", err)
			}

			var got []block.IndexedDocument
			if err := st.Get(BlockIndexKey("p1"), &got); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if len(got) != 1 || got[0].Path != "README.md" || len(got[0].Blocks) != 1 {
				t.Errorf("document collection mismatch: %+v", got)
			}
			if got[0].Hierarchy.Root != "b0" {
				t.Errorf("hierarchy root: got %q, want b0", got[0].Hierarchy.Root)
			}
		})
	}
}
