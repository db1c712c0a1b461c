package tui

import (
	"testing"

	"github.com/studiowebux/cloudterm/internal/artifacts"
)

func newTestTree(t *testing.T) (*artifacts.Store, *TreeState) {
	t.Helper()
	store := artifacts.NewStore()
	nodes := []artifacts.Node{
		{ID: "src", Name: "src", Type: artifacts.NodeFolder},
		{ID: "src/app.go", Name: "app.go", Type: artifacts.NodeFile, Parent: "src", Content: "package app"},
		{ID: "src/util.go", Name: "util.go", Type: artifacts.NodeFile, Parent: "src"},
		{ID: "README.md", Name: "README.md", Type: artifacts.NodeFile},
	}
	for _, n := range nodes {
		if err := store.Add(n); err != nil {
			t.Fatalf("Failed to add %s: %v", n.ID, err)
		}
	}
	return store, NewTreeState(store)
}

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.ID
	}
	return out
}

func TestVisible_CollapsedShowsRootsOnly(t *testing.T) {
	_, tree := newTestTree(t)

	rows := rowIDs(tree.Visible())
	if len(rows) != 2 {
		t.Fatalf("Expected 2 visible rows, got %v", rows)
	}
	// Folders first
	if rows[0] != "src" || rows[1] != "README.md" {
		t.Errorf("Expected [src README.md], got %v", rows)
	}
}

func TestVisible_ExpandRevealsChildren(t *testing.T) {
	_, tree := newTestTree(t)

	tree.Toggle() // cursor starts on src
	rows := tree.Visible()
	if len(rows) != 4 {
		t.Fatalf("Expected 4 visible rows, got %v", rowIDs(rows))
	}
	if rows[1].Node.ID != "src/app.go" || rows[1].Depth != 1 {
		t.Errorf("Expected src/app.go at depth 1, got %+v", rows[1])
	}

	tree.Toggle() // collapse again
	if len(tree.Visible()) != 2 {
		t.Error("Expected children hidden after collapse")
	}
}

func TestVisible_ReflectsStoreChanges(t *testing.T) {
	store, tree := newTestTree(t)

	tree.Toggle()
	before := len(tree.Visible())

	_ = store.Add(artifacts.Node{ID: "src/new.go", Name: "new.go", Type: artifacts.NodeFile, Parent: "src"})
	if len(tree.Visible()) != before+1 {
		t.Error("Expected new node visible without invalidation")
	}
}

func TestToggle_FileIsNoop(t *testing.T) {
	_, tree := newTestTree(t)

	tree.MoveDown() // README.md
	tree.Toggle()
	if tree.Expanded("README.md") {
		t.Error("Files must not be expandable")
	}
}

func TestOpen_FileOnly(t *testing.T) {
	_, tree := newTestTree(t)

	// Opening a folder toggles instead of activating
	if _, ok := tree.Open(); ok {
		t.Error("Expected folder open to report no active file")
	}
	if tree.ActiveID() != "" {
		t.Errorf("Expected no active file, got %q", tree.ActiveID())
	}

	tree.MoveDown() // src/app.go (src now expanded)
	node, ok := tree.Open()
	if !ok || node.ID != "src/app.go" {
		t.Fatalf("Expected src/app.go opened, got %+v (%v)", node, ok)
	}
	if tree.ActiveID() != "src/app.go" {
		t.Errorf("Expected active file recorded, got %q", tree.ActiveID())
	}
}

func TestActiveID_ClearedWhenDeleted(t *testing.T) {
	store, tree := newTestTree(t)

	tree.Toggle()
	tree.MoveDown()
	_, _ = tree.Open()

	store.Delete("src")
	if tree.ActiveID() != "" {
		t.Error("Expected active id cleared after node deletion")
	}
}

func TestCursor_ClampedAfterCollapse(t *testing.T) {
	_, tree := newTestTree(t)

	tree.Toggle()
	tree.MoveDown()
	tree.MoveDown()
	tree.MoveDown() // README.md, last of 4

	// Collapse underneath the cursor; it must land inside the shrunk list
	tree.expanded["src"] = false
	if tree.Cursor() >= len(tree.Visible()) {
		t.Errorf("Cursor %d out of range for %d rows", tree.Cursor(), len(tree.Visible()))
	}
}

func TestMove_Bounds(t *testing.T) {
	_, tree := newTestTree(t)

	tree.MoveUp()
	if tree.Cursor() != 0 {
		t.Error("Expected cursor pinned at top")
	}

	for i := 0; i < 10; i++ {
		tree.MoveDown()
	}
	if tree.Cursor() != 1 {
		t.Errorf("Expected cursor pinned at last row, got %d", tree.Cursor())
	}
}
