package tui

import "github.com/studiowebux/cloudterm/internal/artifacts"

// Row is one visible line of the artifact tree.
type Row struct {
	Node  artifacts.Node
	Depth int
}

// TreeState holds the ephemeral view state of the artifact panel:
// cursor position, which folders are expanded and which file is open.
// The node data itself lives in the store; rows are derived on demand
// so structural changes show up without any invalidation step.
type TreeState struct {
	store    *artifacts.Store
	expanded map[string]bool
	cursor   int
	activeID string
}

// NewTreeState creates view state over an artifact store.
func NewTreeState(store *artifacts.Store) *TreeState {
	return &TreeState{
		store:    store,
		expanded: make(map[string]bool),
	}
}

// Visible returns the rows currently on screen: roots plus the
// children of every expanded folder, depth-first.
func (t *TreeState) Visible() []Row {
	var rows []Row
	var walk func(parentID string, depth int)
	walk = func(parentID string, depth int) {
		for _, node := range t.store.Children(parentID) {
			rows = append(rows, Row{Node: node, Depth: depth})
			if node.Type == artifacts.NodeFolder && t.expanded[node.ID] {
				walk(node.ID, depth+1)
			}
		}
	}
	walk("", 0)
	return rows
}

// Current returns the node under the cursor.
func (t *TreeState) Current() (artifacts.Node, bool) {
	rows := t.Visible()
	if len(rows) == 0 {
		return artifacts.Node{}, false
	}
	t.clamp(len(rows))
	return rows[t.cursor].Node, true
}

// Cursor returns the cursor index into Visible.
func (t *TreeState) Cursor() int {
	t.clamp(len(t.Visible()))
	return t.cursor
}

// MoveUp moves the cursor one row up.
func (t *TreeState) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// MoveDown moves the cursor one row down.
func (t *TreeState) MoveDown() {
	if t.cursor < len(t.Visible())-1 {
		t.cursor++
	}
}

// Toggle flips the expanded state of the folder under the cursor.
// Files are not expandable; toggling one is a no-op.
func (t *TreeState) Toggle() {
	node, ok := t.Current()
	if !ok || node.Type != artifacts.NodeFolder {
		return
	}
	t.expanded[node.ID] = !t.expanded[node.ID]
	t.clamp(len(t.Visible()))
}

// Open marks the file under the cursor as the active file. Folders
// cannot be active; opening one toggles it instead.
func (t *TreeState) Open() (artifacts.Node, bool) {
	node, ok := t.Current()
	if !ok {
		return artifacts.Node{}, false
	}
	if node.Type == artifacts.NodeFolder {
		t.Toggle()
		return artifacts.Node{}, false
	}
	t.activeID = node.ID
	return node, true
}

// ActiveID returns the id of the open file, empty when none.
func (t *TreeState) ActiveID() string {
	if t.activeID != "" {
		if _, ok := t.store.Get(t.activeID); !ok {
			t.activeID = ""
		}
	}
	return t.activeID
}

// Expanded reports whether a folder is expanded.
func (t *TreeState) Expanded(id string) bool {
	return t.expanded[id]
}

// clamp keeps the cursor inside the visible row range
func (t *TreeState) clamp(rows int) {
	if rows == 0 {
		t.cursor = 0
		return
	}
	if t.cursor >= rows {
		t.cursor = rows - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}
