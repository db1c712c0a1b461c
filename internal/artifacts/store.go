package artifacts

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/studiowebux/cloudterm/internal/types"
)

// NodeType distinguishes files from folders.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// Node is one artifact in the parent-pointer tree. A node never lists
// its own children; children are always derived by querying the store
// for nodes whose Parent equals this node's ID.
type Node struct {
	ID       string
	Name     string
	Type     NodeType
	Parent   string // empty means root
	Modified bool
	Content  string // file payload; folders keep it empty
}

// Store holds artifact nodes keyed by id with thread safety. Expand/
// collapse and selection state live elsewhere (ephemeral UI state);
// the store is the single source of truth for the nodes themselves.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]Node
	order []string // insertion order for stable listings
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nodes: make(map[string]Node)}
}

// Add inserts a node. The id must be unique and the parent, when set,
// must be an existing folder.
func (s *Store) Add(node Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if node.ID == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if _, exists := s.nodes[node.ID]; exists {
		return fmt.Errorf("node %q already exists", node.ID)
	}
	if node.Parent != "" {
		parent, ok := s.nodes[node.Parent]
		if !ok {
			return fmt.Errorf("parent %q does not exist", node.Parent)
		}
		if parent.Type != NodeFolder {
			return fmt.Errorf("parent %q is not a folder", node.Parent)
		}
	}

	s.nodes[node.ID] = node
	s.order = append(s.order, node.ID)
	return nil
}

// Get returns a node by id.
func (s *Store) Get(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	return node, ok
}

// Children returns all nodes whose parent is parentID, folders first,
// each group in insertion order. Computed on every call so it always
// reflects the latest state; never cached on the node.
func (s *Store) Children(parentID string) []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.childrenLocked(parentID)
}

// childrenLocked derives children (must be called with lock held)
func (s *Store) childrenLocked(parentID string) []Node {
	var out []Node
	for _, id := range s.order {
		node := s.nodes[id]
		if node.Parent == parentID {
			out = append(out, node)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type == NodeFolder
		}
		return false
	})
	return out
}

// Roots returns the top-level nodes.
func (s *Store) Roots() []Node {
	return s.Children("")
}

// Delete removes a node and, via the derived parent relation, its
// entire subtree. Returns the number of nodes removed.
func (s *Store) Delete(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return 0
	}

	doomed := []string{id}
	for i := 0; i < len(doomed); i++ {
		for _, child := range s.childrenLocked(doomed[i]) {
			doomed = append(doomed, child.ID)
		}
	}

	for _, d := range doomed {
		delete(s.nodes, d)
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.nodes[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return len(doomed)
}

// SetModified flips a node's modified flag. External edit events set
// it; save/export clears it.
func (s *Store) SetModified(id string, modified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node, ok := s.nodes[id]; ok {
		node.Modified = modified
		s.nodes[id] = node
	}
}

// SetContent replaces a file node's content and marks it modified.
func (s *Store) SetContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node, ok := s.nodes[id]; ok && node.Type == NodeFile {
		node.Content = content
		node.Modified = true
		s.nodes[id] = node
	}
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Path returns the slash-joined path of a node from its root. The
// parent chain is bounded by the store size, so a corrupt chain can
// never loop forever.
func (s *Store) Path(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []string
	current := id
	for depth := 0; depth <= len(s.nodes); depth++ {
		node, ok := s.nodes[current]
		if !ok {
			break
		}
		parts = append([]string{node.Name}, parts...)
		if node.Parent == "" {
			break
		}
		current = node.Parent
	}
	return strings.Join(parts, "/")
}

// FileMap flattens all file nodes into a path -> content map, the
// shape the sync client uploads.
func (s *Store) FileMap() types.FileMap {
	s.mu.RLock()
	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.nodes[id].Type == NodeFile {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()

	files := make(types.FileMap, len(ids))
	for _, id := range ids {
		node, _ := s.Get(id)
		files[s.Path(id)] = node.Content
	}
	return files
}

// FromFileMap builds a store from a path -> content map, creating
// folder nodes for intermediate path segments. Node ids are the
// slash-joined paths, which are unique by construction.
func FromFileMap(files types.FileMap) *Store {
	s := NewStore()

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		segments := strings.Split(path, "/")
		parent := ""
		for i, segment := range segments {
			if segment == "" {
				continue
			}
			id := strings.Join(segments[:i+1], "/")
			if i == len(segments)-1 {
				_ = s.Add(Node{ID: id, Name: segment, Type: NodeFile, Parent: parent, Content: files[path]})
			} else {
				if _, exists := s.Get(id); !exists {
					_ = s.Add(Node{ID: id, Name: segment, Type: NodeFolder, Parent: parent})
				}
			}
			parent = id
		}
	}
	return s
}
