package inw

import "strings"

// Tree indexes a set of slash-separated paths for quick membership
// lookups. It is the generalised form of gitp4transfer's per-branch
// directory tree, repurposed here to let the cache scavenger test path
// membership without running nested loops over every commit.
type Tree struct {
	name     string
	path     string
	isFile   bool
	children []*Tree
}

// NewTree creates an empty root node.
func NewTree() *Tree {
	return &Tree{}
}

// AddPath records a file at the given slash-separated path.
func (t *Tree) AddPath(path string) {
	t.addSub(path, path)
}

func (t *Tree) addSub(fullPath, subPath string) {
	parts := strings.SplitN(subPath, "/", 2)
	if len(parts) == 1 {
		for _, c := range t.children {
			if c.name == parts[0] {
				return
			}
		}
		t.children = append(t.children, &Tree{name: parts[0], isFile: true, path: fullPath})
		return
	}
	for _, c := range t.children {
		if c.name == parts[0] {
			c.addSub(fullPath, parts[1])
			return
		}
	}
	child := &Tree{name: parts[0]}
	t.children = append(t.children, child)
	child.addSub(fullPath, parts[1])
}

// RemovePath removes a previously added file path, if present.
func (t *Tree) RemovePath(path string) {
	t.removeSub(path)
}

func (t *Tree) removeSub(subPath string) {
	parts := strings.SplitN(subPath, "/", 2)
	if len(parts) == 1 {
		for i, c := range t.children {
			if c.name == parts[0] {
				t.children = append(t.children[:i], t.children[i+1:]...)
				return
			}
		}
		return
	}
	for _, c := range t.children {
		if c.name == parts[0] {
			c.removeSub(parts[1])
			return
		}
	}
}

// Contains reports whether path was previously recorded via AddPath.
func (t *Tree) Contains(path string) bool {
	parts := strings.Split(path, "/")
	node := t
	for i, part := range parts {
		found := false
		for _, c := range node.children {
			if c.name == part {
				node = c
				found = true
				break
			}
		}
		if !found {
			return false
		}
		if i == len(parts)-1 {
			return node.isFile
		}
	}
	return false
}
