package ptree

import "github.com/kvahouse/telefwd/internal/alloc"

// sorter is a digit tree used only to deduplicate and lexicographically
// order the result set of Engine.Reverse. Its nodes never take part in a
// redirect ring; fullWord alone marks membership in the result set.
type sorter struct {
	root  *Node
	alloc alloc.Allocator
}

func newSorter(a alloc.Allocator, key string) (*sorter, bool) {
	root := newRoot()
	s := &sorter{root: root, alloc: a}
	if !s.insert(key) {
		return nil, false
	}
	return s, true
}

// insert adds word to the sorter if not already present, returning false
// only on allocation failure.
func (s *sorter) insert(word string) bool {
	node, ok := addKey(s.alloc, s.root, word)
	if !ok {
		return false
	}
	if node.fullWord == nil {
		w := word
		node.fullWord = &w
	}
	return true
}

// collect returns every inserted word in lexicographic order: pre-order
// traversal, root first, then children left to right by first digit.
func (s *sorter) collect() []string {
	var out []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n.fullWord != nil {
			out = append(out, *n.fullWord)
		}
		for c := n.firstChild; c != n; c = c.nextSibling {
			walk(c)
		}
	}
	walk(s.root)
	return out
}
