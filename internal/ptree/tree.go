package ptree

import "github.com/kvahouse/telefwd/internal/alloc"

// addKey inserts key into the tree rooted at root, returning the (possibly
// freshly created) vertex whose path concatenation equals key.
func addKey(a alloc.Allocator, root *Node, key string) (*Node, bool) {
	child, ok := addChild(a, root, key)
	if !ok {
		return nil, false
	}

	i := commonPrefixLen(key, child.label)
	switch {
	case i == len(key) && i == len(child.label):
		return child, true
	case i == len(key): // key fully consumed, label longer: split child
		return addAbove(a, child, i)
	case i == len(child.label): // label fully consumed, key longer: recurse
		return addKey(a, child, key[i:])
	default: // both have leftover: split, then add the new branch
		fork, ok := addAbove(a, child, i)
		if !ok {
			return nil, false
		}
		return addChild(a, fork, key[i:])
	}
}

// getBranch returns the shallowest vertex whose path has key as a prefix
// (the root of the subtree of keys beginning with key); key may end partway
// through that vertex's label. Returns nil if key leaves the tree's paths.
func getBranch(root *Node, key string) *Node {
	child := selectChild(root, key)
	if child == nil {
		return nil
	}
	i := commonPrefixLen(key, child.label)
	switch {
	case i == len(key):
		return child
	case i == len(child.label):
		return getBranch(child, key[i:])
	default:
		return nil
	}
}

// getExact returns the vertex whose path concatenation equals key exactly,
// unlike getBranch, which also matches when key is merely a prefix of a
// longer vertex path. Returns nil if no vertex's path equals key.
func getExact(root *Node, key string) *Node {
	child := selectChild(root, key)
	if child == nil {
		return nil
	}
	i := commonPrefixLen(key, child.label)
	switch {
	case i == len(key) && i == len(child.label):
		return child
	case i == len(child.label):
		return getExact(child, key[i:])
	default:
		return nil
	}
}

// detachSubtree unlinks root from its parent's sibling ring without
// attempting to merge a remaining single child into the gap (the whole
// subtree is about to be discarded).
func detachSubtree(root *Node) {
	spliceOutLeft(root, root.nextSibling)
	spliceOutRight(root, root.prevSibling)
}
