// Package ptree implements the phone-forwarding radix-tree engine: a pair
// of digit trees (from, to) linked by redirect rings, answering
// longest-prefix forward lookup and lexicographic reverse lookup.
package ptree

import (
	"errors"

	"github.com/kvahouse/telefwd/internal/alloc"
)

// ErrOOM distinguishes an allocation failure from an ordinary semantic
// rejection (invalid input, num1 == num2), so that callers can surface the
// former as an unconditional OOM diagnostic regardless of which operation
// triggered it.
var ErrOOM = errors.New("ptree: allocation failed")

// Engine owns a from-tree and a to-tree and the redirect rings overlaid on
// them. The zero value is not usable; construct with NewEngine.
type Engine struct {
	from, to *Node
	alloc    alloc.Allocator
}

// NewEngine returns a fresh engine with empty from/to trees, using a the
// given allocator for every internal allocation. Pass alloc.Unlimited{} in
// production.
func NewEngine(a alloc.Allocator) *Engine {
	return &Engine{from: newRoot(), to: newRoot(), alloc: a}
}

// AddForward ensures that any key with num1 as a prefix is, under forward
// lookup, rewritten with num1 replaced by num2. Returns (false, nil) without
// modifying the engine if num1 or num2 is not a valid digit string, or if
// num1 == num2. Returns (false, ErrOOM) on allocation failure.
func (e *Engine) AddForward(num1, num2 string) (bool, error) {
	if !IsNumber(num1) || !IsNumber(num2) || num1 == num2 {
		return false, nil
	}

	key1, ok := addKey(e.alloc, e.from, num1)
	if !ok {
		return false, ErrOOM
	}
	key2, ok := addKey(e.alloc, e.to, num2)
	if !ok {
		return false, ErrOOM
	}
	if key1.fwd == key2 {
		return true, nil // idempotent: already forwarding to the same target
	}

	if key1.fullWord == nil {
		w := num1
		key1.fullWord = &w
	}
	if key2.fullWord == nil {
		w := num2
		key2.fullWord = &w
	}

	oldFwd := key1.fwd
	if oldFwd != nil {
		unlinkRing(key1)
	}
	linkRing(key1, key2)
	if oldFwd != nil {
		cleanup(e.alloc, oldFwd)
	}
	return true, nil
}

// RemoveForward erases every redirect whose source has prefix as a prefix.
// A prefix that is not a valid digit string is a no-op.
func (e *Engine) RemoveForward(prefix string) {
	if !IsNumber(prefix) {
		return
	}
	root := getBranch(e.from, prefix)
	if root == nil {
		return
	}
	detachSubtree(root)
	removeBranchRec(e.alloc, root)
}

// removeBranchRec cascades ring teardown and cleanup of the to-side targets
// through an entire detached from-subtree before it is discarded.
func removeBranchRec(a alloc.Allocator, n *Node) {
	if n.fwd != nil {
		target := n.fwd
		unlinkRing(n)
		cleanup(a, target)
	}
	for c := n.firstChild; c != n; {
		next := c.nextSibling
		removeBranchRec(a, c)
		c = next
	}
}

// Get returns a one-element slice holding the longest-prefix rewrite of
// key: among all from-vertices whose path is a prefix of key, the one with
// the longest path is used to rewrite key's matching prefix. If no
// from-vertex matches, key itself is returned. An invalid key yields an
// empty (not nil-meaning-error) slice.
func (e *Engine) Get(key string) []string {
	if !IsNumber(key) {
		return nil
	}

	node := e.from
	bestPrefix := ""
	bestSuffix := key
	remaining := key
	for {
		if node.fwd != nil {
			bestPrefix = *node.fwd.fullWord
			bestSuffix = remaining
		}
		if remaining == "" {
			break
		}
		child := selectChild(node, remaining)
		if child == nil {
			break
		}
		i := commonPrefixLen(remaining, child.label)
		if i != len(child.label) {
			break
		}
		remaining = remaining[i:]
		node = child
	}
	return []string{bestPrefix + bestSuffix}
}

// Reverse returns a lexicographically ordered, deduplicated list holding key
// itself plus, for every forward whose target is a prefix of key, that
// forward's source followed by the rest of key. Candidates are not checked
// against Get: one that a longer forward rewrites elsewhere is still listed.
// An invalid key yields an empty slice; allocation failure yields nil with
// ok == false.
func (e *Engine) Reverse(key string) ([]string, bool) {
	if !IsNumber(key) {
		return nil, true
	}

	acc, ok := newSorter(e.alloc, key)
	if !ok {
		return nil, false
	}
	if !reverseWalk(acc, e.to, key) {
		return nil, false
	}
	return acc.collect(), true
}

func reverseWalk(acc *sorter, node *Node, key string) bool {
	for r := node.ringNext; r != node; r = r.ringNext {
		if !acc.insert(*r.fullWord + key) {
			return false
		}
	}

	if key == "" {
		return true
	}
	child := selectChild(node, key)
	if child == nil {
		return true
	}
	i := commonPrefixLen(key, child.label)
	if i != len(child.label) {
		return true
	}
	return reverseWalk(acc, child, key[i:])
}

// NonTrivialCount returns the number of digit strings of length exactly
// length, drawn from the distinct digits of charset, that are rewritten
// non-trivially by the current forwards (i.e. have a non-empty matching
// from-prefix). Duplicate characters in charset are absorbed: only the set
// of distinct digits matters.
func (e *Engine) NonTrivialCount(charset string, length int) int {
	if charset == "" || length < 0 {
		return 0
	}
	set := charsetOf(charset)
	size := popcount(set)
	return nonTrivialCountRec(e.from, set, size, length)
}

func nonTrivialCountRec(node *Node, set uint16, setSize, length int) int {
	if node.isInUseRing() {
		return intPow(setSize, length)
	}
	total := 0
	for c := node.firstChild; c != node; c = c.nextSibling {
		if isSubset(c.charset, set) && c.labelLen <= length {
			total += nonTrivialCountRec(c, set, setSize, length-c.labelLen)
		}
	}
	return total
}

func intPow(base, exp int) int {
	result := 1
	for exp > 0 {
		if exp%2 == 1 {
			result *= base
		}
		base *= base
		exp /= 2
	}
	return result
}
