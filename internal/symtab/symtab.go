// Package symtab is the generic name-to-engine binding the driver uses to
// track named forwarding databases. spec.md treats the underlying
// string-keyed map as a given collaborator whose mechanics are not
// specified; this wraps github.com/armon/go-radix, whose lexicographic
// Walk order matches the iter(table, fn) contract the driver relies on at
// shutdown.
package symtab

import (
	radix "github.com/armon/go-radix"

	"github.com/kvahouse/telefwd/internal/ptree"
)

// Table binds database names to forwarding-engine handles.
type Table struct {
	tree *radix.Tree
}

// New returns an empty table.
func New() *Table {
	return &Table{tree: radix.New()}
}

// Add binds name to engine. Returns false if name is already bound.
func (t *Table) Add(name string, engine *ptree.Engine) bool {
	if _, exists := t.tree.Get(name); exists {
		return false
	}
	t.tree.Insert(name, engine)
	return true
}

// Get returns the engine bound to name, if any.
func (t *Table) Get(name string) (*ptree.Engine, bool) {
	v, ok := t.tree.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*ptree.Engine), true
}

// Remove unbinds name. A no-op if name is not bound.
func (t *Table) Remove(name string) {
	t.tree.Delete(name)
}

// Iter invokes fn on every bound engine in lexicographic name order.
func (t *Table) Iter(fn func(name string, engine *ptree.Engine)) {
	t.tree.Walk(func(name string, v interface{}) bool {
		fn(name, v.(*ptree.Engine))
		return false
	})
}
