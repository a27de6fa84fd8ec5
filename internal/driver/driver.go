// Package driver runs the command-language read-eval loop: it owns the
// symbol table of named forwarding engines, tracks the currently selected
// one, and dispatches each recognized command in turn. The first error of
// any kind ends the session with a single diagnostic.
package driver

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/kvahouse/telefwd/internal/alloc"
	"github.com/kvahouse/telefwd/internal/command"
	"github.com/kvahouse/telefwd/internal/ptree"
	"github.com/kvahouse/telefwd/internal/scanner"
	"github.com/kvahouse/telefwd/internal/symtab"
)

// Driver holds the running state of a command-language session: the bound
// databases and whichever one is currently selected.
type Driver struct {
	table   *symtab.Table
	current *ptree.Engine

	alloc alloc.Allocator
	out   *bufio.Writer
	errOut io.Writer
	log   *log.Logger
}

// New returns a driver ready to Run a session. a is the allocator shared by
// every engine the driver creates; pass alloc.Unlimited{} in production.
func New(a alloc.Allocator, out io.Writer, errOut io.Writer, logger *log.Logger) *Driver {
	return &Driver{
		table:  symtab.New(),
		alloc:  a,
		out:    bufio.NewWriter(out),
		errOut: errOut,
		log:    logger,
	}
}

// Run reads and executes commands from in until END or a fatal error, then
// reports a single diagnostic on the error path and returns the process
// exit code (0 on success, 1 on error).
func (d *Driver) Run(in io.Reader) int {
	s := scanner.New(in, d.alloc)
	defer d.shutdown()

	for {
		cmd := command.Next(s)
		switch cmd.Type {
		case command.End:
			d.out.Flush()
			return 0

		case command.OOMError:
			d.reportOOM()
			return 1

		case command.SyntaxError:
			if cmd.SawEOF {
				d.reportEOF()
			} else {
				d.reportOffset(cmd.OpOffset)
			}
			return 1

		case command.Switch:
			if !d.doSwitch(cmd.Operand1) {
				d.reportOp(cmd.Type, cmd.OpOffset)
				return 1
			}

		case command.Delete:
			if !d.doDelete(cmd.Operand1) {
				d.reportOp(cmd.Type, cmd.OpOffset)
				return 1
			}

		default:
			if d.current == nil {
				d.reportOp(cmd.Type, cmd.OpOffset)
				return 1
			}
			ok, oom := d.dispatch(cmd)
			if oom {
				d.reportOOM()
				return 1
			}
			if !ok {
				d.reportOp(cmd.Type, cmd.OpOffset)
				return 1
			}
		}
	}
}

// dispatch executes ADD/REMOVE/GET/REV against the current engine, which
// the caller has already confirmed is bound. oom is true exactly when the
// failure traces back to an allocator call, regardless of which operation
// triggered it, per the taxonomy's unconditional ERROR OOM rule.
func (d *Driver) dispatch(cmd command.Command) (ok bool, oom bool) {
	switch cmd.Type {
	case command.Add:
		ok, err := d.current.AddForward(cmd.Operand1, cmd.Operand2)
		if err != nil {
			return false, true
		}
		return ok, false

	case command.Remove:
		d.current.RemoveForward(cmd.Operand1)
		return true, false

	case command.Get:
		result := d.current.Get(cmd.Operand1)
		if len(result) == 0 {
			return false, false
		}
		fmt.Fprintln(d.out, result[0])
		return true, false

	case command.Rev:
		result, ok := d.current.Reverse(cmd.Operand1)
		if !ok {
			return false, true
		}
		if len(result) == 0 {
			return false, false
		}
		for _, s := range result {
			fmt.Fprintln(d.out, s)
		}
		return true, false
	}
	return false, false
}

// doSwitch selects the engine bound to name, creating and binding a fresh
// one if name is unbound. Reports false only if the symbol table refuses
// the new binding; neither step consults the allocator.
func (d *Driver) doSwitch(name string) bool {
	if e, ok := d.table.Get(name); ok {
		d.current = e
		return true
	}
	e := ptree.NewEngine(d.alloc)
	if !d.table.Add(name, e) {
		return false
	}
	d.current = e
	return true
}

// doDelete unbinds name, clearing current if it pointed at the engine just
// removed. Reports false if name is not bound.
func (d *Driver) doDelete(name string) bool {
	target, ok := d.table.Get(name)
	if !ok {
		return false
	}
	if target == d.current {
		d.current = nil
	}
	d.table.Remove(name)
	return true
}

func (d *Driver) reportOOM() {
	d.out.Flush()
	fmt.Fprintln(d.errOut, "ERROR OOM")
}

func (d *Driver) reportEOF() {
	d.out.Flush()
	fmt.Fprintln(d.errOut, "ERROR EOF")
}

func (d *Driver) reportOffset(offset int) {
	d.out.Flush()
	fmt.Fprintf(d.errOut, "ERROR %d\n", offset)
}

func (d *Driver) reportOp(t command.Type, offset int) {
	d.out.Flush()
	fmt.Fprintf(d.errOut, "ERROR %s %d\n", t.OpName(), offset)
}

// shutdown walks every bound engine in lexicographic name order, mirroring
// the symbol table's iter(table, fn) shutdown contract. Go's garbage
// collector reclaims each engine, so this never logs on the ordinary path:
// log is reserved for non-protocol diagnostics a future fallible teardown
// step might need, not for routine per-database bookkeeping.
func (d *Driver) shutdown() {
	d.table.Iter(func(name string, _ *ptree.Engine) {})
}
