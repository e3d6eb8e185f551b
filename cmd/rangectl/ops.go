package main

import (
	"strconv"
	"strings"

	"github.com/henderiw/idxrange/pkg/rangeset"
	"github.com/pkg/errors"
)

type opKind string

const (
	opAdd    opKind = "add"
	opRemove opKind = "remove"
	opPop    opKind = "pop"
	opShift  opKind = "shift"
	opPrune  opKind = "prune"
)

// operation is one step of an eval run, written as "kind:arg", e.g.
// "add:1-5", "remove:[[2,3]]", "pop:4" or "prune".
type operation struct {
	kind  opKind
	in    rangeset.Input
	count int64
}

func parseOperation(s string) (operation, error) {
	kind, arg, _ := strings.Cut(s, ":")
	op := operation{kind: opKind(strings.ToLower(kind))}
	switch op.kind {
	case opAdd, opRemove:
		in, err := parseInput(arg)
		if err != nil {
			return op, errors.Wrapf(err, "operation %q", s)
		}
		op.in = in
	case opPop, opShift:
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return op, errors.Wrapf(rangeset.ErrInvalidArgument, "operation %q: count must be an integer", s)
		}
		op.count = n
	case opPrune:
		if arg != "" {
			return op, errors.Errorf("operation %q: prune takes no argument", s)
		}
	default:
		return op, errors.Errorf("unknown operation %q", s)
	}
	return op, nil
}

// parseInput reads a single value, a "lo-hi" range or a serialized
// collection.
func parseInput(s string) (rangeset.Input, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		c, err := rangeset.Parse(s)
		if err != nil {
			return rangeset.Input{}, err
		}
		return rangeset.Set(c), nil
	}
	r, err := rangeset.ParseRange(s)
	if err != nil {
		return rangeset.Input{}, err
	}
	return rangeset.Span(r), nil
}

// apply runs op against c. Pop and shift return the values they took.
func (op operation) apply(c *rangeset.Collection) (*rangeset.Collection, error) {
	switch op.kind {
	case opAdd:
		return nil, c.Add(op.in)
	case opRemove:
		return nil, c.Remove(op.in)
	case opPop:
		return c.Pop(op.count)
	case opShift:
		return c.Shift(op.count)
	case opPrune:
		c.Prune()
		return nil, nil
	}
	return nil, errors.Errorf("unknown operation %q", op.kind)
}
