// Package rangeset keeps a set of int64 values as a minimal list of closed
// ranges.
package rangeset

import (
	"bytes"
	"encoding/json"
	"iter"
	"math"
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// Collection is a set of int64 values stored as ranges.
//
// rr is normalized after every operation: sorted ascending, no overlapping
// ranges and no contiguous ranges. The methods below rely on this property.
// A Collection is not safe for concurrent mutation.
type Collection struct {
	rr []Range
}

// New returns an empty collection.
func New() *Collection {
	return &Collection{}
}

// NewFromRanges adds every range in order.
func NewFromRanges(rr ...Range) *Collection {
	c := New()
	for _, r := range rr {
		c.AddRange(r)
	}
	return c
}

// NewFromPairs builds a collection out of [lo, hi] pairs. The pairs do not
// need to be sorted or merged; every element must have exactly two values
// with lo <= hi.
func NewFromPairs(pairs [][]int64) (*Collection, error) {
	c := New()
	for i, pair := range pairs {
		r, err := rangeFromPair(pair)
		if err != nil {
			return nil, errors.Wrapf(err, "pair %d", i)
		}
		c.AddRange(r)
	}
	return c, nil
}

// Parse reads the serialized form, e.g. "[[1,5],[7,7]]". Anything but a
// list of pairs, null included, is rejected.
func Parse(s string) (*Collection, error) {
	if b := bytes.TrimSpace([]byte(s)); len(b) == 0 || b[0] != '[' {
		return nil, invalidArgument("expected a list of [lo, hi] pairs, got %q", s)
	}
	c := New()
	if err := c.UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	return c, nil
}

// IsOverlapping reports whether a and b share at least one value. Touching
// ranges such as [1,2] and [3,4] do not overlap.
func IsOverlapping(a, b Range) bool {
	return a.Overlaps(b)
}

// Add inserts the values described by in, merging with every range it
// overlaps or touches.
func (c *Collection) Add(in Input) error {
	rr, err := in.ranges()
	if err != nil {
		return err
	}
	for _, r := range rr {
		c.AddRange(r)
	}
	return nil
}

func (c *Collection) AddValue(n int64) {
	c.AddRange(RangeOf(n))
}

// AddRange inserts r. The run of ranges that can merge with r is replaced
// by their union.
func (c *Collection) AddRange(r Range) {
	// first range that does not lie before r
	i := sort.Search(len(c.rr), func(i int) bool { return !c.rr[i].precedes(r) })
	// first range that lies after r
	j := sort.Search(len(c.rr), func(j int) bool { return r.precedes(c.rr[j]) })

	if i == j {
		c.rr = slices.Insert(c.rr, i, r)
		return
	}
	merged := r.union(c.rr[i]).union(c.rr[j-1])
	c.rr = slices.Replace(c.rr, i, j, merged)
}

// Remove deletes the values described by in, trimming or splitting the
// ranges it overlaps. Removing values that are not present is a no-op.
func (c *Collection) Remove(in Input) error {
	rr, err := in.ranges()
	if err != nil {
		return err
	}
	for _, r := range rr {
		c.RemoveRange(r)
	}
	return nil
}

func (c *Collection) RemoveValue(n int64) {
	c.RemoveRange(RangeOf(n))
}

// RemoveRange deletes every value of r from c.
func (c *Collection) RemoveRange(r Range) {
	// first range ending at or after r.lo
	i := sort.Search(len(c.rr), func(i int) bool { return !c.rr[i].EntirelyBefore(r) })
	// first range starting after r.hi
	j := sort.Search(len(c.rr), func(j int) bool { return r.EntirelyBefore(c.rr[j]) })
	if i >= j {
		return
	}

	min := make([]Range, 0, 2)
	for _, cur := range c.rr[i:j] {
		switch {
		case cur.CoveredBy(r):
			// r covers cur entirely, drop it.
			//
			//        r
			// f-------------t
			//    f------t
			//      cur
		case r.InMiddleOf(cur):
			// r is inside cur, split cur in two.
			//
			//       cur
			// f-------------t
			//    f------t
			//        r
			min = append(min,
				Range{lo: cur.lo, hi: r.lo - 1},
				Range{lo: r.hi + 1, hi: cur.hi},
			)
		case r.OverlapsStartOf(cur):
			// r overlaps start of cur.
			//
			//    r
			// f------t
			//    f------t
			//      cur
			min = append(min, Range{lo: r.hi + 1, hi: cur.hi})
		case r.OverlapsEndOf(cur):
			// r overlaps end of cur.
			//
			//           r
			//        f------t
			//    f------t
			//      cur
			min = append(min, Range{lo: cur.lo, hi: r.lo - 1})
		default:
			// The above should account for all combinations of cur and
			// r overlapping, but insert a panic to be sure.
			panic("unexpected additional overlap scenario")
		}
	}
	c.rr = slices.Replace(c.rr, i, j, min...)
}

// Prune empties the collection. Every range is dropped regardless of its
// size.
func (c *Collection) Prune() {
	c.rr = nil
}

// Pop removes up to n of the largest values and returns them as a new
// collection in ascending order. Popping more than Len removes everything.
func (c *Collection) Pop(n int64) (*Collection, error) {
	if n < 0 {
		return nil, invalidArgument("pop count %d is negative", n)
	}
	var taken []Range
	remaining := uint64(n)
	k := len(c.rr)
	for k > 0 && remaining > 0 {
		last := c.rr[k-1]
		if d := last.span(); remaining > d {
			taken = append(taken, last)
			remaining -= d + 1
			k--
			continue
		}
		// n ends inside last, keep its lower part
		cut := last.hi - int64(remaining-1)
		taken = append(taken, Range{lo: cut, hi: last.hi})
		c.rr[k-1] = Range{lo: last.lo, hi: cut - 1}
		remaining = 0
	}
	c.rr = slices.Clip(c.rr[:k])
	if len(c.rr) == 0 {
		c.rr = nil
	}
	slices.Reverse(taken)
	return &Collection{rr: taken}, nil
}

// Shift removes up to n of the smallest values and returns them as a new
// collection in ascending order. Shifting more than Len removes everything.
func (c *Collection) Shift(n int64) (*Collection, error) {
	if n < 0 {
		return nil, invalidArgument("shift count %d is negative", n)
	}
	var taken []Range
	remaining := uint64(n)
	k := 0
	for k < len(c.rr) && remaining > 0 {
		first := c.rr[k]
		if d := first.span(); remaining > d {
			taken = append(taken, first)
			remaining -= d + 1
			k++
			continue
		}
		// n ends inside first, keep its upper part
		cut := first.lo + int64(remaining-1)
		taken = append(taken, Range{lo: first.lo, hi: cut})
		c.rr[k] = Range{lo: cut + 1, hi: first.hi}
		remaining = 0
	}
	if k > 0 {
		c.rr = slices.Clone(c.rr[k:])
		if len(c.rr) == 0 {
			c.rr = nil
		}
	}
	return &Collection{rr: taken}, nil
}

// Len returns the number of values in the collection, saturated at
// math.MaxInt64.
func (c *Collection) Len() int64 {
	var l int64
	for _, r := range c.rr {
		s := r.Size()
		if l > math.MaxInt64-s {
			return math.MaxInt64
		}
		l += s
	}
	return l
}

// Count returns the number of ranges in the collection.
func (c *Collection) Count() int {
	return len(c.rr)
}

func (c *Collection) IsEmpty() bool {
	return len(c.rr) == 0
}

// Contains reports whether v is part of the collection.
func (c *Collection) Contains(v int64) bool {
	i := sort.Search(len(c.rr), func(i int) bool { return c.rr[i].hi >= v })
	return i < len(c.rr) && c.rr[i].Contains(v)
}

// Min returns the smallest value, ok is false when c is empty.
func (c *Collection) Min() (int64, bool) {
	if len(c.rr) == 0 {
		return 0, false
	}
	return c.rr[0].lo, true
}

// Max returns the largest value, ok is false when c is empty.
func (c *Collection) Max() (int64, bool) {
	if len(c.rr) == 0 {
		return 0, false
	}
	return c.rr[len(c.rr)-1].hi, true
}

// Complement returns the values of within that are not part of c.
func (c *Collection) Complement(within Range) *Collection {
	out := New()
	next := within.lo
	for _, r := range c.rr {
		if r.hi < next {
			continue
		}
		if r.lo > within.hi {
			break
		}
		if r.lo > next {
			out.rr = append(out.rr, Range{lo: next, hi: r.lo - 1})
		}
		if r.hi >= within.hi {
			return out
		}
		next = r.hi + 1
	}
	out.rr = append(out.rr, Range{lo: next, hi: within.hi})
	return out
}

// Translate returns a copy of c with every value moved by delta. The caller
// keeps the moved bounds within int64.
func (c *Collection) Translate(delta int64) *Collection {
	out := &Collection{rr: make([]Range, 0, len(c.rr))}
	for _, r := range c.rr {
		out.rr = append(out.rr, Range{lo: r.lo + delta, hi: r.hi + delta})
	}
	return out
}

func (c *Collection) Equal(other *Collection) bool {
	return slices.Equal(c.rr, other.rr)
}

func (c *Collection) Clone() *Collection {
	return &Collection{rr: slices.Clone(c.rr)}
}

// Ranges returns a copy of the minimum and sorted set of ranges that
// covers c.
func (c *Collection) Ranges() []Range {
	return append([]Range{}, c.rr...)
}

// ToArray returns a copy of the ranges as [lo, hi] pairs.
func (c *Collection) ToArray() [][2]int64 {
	out := make([][2]int64, 0, len(c.rr))
	for _, r := range c.rr {
		out = append(out, [2]int64{r.lo, r.hi})
	}
	return out
}

// Values returns every value of c in ascending order.
func (c *Collection) Values() []int64 {
	out := []int64{}
	for _, r := range c.rr {
		out = r.AppendValues(out)
	}
	return out
}

// All iterates over every value of c in ascending order. The collection
// must not be mutated while iterating.
func (c *Collection) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for _, r := range c.rr {
			for v := r.lo; ; v++ {
				if !yield(v) {
					return
				}
				if v == r.hi {
					break
				}
			}
		}
	}
}

// String renders c as "[[lo,hi],[lo,hi]]". MarshalJSON and MarshalText
// produce the same bytes.
func (c *Collection) String() string {
	return string(c.appendJSON(nil))
}

func (c *Collection) appendJSON(dst []byte) []byte {
	dst = append(dst, '[')
	for i, r := range c.rr {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = r.appendJSON(dst)
	}
	return append(dst, ']')
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.appendJSON(nil), nil
}

func (c *Collection) MarshalText() ([]byte, error) {
	return c.appendJSON(nil), nil
}

// UnmarshalJSON replaces the content of c with the pairs in b. The pairs
// are normalized the same way NewFromPairs does. A JSON null leaves c
// unchanged.
func (c *Collection) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var pairs [][]int64
	if err := json.Unmarshal(b, &pairs); err != nil {
		return invalidArgument("expected a list of [lo, hi] pairs: %v", err)
	}
	nc, err := NewFromPairs(pairs)
	if err != nil {
		return err
	}
	c.rr = nc.rr
	return nil
}

func (c *Collection) UnmarshalText(b []byte) error {
	return c.UnmarshalJSON(b)
}
