package rangeset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is the closed interval [lo, hi] of int64 values, lo <= hi.
// A Range is a value; operations return new ranges instead of mutating.
type Range struct {
	lo int64
	hi int64
}

// NewRange returns [lo, hi], or an error when lo > hi.
func NewRange(lo, hi int64) (Range, error) {
	if lo > hi {
		return Range{}, invalidArgument("range %d-%d: lower bound above upper bound", lo, hi)
	}
	return Range{lo: lo, hi: hi}, nil
}

// RangeOf returns the unit range [n, n].
func RangeOf(n int64) Range {
	return Range{lo: n, hi: n}
}

// ParseRange parses "lo-hi" or a single "n". Negative bounds are accepted,
// e.g. "-10--2".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, invalidArgument("empty range")
	}
	// skip a leading sign so "-5" is read as a single value
	h := strings.IndexByte(s[1:], '-')
	if h == -1 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Range{}, invalidArgument("invalid id %q", s)
		}
		return RangeOf(n), nil
	}
	h++
	from, to := s[:h], s[h+1:]
	lo, err := strconv.ParseInt(from, 10, 64)
	if err != nil {
		return Range{}, invalidArgument("invalid from id %q in range %q", from, s)
	}
	hi, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return Range{}, invalidArgument("invalid to id %q in range %q", to, s)
	}
	return NewRange(lo, hi)
}

// From returns the lower bound of r.
func (r Range) From() int64 { return r.lo }

// To returns the upper bound of r.
func (r Range) To() int64 { return r.hi }

func (r Range) IsZero() bool {
	return r == Range{}
}

// Size returns hi-lo+1, saturated at math.MaxInt64.
func (r Range) Size() int64 {
	if d := r.span(); d < math.MaxInt64 {
		return int64(d) + 1
	}
	return math.MaxInt64
}

// span is hi-lo computed without overflow.
func (r Range) span() uint64 {
	return uint64(r.hi) - uint64(r.lo)
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.lo, r.hi)
}

func (r Range) Less(other Range) bool {
	if r.lo != other.lo {
		return r.lo < other.lo
	}
	return r.hi < other.hi
}

// Contains reports whether lo <= v <= hi.
func (r Range) Contains(v int64) bool {
	return r.lo <= v && v <= r.hi
}

// Overlaps reports whether r and other share at least one value.
func (r Range) Overlaps(other Range) bool {
	return r.lo <= other.hi && other.lo <= r.hi
}

// CanMerge reports whether r and other overlap or touch, i.e. whether their
// union is itself a single range. [1,5] and [6,9] can merge but do not
// overlap.
func (r Range) CanMerge(other Range) bool {
	return !r.precedes(other) && !other.precedes(r)
}

// precedes reports whether r ends before other starts with at least one
// value in between.
func (r Range) precedes(other Range) bool {
	return other.lo != math.MinInt64 && r.hi < other.lo-1
}

// EntirelyBefore returns whether r lies entirely before other.
func (r Range) EntirelyBefore(other Range) bool {
	return r.hi < other.lo
}

// CoveredBy returns whether r is entirely contained within other.
func (r Range) CoveredBy(other Range) bool {
	return other.lo <= r.lo && r.hi <= other.hi
}

// InMiddleOf returns whether r is inside other, but not touching the
// edges of other.
func (r Range) InMiddleOf(other Range) bool {
	return other.lo < r.lo && r.hi < other.hi
}

// OverlapsStartOf returns whether r entirely overlaps the start of
// other, but not all of other.
func (r Range) OverlapsStartOf(other Range) bool {
	return r.lo <= other.lo && r.hi < other.hi
}

// OverlapsEndOf returns whether r entirely overlaps the end of
// other, but not all of other.
func (r Range) OverlapsEndOf(other Range) bool {
	return other.lo < r.lo && other.hi <= r.hi
}

func (r Range) union(other Range) Range {
	return Range{lo: min(r.lo, other.lo), hi: max(r.hi, other.hi)}
}

func (r Range) Values() []int64 {
	return r.AppendValues(nil)
}

func (r Range) AppendValues(dst []int64) []int64 {
	for v := r.lo; ; v++ {
		dst = append(dst, v)
		if v == r.hi {
			return dst
		}
	}
}

func (r Range) appendJSON(dst []byte) []byte {
	dst = append(dst, '[')
	dst = strconv.AppendInt(dst, r.lo, 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, r.hi, 10)
	return append(dst, ']')
}

// MarshalJSON renders r as the pair [lo,hi].
func (r Range) MarshalJSON() ([]byte, error) {
	return r.appendJSON(nil), nil
}

func (r *Range) UnmarshalJSON(b []byte) error {
	var pair []int64
	if err := json.Unmarshal(b, &pair); err != nil {
		return invalidArgument("range %s: %v", b, err)
	}
	nr, err := rangeFromPair(pair)
	if err != nil {
		return err
	}
	*r = nr
	return nil
}

func rangeFromPair(pair []int64) (Range, error) {
	if len(pair) != 2 {
		return Range{}, invalidArgument("expected a [lo, hi] pair, got %d elements", len(pair))
	}
	return NewRange(pair[0], pair[1])
}
