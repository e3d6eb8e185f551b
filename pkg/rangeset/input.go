package rangeset

type inputKind uint8

const (
	inputNone inputKind = iota
	inputValue
	inputPair
	inputSet
)

// Input describes the values handed to Add and Remove: a single value, a
// [lo, hi] pair or the content of another Collection. The zero Input is
// rejected.
type Input struct {
	kind inputKind
	lo   int64
	hi   int64
	set  *Collection
}

// Value is the unit range [n, n].
func Value(n int64) Input {
	return Input{kind: inputValue, lo: n, hi: n}
}

// Pair is the range [lo, hi]; lo > hi is reported when the input is used.
func Pair(lo, hi int64) Input {
	return Input{kind: inputPair, lo: lo, hi: hi}
}

// Span wraps an already validated Range.
func Span(r Range) Input {
	return Input{kind: inputPair, lo: r.lo, hi: r.hi}
}

// Set applies every range of c in ascending order.
func Set(c *Collection) Input {
	return Input{kind: inputSet, set: c}
}

// ranges resolves the input into the ranges it stands for. Collections are
// copied so a collection can be applied to itself.
func (in Input) ranges() ([]Range, error) {
	switch in.kind {
	case inputValue:
		return []Range{RangeOf(in.lo)}, nil
	case inputPair:
		r, err := NewRange(in.lo, in.hi)
		if err != nil {
			return nil, err
		}
		return []Range{r}, nil
	case inputSet:
		if in.set == nil {
			return nil, invalidArgument("nil collection")
		}
		return in.set.Ranges(), nil
	default:
		return nil, invalidArgument("empty input, expected a value, a pair or a collection")
	}
}
