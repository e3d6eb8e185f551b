package idxtable

// Iterator walks ids in ascending order. Free ids report the zero value.
type Iterator[T1 any] struct {
	current int
	keys    []int64
	table   map[int64]T1
}

func (r *Iterator[T1]) Value() T1 {
	return r.table[r.keys[r.current]]
}

func (r *Iterator[T1]) ID() int64 {
	return r.keys[r.current]
}

func (r *Iterator[T1]) Next() bool {
	r.current++
	return r.current < len(r.keys)
}

func (r *Iterator[T1]) IsConsecutive() bool {
	if r.current < 1 {
		return false
	}
	return r.keys[r.current-1] == r.keys[r.current]-1
}
