package idxtable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/henderiw/idxrange/pkg/rangeset"
)

type Table[T1 any] interface {
	Get(id int64) (T1, error)
	Claim(id int64, d T1) error
	ClaimDynamic(d T1) (int64, error)
	ClaimRange(start, size int64, d T1) error
	ClaimSize(size int64, d T1) (*rangeset.Collection, error)
	Release(id int64) error
	ReleaseRange(start, size int64) error
	Update(id int64, d T1) error

	Iterate() *Iterator[T1]
	IterateFree() *Iterator[T1]

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	FindFreeRange(start, size int64) (*rangeset.Collection, error)
	FindFreeSize(size int64) (*rangeset.Collection, error)

	GetAll() map[int64]T1
	Entries() Entries[T1]
	Claimed() *rangeset.Collection
	Free() *rangeset.Collection
}

type ValidationFn func(id int64) error

func NewTable[T1 any](s int64, initEntries map[int64]T1, v ValidationFn) (Table[T1], error) {
	if s <= 0 {
		return nil, fmt.Errorf("table size must be positive, got: %d", s)
	}
	r := &table[T1]{
		m:          new(sync.RWMutex),
		table:      map[int64]T1{},
		claimed:    rangeset.New(),
		size:       s,
		validateFn: v,
	}

	var errm error
	for id, d := range initEntries {
		if err := r.add(id, d, true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

// table keeps the data per claimed id in a map and the claimed ids
// themselves as a range collection, so free space lookups work on ranges
// instead of walking every id.
type table[T1 any] struct {
	m          *sync.RWMutex
	table      map[int64]T1
	claimed    *rangeset.Collection
	size       int64
	validateFn ValidationFn
}

func (r *table[T1]) window() rangeset.Range {
	w, _ := rangeset.NewRange(0, r.size-1)
	return w
}

func (r *table[T1]) validate(id int64, init bool) error {
	if id < 0 {
		return fmt.Errorf("id %d is negative", id)
	}
	if id > r.size-1 {
		return fmt.Errorf("id %d is bigger then max allowed entries: %d", id, r.size-1)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T1]) validateRange(start, size int64) (rangeset.Range, error) {
	if size < 1 {
		return rangeset.Range{}, fmt.Errorf("size %d must be at least 1", size)
	}
	end := start + size - 1
	if start < 0 || start > r.size-1 {
		return rangeset.Range{}, fmt.Errorf("start %d is out of the allowed entries: 0-%d", start, r.size-1)
	}
	if end < start || end > r.size-1 {
		return rangeset.Range{}, fmt.Errorf("end %d is bigger then max allowed entries: %d", end, r.size-1)
	}
	return rangeset.NewRange(start, end)
}

func (r *table[T1]) Get(id int64) (T1, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var d T1

	if err := r.validate(id, false); err != nil {
		return d, err
	}

	d, ok := r.table[id]
	if !ok {
		return d, fmt.Errorf("no match found for: %v", id)
	}
	return d, nil
}

func (r *table[T1]) Claim(id int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(id, d, false)
}

func (r *table[T1]) ClaimDynamic(d T1) (int64, error) {
	r.m.Lock()
	defer r.m.Unlock()

	id, err := r.findFree()
	if err != nil {
		return 0, err
	}
	if err := r.add(id, d, false); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *table[T1]) ClaimRange(start, size int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	ids, err := r.findFreeRange(start, size)
	if err != nil {
		return err
	}
	return r.addAll(ids, d)
}

// ClaimSize claims the lowest size free ids and returns them.
func (r *table[T1]) ClaimSize(size int64, d T1) (*rangeset.Collection, error) {
	r.m.Lock()
	defer r.m.Unlock()

	ids, err := r.findFreeSize(size)
	if err != nil {
		return nil, err
	}
	if err := r.addAll(ids, d); err != nil {
		return nil, err
	}
	return ids, nil
}

// addAll validates every id before claiming any of them.
func (r *table[T1]) addAll(ids *rangeset.Collection, d T1) error {
	for id := range ids.All() {
		if err := r.validate(id, false); err != nil {
			return err
		}
	}
	for id := range ids.All() {
		// getting an error is unlikely as we have a lock
		if err := r.add(id, d, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T1]) Release(id int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(id)
}

func (r *table[T1]) ReleaseRange(start, size int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.validateRange(start, size)
	if err != nil {
		return err
	}
	for id := range rangeset.NewFromRanges(rng).All() {
		delete(r.table, id)
	}
	r.claimed.RemoveRange(rng)
	return nil
}

func (r *table[T1]) Update(id int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(id, d)
}

func (r *table[T1]) Iterate() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *table[T1]) iterate() *Iterator[T1] {
	// claimed values come out sorted
	return &Iterator[T1]{current: -1, keys: r.claimed.Values(), table: r.snapshot()}
}

func (r *table[T1]) IterateFree() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterateFree()
}

func (r *table[T1]) iterateFree() *Iterator[T1] {
	return &Iterator[T1]{current: -1, keys: r.free().Values(), table: map[int64]T1{}}
}

func (r *table[T1]) snapshot() map[int64]T1 {
	entries := make(map[int64]T1, len(r.table))
	for id, d := range r.table {
		entries[id] = d
	}
	return entries
}

func (r *table[T1]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table[T1]) Has(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Contains(id)
}

func (r *table[T1]) IsFree(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(id)
}

func (r *table[T1]) isFree(id int64) bool {
	return !r.claimed.Contains(id)
}

func (r *table[T1]) free() *rangeset.Collection {
	return r.claimed.Complement(r.window())
}

func (r *table[T1]) FindFree() (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree()
}

func (r *table[T1]) findFree() (int64, error) {
	id, ok := r.free().Min()
	if !ok {
		return 0, fmt.Errorf("no free entry found")
	}
	return id, nil
}

func (r *table[T1]) FindFreeRange(start, size int64) (*rangeset.Collection, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeRange(start, size)
}

func (r *table[T1]) findFreeRange(start, size int64) (*rangeset.Collection, error) {
	rng, err := r.validateRange(start, size)
	if err != nil {
		return nil, err
	}
	free := r.claimed.Complement(rng)
	if free.Len() != size {
		inUse := rangeset.NewFromRanges(rng)
		if err := inUse.Remove(rangeset.Set(free)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("entries %s in use in range: start: %d, end %d", inUse, rng.From(), rng.To())
	}
	return free, nil
}

func (r *table[T1]) FindFreeSize(size int64) (*rangeset.Collection, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeSize(size)
}

func (r *table[T1]) findFreeSize(size int64) (*rangeset.Collection, error) {
	if size < 1 {
		return nil, fmt.Errorf("size %d must be at least 1", size)
	}
	if size > r.size {
		return nil, fmt.Errorf("size %d is bigger then max allowed entries: %d", size, r.size)
	}
	ids, err := r.free().Shift(size)
	if err != nil {
		return nil, err
	}
	if ids.Len() < size {
		return nil, fmt.Errorf("could not find free entries that fit in size %d", size)
	}
	return ids, nil
}

func (r *table[T1]) add(id int64, d T1, init bool) error {
	if err := r.validate(id, init); err != nil {
		return err
	}
	if !r.isFree(id) {
		return fmt.Errorf("entry %d already exists", id)
	}
	r.table[id] = d
	r.claimed.AddValue(id)
	return nil
}

func (r *table[T1]) update(id int64, d T1) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	if r.isFree(id) {
		return fmt.Errorf("entry %d not found", id)
	}
	r.table[id] = d
	return nil
}

func (r *table[T1]) delete(id int64) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	delete(r.table, id)
	r.claimed.RemoveValue(id)
	return nil
}

func (r *table[T1]) GetAll() map[int64]T1 {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.snapshot()
}

// Entries returns the claimed entries ordered by id.
func (r *table[T1]) Entries() Entries[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(Entries[T1], 0, len(r.table))
	for id := range r.claimed.All() {
		entries = append(entries, NewEntry(id, r.table[id]))
	}
	return entries
}

// Claimed returns a copy of the claimed ids.
func (r *table[T1]) Claimed() *rangeset.Collection {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Clone()
}

// Free returns the ids that can still be claimed.
func (r *table[T1]) Free() *rangeset.Collection {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free()
}
