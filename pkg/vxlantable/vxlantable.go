package vxlantable

import (
	"fmt"

	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/rangeset"
	"k8s.io/apimachinery/pkg/labels"
)

type VXLANTable interface {
	Get(id int64) (labels.Set, error)
	Claim(id int64, d labels.Set) error
	ClaimDynamic(d labels.Set) (int64, error)
	ClaimSize(size int64, d labels.Set) (*rangeset.Collection, error)
	Release(id int64) error
	Update(id int64, d labels.Set) error

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)

	GetAll() map[int64]labels.Set
	Claimed() *rangeset.Collection
}

// New returns a table for the VNIs offset up to and including max.
func New(offset, max int64) (VXLANTable, error) {
	if max < offset {
		return nil, fmt.Errorf("max %d is smaller than offset %d", max, offset)
	}
	t, err := idxtable.NewTable[labels.Set](
		max-offset+1,
		map[int64]labels.Set{},
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &vxlanTable{
		table:  t,
		offset: offset,
		max:    max,
	}, nil

}

type vxlanTable struct {
	table  idxtable.Table[labels.Set]
	offset int64
	max    int64
}

func (r *vxlanTable) Get(id int64) (labels.Set, error) {
	return r.table.Get(r.calculateIndex(id))
}

func (r *vxlanTable) Claim(id int64, d labels.Set) error {
	if !r.table.IsFree(r.calculateIndex(id)) {
		return fmt.Errorf("id %d is already claimed", id)
	}
	return r.table.Claim(r.calculateIndex(id), d)
}

func (r *vxlanTable) ClaimDynamic(d labels.Set) (int64, error) {
	id, err := r.table.ClaimDynamic(d)
	if err != nil {
		return -1, err
	}
	return id + r.offset, nil
}

func (r *vxlanTable) ClaimSize(size int64, d labels.Set) (*rangeset.Collection, error) {
	ids, err := r.table.ClaimSize(size, d)
	if err != nil {
		return nil, err
	}
	return ids.Translate(r.offset), nil
}

func (r *vxlanTable) Release(id int64) error {
	return r.table.Release(r.calculateIndex(id))
}

func (r *vxlanTable) Update(id int64, d labels.Set) error {
	if r.table.IsFree(r.calculateIndex(id)) {
		return fmt.Errorf("id %d is not claimed", id)
	}
	return r.table.Update(r.calculateIndex(id), d)
}

func (r *vxlanTable) Count() int {
	return r.table.Count()
}

func (r *vxlanTable) Has(id int64) bool {
	return r.table.Has(r.calculateIndex(id))
}

func (r *vxlanTable) IsFree(id int64) bool {
	return r.table.IsFree(r.calculateIndex(id))
}

func (r *vxlanTable) FindFree() (int64, error) {
	id, err := r.table.FindFree()
	if err != nil {
		return -1, err
	}
	return id + r.offset, nil
}

// GetAll returns the claimed entries keyed by VNI.
func (r *vxlanTable) GetAll() map[int64]labels.Set {
	entries := map[int64]labels.Set{}
	for id, d := range r.table.GetAll() {
		entries[id+r.offset] = d
	}
	return entries
}

// Claimed returns the claimed VNIs.
func (r *vxlanTable) Claimed() *rangeset.Collection {
	return r.table.Claimed().Translate(r.offset)
}

func (r *vxlanTable) calculateIndex(id int64) int64 {
	// Calculate the index in the table
	return id - r.offset
}
