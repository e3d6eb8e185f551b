package iptable

import (
	"fmt"
	"math"
	"math/big"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/idxrange/pkg/idxtable"
	"github.com/henderiw/idxrange/pkg/rangeset"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPTable interface {
	Get(addr string) (table.Route, error)
	Claim(addr string, d table.Route) error
	Release(addr string) error
	Update(addr string, d table.Route) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
	ClaimedRanges() []netipx.IPRange
	FreeRanges() []netipx.IPRange
}

// New returns a table for the addresses from up to and including to. The
// range may hold at most math.MaxInt64 addresses.
func New(from, to netip.Addr) (IPTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid ip range from %s to %s", from, to)
	}
	window, err := indexWindow(ipRange)
	if err != nil {
		return nil, err
	}
	t, err := idxtable.NewTable[table.Route](window.Size(), nil, nil)
	if err != nil {
		return nil, err
	}
	return &ipTable{
		table:   t,
		ipRange: ipRange,
		window:  window,
	}, nil
}

// ipTable maps every address of ipRange onto an index of window; index 0
// is the first address.
type ipTable struct {
	table   idxtable.Table[table.Route]
	ipRange netipx.IPRange
	window  rangeset.Range
}

func indexWindow(ipRange netipx.IPRange) (rangeset.Range, error) {
	last := new(big.Int).Sub(ipToInt(ipRange.To()), ipToInt(ipRange.From()))
	// the table size is last+1 and must fit in an int64 as well
	if !last.IsInt64() || last.Int64() == math.MaxInt64 {
		return rangeset.Range{}, fmt.Errorf("ip range %s holds more than %d addresses", ipRange, int64(math.MaxInt64))
	}
	return rangeset.NewRange(0, last.Int64())
}

func (r *ipTable) Get(addr string) (table.Route, error) {
	id, err := r.index(addr)
	if err != nil {
		return table.Route{}, err
	}
	return r.table.Get(id)
}

func (r *ipTable) Claim(addr string, d table.Route) error {
	id, err := r.index(addr)
	if err != nil {
		return err
	}
	if !r.table.IsFree(id) {
		return fmt.Errorf("claim failed ip %s already claimed", addr)
	}
	return r.table.Claim(id, d)
}

func (r *ipTable) Release(addr string) error {
	id, err := r.index(addr)
	if err != nil {
		return err
	}
	return r.table.Release(id)
}

func (r *ipTable) Update(addr string, d table.Route) error {
	id, err := r.index(addr)
	if err != nil {
		return err
	}
	if r.table.IsFree(id) {
		return fmt.Errorf("update failed ip %s not claimed", addr)
	}
	return r.table.Update(id, d)
}

func (r *ipTable) Count() int {
	return r.table.Count()
}

func (r *ipTable) Has(addr string) bool {
	id, err := r.index(addr)
	if err != nil {
		return false
	}
	return r.table.Has(id)
}

func (r *ipTable) IsFree(addr string) bool {
	id, err := r.index(addr)
	if err != nil {
		return false
	}
	return r.table.IsFree(id)
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	id, err := r.table.FindFree()
	if err != nil {
		return netip.Addr{}, err
	}
	return r.addr(id), nil
}

func (r *ipTable) GetAll() table.Routes {
	var routes table.Routes
	for _, entry := range r.table.Entries() {
		routes = append(routes, entry.Data())
	}
	return routes
}

func (r *ipTable) GetByLabel(selector labels.Selector) table.Routes {
	var routes table.Routes

	iter := r.table.Iterate()

	for iter.Next() {
		route := iter.Value()
		if selector.Matches(route.Labels()) {
			routes = append(routes, route)
		}
	}

	return routes
}

// ClaimedRanges returns the claimed addresses as minimal ip ranges.
func (r *ipTable) ClaimedRanges() []netipx.IPRange {
	return r.toIPRanges(r.table.Claimed())
}

// FreeRanges returns the addresses that can still be claimed.
func (r *ipTable) FreeRanges() []netipx.IPRange {
	return r.toIPRanges(r.table.Free())
}

func (r *ipTable) toIPRanges(c *rangeset.Collection) []netipx.IPRange {
	ranges := make([]netipx.IPRange, 0, c.Count())
	for _, rng := range c.Ranges() {
		ranges = append(ranges, netipx.IPRangeFrom(r.addr(rng.From()), r.addr(rng.To())))
	}
	return ranges
}

// index parses addr and returns its position in the window.
func (r *ipTable) index(addr string) (int64, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return 0, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(ip) {
		return 0, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From(), r.ipRange.To())
	}
	offset := new(big.Int).Sub(ipToInt(ip), ipToInt(r.ipRange.From()))
	if !offset.IsInt64() || !r.window.Contains(offset.Int64()) {
		return 0, fmt.Errorf("ip address %s is outside the index window %s", addr, r.window)
	}
	return offset.Int64(), nil
}

// addr is the inverse of index.
func (r *ipTable) addr(id int64) netip.Addr {
	ipInt := new(big.Int).Add(ipToInt(r.ipRange.From()), big.NewInt(id))

	var ip16 [16]byte
	ipInt.FillBytes(ip16[:])

	ip := netip.AddrFrom16(ip16)
	if r.ipRange.From().Is4() {
		return ip.Unmap()
	}
	return ip
}

func ipToInt(ip netip.Addr) *big.Int {
	bytes := ip.As16()
	return new(big.Int).SetBytes(bytes[:])
}
