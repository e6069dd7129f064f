package seedbloom

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

// ErrInvalidParameter is returned when a filter is constructed with a
// non-positive bit count, a non-positive hash function count, or a nil hasher.
var ErrInvalidParameter = errors.New("seedbloom: invalid parameter")

// Filter is a non-thread-safe bloom filter of m bits probed by k hash
// functions. Hash function i is the filter's Hasher seeded with i, reduced
// modulo m.
//
// Bits are only ever set, never cleared: once Has reports false for a key
// it can start reporting true after later adds, but never the reverse.
//
// A Filter must not be modified concurrently. The query methods (Has,
// HasBytes, HasString and the accessors) only read the filter, so any number
// of goroutines may call them at once, for example under a shared
// sync.RWMutex read lock, as long as no Add runs at the same time.
type Filter struct {
	bits    *bitset.BitSet
	m       uint64
	k       uint32
	hasher  Hasher
	count   uint64 // Number of Add calls
	scratch []byte // Key encoding buffer for the mutating paths only
}

// New creates an empty filter with m bits and k hash functions using the
// default [XXH3] hasher.
func New(m, k int) (*Filter, error) {
	return NewWithHasher(m, k, XXH3)
}

// NewWithHasher creates an empty filter with m bits and k hash functions
// derived from h.
func NewWithHasher(m, k int, h Hasher) (*Filter, error) {
	if err := checkParams(m, k, h); err != nil {
		return nil, err
	}

	return &Filter{
		bits:   bitset.New(uint(m)),
		m:      uint64(m),
		k:      uint32(k),
		hasher: h,
	}, nil
}

// checkParams validates constructor arguments shared by every filter type.
func checkParams(m, k int, h Hasher) error {
	if m <= 0 {
		return fmt.Errorf("%w: m must be positive (got %d)", ErrInvalidParameter, m)
	}
	if k <= 0 {
		return fmt.Errorf("%w: k must be positive (got %d)", ErrInvalidParameter, k)
	}
	if uint64(k) > maxK {
		return fmt.Errorf("%w: k too large (got %d, max %d)", ErrInvalidParameter, k, uint64(maxK))
	}
	if h == nil {
		return fmt.Errorf("%w: hasher must not be nil", ErrInvalidParameter)
	}
	return nil
}

// maxK bounds k so that every seed fits in a uint32.
const maxK = math.MaxUint32

// Add adds x to the filter. Adding the same key again leaves the filter's
// bits unchanged.
func (f *Filter) Add(x Key) {
	f.scratch = x.AppendKey(f.scratch[:0])
	f.add(f.scratch)
}

// AddBytes adds the key encoded by data.
func (f *Filter) AddBytes(data []byte) {
	f.add(data)
}

// AddString adds the key encoded by s.
func (f *Filter) AddString(s string) {
	f.scratch = append(f.scratch[:0], s...)
	f.add(f.scratch)
}

func (f *Filter) add(data []byte) {
	for seed := range f.k {
		f.bits.Set(uint(f.index(seed, data)))
	}
	f.count++
}

// Has reports whether x might be in the filter. A false result means x was
// definitely never added; a true result may be a false positive.
func (f *Filter) Has(x Key) bool {
	bp := getKeyBuf(x)
	present := f.has(*bp)
	keyBufPool.Put(bp)
	return present
}

// HasBytes reports whether the key encoded by data might be in the filter.
func (f *Filter) HasBytes(data []byte) bool {
	return f.has(data)
}

// HasString reports whether the key encoded by s might be in the filter.
func (f *Filter) HasString(s string) bool {
	return f.has(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (f *Filter) has(data []byte) bool {
	for seed := range f.k {
		if !f.bits.Test(uint(f.index(seed, data))) {
			return false
		}
	}
	return true
}

// TestAndAdd adds x and reports whether it might have been present before.
func (f *Filter) TestAndAdd(x Key) bool {
	f.scratch = x.AppendKey(f.scratch[:0])
	present := f.has(f.scratch)
	f.add(f.scratch)
	return present
}

// index is hash function number seed applied to the encoded key.
func (f *Filter) index(seed uint32, data []byte) uint64 {
	return hashToIndex(f.hasher, seed, data, f.m)
}

// M returns the number of bits in the filter.
func (f *Filter) M() uint64 {
	return f.m
}

// K returns the number of hash functions.
func (f *Filter) K() uint32 {
	return f.k
}

// Hasher returns the digest primitive the hash functions are derived from.
func (f *Filter) Hasher() Hasher {
	return f.hasher
}

// Count returns the number of Add calls made on the filter, including
// repeated adds of the same key.
func (f *Filter) Count() uint64 {
	return f.count
}

// SetBits returns the number of bits currently set.
func (f *Filter) SetBits() uint64 {
	return uint64(f.bits.Count())
}

// EstimatedFillRatio returns the proportion of bits that are set.
func (f *Filter) EstimatedFillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.m)
}

// EstimatedFalsePositiveRate estimates the current false positive rate
// from the number of items added.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.m, f.k, f.count)
}
