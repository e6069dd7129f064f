package seedbloom

import (
	"math/bits"
	"sync"
	"sync/atomic"
	"unsafe"
)

// cacheLineSize is the size of a CPU cache line in bytes.
const cacheLineSize = 64

// AtomicFilter is a thread-safe bloom filter using lock-free atomic bit
// operations. It hashes exactly like [Filter], so for the same m, k and
// hasher both set the same bits for the same keys.
//
// Add sets its k bits one at a time. A Has racing with an Add of the same
// key may observe only some of those bits and report false; keys whose Add
// returned before Has started are always reported.
type AtomicFilter struct {
	raw    []byte          // Raw allocation to keep aligned memory alive for GC
	words  []atomic.Uint64 // m bits, rounded up to whole words
	m      uint64
	k      uint32
	hasher Hasher
	count  atomic.Uint64 // Number of Add calls
}

// NewAtomic creates an empty thread-safe filter with m bits and k hash
// functions using the default [XXH3] hasher.
func NewAtomic(m, k int) (*AtomicFilter, error) {
	return NewAtomicWithHasher(m, k, XXH3)
}

// NewAtomicWithHasher creates an empty thread-safe filter with m bits and k
// hash functions derived from h.
func NewAtomicWithHasher(m, k int, h Hasher) (*AtomicFilter, error) {
	if err := checkParams(m, k, h); err != nil {
		return nil, err
	}

	raw, words := makeAlignedAtomicUint64Slice((m + 63) / 64)

	return &AtomicFilter{
		raw:    raw,
		words:  words,
		m:      uint64(m),
		k:      uint32(k),
		hasher: h,
	}, nil
}

// makeAlignedAtomicUint64Slice allocates a cache-line aligned slice of atomic.Uint64.
// Returns the raw byte slice (to keep alive for GC) and the aligned atomic slice.
func makeAlignedAtomicUint64Slice(n int) ([]byte, []atomic.Uint64) {
	// atomic.Uint64 is the same size as uint64 (8 bytes)
	const atomicSize = 8
	// Allocate with extra space for alignment
	raw := make([]byte, n*atomicSize+cacheLineSize-1)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	offset := (cacheLineSize - int(addr%cacheLineSize)) % cacheLineSize
	aligned := unsafe.Slice((*atomic.Uint64)(unsafe.Pointer(&raw[offset])), n)
	return raw, aligned
}

// keyBufPool holds encoding buffers for paths that may run on several
// goroutines at once and so cannot share a filter's scratch buffer.
var keyBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64)
		return &b
	},
}

// getKeyBuf encodes x into a pooled buffer. Callers return it with
// keyBufPool.Put once they are done hashing.
func getKeyBuf(x Key) *[]byte {
	bp := keyBufPool.Get().(*[]byte)
	*bp = x.AppendKey((*bp)[:0])
	return bp
}

// Add adds x to the filter atomically.
func (f *AtomicFilter) Add(x Key) {
	bp := getKeyBuf(x)
	f.add(*bp)
	keyBufPool.Put(bp)
}

// AddBytes adds the key encoded by data atomically.
func (f *AtomicFilter) AddBytes(data []byte) {
	f.add(data)
}

// AddString adds the key encoded by s atomically.
func (f *AtomicFilter) AddString(s string) {
	f.add(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (f *AtomicFilter) add(data []byte) {
	for seed := range f.k {
		idx := hashToIndex(f.hasher, seed, data, f.m)
		// Use atomic OR - most efficient on Go 1.23+
		f.words[idx/64].Or(uint64(1) << (idx % 64))
	}
	f.count.Add(1)
}

// Has reports whether x might be in the filter.
// This operation is safe to call concurrently with Add.
func (f *AtomicFilter) Has(x Key) bool {
	bp := getKeyBuf(x)
	present := f.has(*bp)
	keyBufPool.Put(bp)
	return present
}

// HasBytes reports whether the key encoded by data might be in the filter.
func (f *AtomicFilter) HasBytes(data []byte) bool {
	return f.has(data)
}

// HasString reports whether the key encoded by s might be in the filter.
func (f *AtomicFilter) HasString(s string) bool {
	return f.has(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (f *AtomicFilter) has(data []byte) bool {
	for seed := range f.k {
		idx := hashToIndex(f.hasher, seed, data, f.m)
		if f.words[idx/64].Load()&(uint64(1)<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// TestAndAdd adds x and reports whether it might have been present before.
// The test and the add are not one atomic step: two goroutines adding the
// same new key can both observe false.
func (f *AtomicFilter) TestAndAdd(x Key) bool {
	bp := getKeyBuf(x)
	present := f.has(*bp)
	f.add(*bp)
	keyBufPool.Put(bp)
	return present
}

// M returns the number of bits in the filter.
func (f *AtomicFilter) M() uint64 {
	return f.m
}

// K returns the number of hash functions.
func (f *AtomicFilter) K() uint32 {
	return f.k
}

// Hasher returns the digest primitive the hash functions are derived from.
func (f *AtomicFilter) Hasher() Hasher {
	return f.hasher
}

// Count returns the approximate number of Add calls made on the filter.
func (f *AtomicFilter) Count() uint64 {
	return f.count.Load()
}

// SetBits returns the number of bits currently set.
func (f *AtomicFilter) SetBits() uint64 {
	var setBits uint64
	for i := range f.words {
		setBits += uint64(bits.OnesCount64(f.words[i].Load()))
	}
	return setBits
}

// EstimatedFillRatio estimates the proportion of bits that are set.
func (f *AtomicFilter) EstimatedFillRatio() float64 {
	return float64(f.SetBits()) / float64(f.m)
}

// EstimatedFalsePositiveRate estimates the current false positive rate.
func (f *AtomicFilter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.m, f.k, f.count.Load())
}
