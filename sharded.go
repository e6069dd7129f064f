package seedbloom

import (
	"fmt"
	"runtime"
	"unsafe"
)

// ShardedAtomicFilter is a thread-safe bloom filter that distributes writes
// across multiple shards to reduce contention under parallel workloads.
// Each shard is an independent AtomicFilter, and keys are consistently
// routed to shards by a hash that does not depend on the k shard seeds.
type ShardedAtomicFilter struct {
	shards    []*AtomicFilter
	numShards uint64
	mask      uint64 // numShards - 1, for fast modulo
}

// NewShardedAtomic creates a new sharded thread-safe bloom filter with m
// total bits and k hash functions per key, using the default [XXH3] hasher.
// numShards must be a power of 2 (will be rounded up if not) and may not
// exceed m. Each shard holds ceil(m/numShards) bits.
func NewShardedAtomic(m, k int, numShards uint64) (*ShardedAtomicFilter, error) {
	return NewShardedAtomicWithHasher(m, k, numShards, XXH3)
}

// NewShardedAtomicWithHasher is like [NewShardedAtomic] with the shard hash
// functions derived from h.
func NewShardedAtomicWithHasher(m, k int, numShards uint64, h Hasher) (*ShardedAtomicFilter, error) {
	if err := checkParams(m, k, h); err != nil {
		return nil, err
	}

	// Every shard needs at least one bit. This also keeps the rounding
	// below from overflowing, since m fits in an int.
	if numShards > uint64(m) {
		return nil, fmt.Errorf("%w: numShards must not exceed m (got %d shards for %d bits)",
			ErrInvalidParameter, numShards, m)
	}

	// Round up to power of 2 (nextPowerOf2 always returns >= 1)
	numShards = nextPowerOf2(numShards)

	// Distribute bits across shards
	bitsPerShard := (uint64(m) + numShards - 1) / numShards

	shards := make([]*AtomicFilter, numShards)
	for i := range shards {
		shard, err := NewAtomicWithHasher(int(bitsPerShard), k, h)
		if err != nil {
			return nil, err
		}
		shards[i] = shard
	}

	return &ShardedAtomicFilter{
		shards:    shards,
		numShards: numShards,
		mask:      numShards - 1,
	}, nil
}

// NewShardedAtomicDefault creates a sharded filter with a number of shards
// automatically tuned to the current GOMAXPROCS value. This provides good
// parallel performance without over-sharding on smaller machines.
func NewShardedAtomicDefault(m, k int) (*ShardedAtomicFilter, error) {
	numShards := max(uint64(runtime.GOMAXPROCS(0)), 4)
	if m > 0 {
		numShards = min(numShards, uint64(m))
	}
	return NewShardedAtomic(m, k, numShards)
}

// Add adds x to the bloom filter.
func (f *ShardedAtomicFilter) Add(x Key) {
	bp := getKeyBuf(x)
	f.AddBytes(*bp)
	keyBufPool.Put(bp)
}

// AddBytes adds the key encoded by data.
func (f *ShardedAtomicFilter) AddBytes(data []byte) {
	f.shardFor(data).add(data)
}

// AddString adds the key encoded by s.
func (f *ShardedAtomicFilter) AddString(s string) {
	f.AddBytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// Has reports whether x might be in the bloom filter.
func (f *ShardedAtomicFilter) Has(x Key) bool {
	bp := getKeyBuf(x)
	present := f.HasBytes(*bp)
	keyBufPool.Put(bp)
	return present
}

// HasBytes reports whether the key encoded by data might be in the filter.
func (f *ShardedAtomicFilter) HasBytes(data []byte) bool {
	return f.shardFor(data).has(data)
}

// HasString reports whether the key encoded by s might be in the filter.
func (f *ShardedAtomicFilter) HasString(s string) bool {
	return f.HasBytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// TestAndAdd adds x and reports whether it might have been present before.
// Like [AtomicFilter.TestAndAdd] it is not a single atomic step.
func (f *ShardedAtomicFilter) TestAndAdd(x Key) bool {
	bp := getKeyBuf(x)
	shard := f.shardFor(*bp)
	present := shard.has(*bp)
	shard.add(*bp)
	keyBufPool.Put(bp)
	return present
}

// shardFor returns the shard that owns the encoded key.
func (f *ShardedAtomicFilter) shardFor(data []byte) *AtomicFilter {
	return f.shards[routeHash(data)&f.mask]
}

// M returns the total number of bits across all shards.
func (f *ShardedAtomicFilter) M() uint64 {
	var total uint64
	for _, shard := range f.shards {
		total += shard.M()
	}
	return total
}

// K returns the number of hash functions used per shard.
func (f *ShardedAtomicFilter) K() uint32 {
	return f.shards[0].K()
}

// Count returns the approximate total number of Add calls.
func (f *ShardedAtomicFilter) Count() uint64 {
	var total uint64
	for _, shard := range f.shards {
		total += shard.Count()
	}
	return total
}

// NumShards returns the number of shards.
func (f *ShardedAtomicFilter) NumShards() uint64 {
	return f.numShards
}

// EstimatedFillRatio estimates the fill ratio across all shards.
func (f *ShardedAtomicFilter) EstimatedFillRatio() float64 {
	var totalBits, setBits uint64
	for _, shard := range f.shards {
		totalBits += shard.M()
		setBits += shard.SetBits()
	}
	// totalBits is always > 0 since shards always have capacity
	return float64(setBits) / float64(totalBits)
}

// EstimatedFalsePositiveRate estimates the current false positive rate.
// For sharded filters, this is approximately the average across shards.
func (f *ShardedAtomicFilter) EstimatedFalsePositiveRate() float64 {
	var sum float64
	for _, shard := range f.shards {
		sum += shard.EstimatedFalsePositiveRate()
	}
	return sum / float64(f.numShards)
}

// nextPowerOf2 returns the smallest power of 2 >= n.
func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
