// Package seedbloom provides bloom filters built from a single seeded digest.
//
// A bloom filter is a space-efficient probabilistic data structure that tests
// whether an element is a member of a set. False positive matches are possible,
// but false negatives are not – if the filter says an element is not present,
// it definitely is not. If it says an element might be present, it could be a
// false positive. Elements can never be removed.
//
// # Construction
//
// A filter has m bits and k hash functions, both chosen by the caller:
//
//	f, err := seedbloom.New(200, 3)
//	if err != nil {
//		// m or k was not positive; err wraps ErrInvalidParameter
//	}
//
// Filters never size themselves. [OptimalParams] turns an expected item
// count and a target false positive rate into a suggested (m, k) pair.
//
// # Hash Functions
//
// Hash function i (for i in [0, k)) is the filter's [Hasher] seeded with i.
// The leading 128 bits of the digest are read as a big-endian unsigned
// integer and reduced modulo m. One primitive with k seeds simulates k
// independent hash functions without k separate algorithms.
//
// Four primitives are provided:
//   - [XXH3] (default): fast 128-bit xxh3
//   - [XXHash64]: 64-bit xxhash
//   - [Murmur3]: 128-bit murmur3
//   - [MD5]: md5 over the decimal seed followed by the key, for
//     compatibility with the textbook md5 construction
//
// # Keys
//
// Anything implementing [Key] can be added: it appends a canonical byte
// encoding of itself. [Int], [Uint], [Decimal], [String] and [Bytes] cover the
// common cases. Two values with the same encoding are the same element.
//
// # Implementations
//
// [Filter] is the fastest option for single-threaded workloads. It has no
// synchronization and is NOT safe for concurrent modification. Its query
// methods only read, so callers may share one Filter among readers behind a
// sync.RWMutex, taking the write lock for Add and the read lock for Has.
//
// [SyncFilter] guards a [Filter] with a read-write mutex. Every Has sees
// either all or none of a concurrent Add's bits.
//
// [AtomicFilter] sets bits with lock-free atomic operations. A Has that
// races with an Add of the same key may miss it; keys added earlier are
// always found.
//
// [ShardedAtomicFilter] routes keys across independent [AtomicFilter] shards
// to reduce contention under heavy parallel writes.
//
// # False Positive Rate
//
// After n adds the false positive rate approaches
//
//	(1 - e^(-kn/m))^k
//
// Use [Filter.EstimatedFalsePositiveRate] to monitor it.
//
// # References
//
//   - Space/Time Trade-offs in Hash Coding with Allowable Errors: https://dl.acm.org/doi/10.1145/362686.362692
//   - Less Hashing, Same Performance: https://www.eecs.harvard.edu/~michaelm/postscripts/rsa2008.pdf
package seedbloom
