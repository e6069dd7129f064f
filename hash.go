package seedbloom

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher is the digest primitive that every filter derives its k hash
// functions from. Sum128 returns the leading 128 bits of the digest of data
// under the given seed, as a big-endian (hi, lo) pair. Implementations must
// be pure: the same (seed, data) always yields the same result.
type Hasher interface {
	Sum128(seed uint32, data []byte) (hi, lo uint64)
}

var (
	// XXH3 is the default hasher: 128-bit xxh3 with the seed fed as the
	// native xxh3 seed.
	XXH3 Hasher = xxh3Hasher{}

	// XXHash64 uses 64-bit xxhash. The high word is always zero.
	XXHash64 Hasher = xxhashHasher{}

	// Murmur3 uses the x64 128-bit variant of murmur3.
	Murmur3 Hasher = murmur3Hasher{}

	// MD5 digests the decimal text of the seed followed by data. It is much
	// slower than the non-cryptographic hashers and exists for compatibility
	// with filters built by the md5 reference construction.
	MD5 Hasher = md5Hasher{}
)

type xxh3Hasher struct{}

func (xxh3Hasher) Sum128(seed uint32, data []byte) (hi, lo uint64) {
	h := xxh3.Hash128Seed(data, uint64(seed))
	return h.Hi, h.Lo
}

func (xxh3Hasher) String() string { return "xxh3" }

type xxhashHasher struct{}

func (xxhashHasher) Sum128(seed uint32, data []byte) (hi, lo uint64) {
	var d xxhash.Digest
	d.ResetWithSeed(uint64(seed))
	_, _ = d.Write(data)
	return 0, d.Sum64()
}

func (xxhashHasher) String() string { return "xxhash64" }

type murmur3Hasher struct{}

func (murmur3Hasher) Sum128(seed uint32, data []byte) (hi, lo uint64) {
	return murmur3.Sum128WithSeed(data, seed)
}

func (murmur3Hasher) String() string { return "murmur3" }

type md5Hasher struct{}

func (md5Hasher) Sum128(seed uint32, data []byte) (hi, lo uint64) {
	bp := keyBufPool.Get().(*[]byte)
	buf := strconv.AppendUint((*bp)[:0], uint64(seed), 10)
	buf = append(buf, data...)
	sum := md5.Sum(buf)
	*bp = buf
	keyBufPool.Put(bp)

	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:])
}

func (md5Hasher) String() string { return "md5" }

// hashToIndex reduces the 128-bit big-endian digest of data under seed
// modulo m. The result is always in [0, m).
func hashToIndex(h Hasher, seed uint32, data []byte, m uint64) uint64 {
	hi, lo := h.Sum128(seed, data)
	// Rem64 does not require hi < m, unlike Div64.
	return bits.Rem64(hi, lo, m)
}

// routingSeed selects a shard independently of the per-filter seeds, which
// are always small integers in [0, k).
const routingSeed = 0x9e3779b97f4a7c15

// routeHash returns the hash used to pick a shard for data.
func routeHash(data []byte) uint64 {
	return xxh3.HashSeed(data, routingSeed)
}
