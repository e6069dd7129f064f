package seedbloom

import "math"

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

// OptimalParams calculates bloom filter parameters for the expected number
// of items and desired false positive rate. The result is only advice:
// constructors take m and k directly and never size themselves.
func OptimalParams(expectedItems uint64, fpRate float64) (m, k int) {
	if expectedItems == 0 {
		expectedItems = 1
	}
	if fpRate <= 0 {
		fpRate = 0.0001 // default to 0.01%
	}
	if fpRate >= 1 {
		fpRate = 0.99
	}

	// Optimal bits: -n * ln(fpRate) / ln(2)^2
	bits := math.Ceil(-float64(expectedItems) * math.Log(fpRate) / ln2Squared)
	m = max(int(bits), 1)

	// Optimal k: (m/n) * ln(2)
	k = int(math.Round(float64(m) / float64(expectedItems) * ln2))
	k = max(k, 1)

	return m, k
}

// EstimateFalsePositiveRate estimates the false positive rate of a filter
// with m bits and k hash functions after itemsAdded adds.
// Formula: (1 - e^(-kn/m))^k
func EstimateFalsePositiveRate(m uint64, k uint32, itemsAdded uint64) float64 {
	if m == 0 || itemsAdded == 0 {
		return 0
	}

	mf := float64(m)
	n := float64(itemsAdded)
	kf := float64(k)

	return math.Pow(1-math.Exp(-kf*n/mf), kf)
}
