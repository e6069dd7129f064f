package seedbloom

import "sync"

// SyncFilter is a thread-safe [Filter] guarded by a read-write mutex. Add
// holds the lock exclusively and Has holds it shared, so a Has never
// observes a partially applied Add. Prefer [AtomicFilter] when callers can
// tolerate that race in exchange for lock-free reads.
type SyncFilter struct {
	mu sync.RWMutex
	f  *Filter
}

// NewSync creates an empty mutex-guarded filter with m bits and k hash
// functions using the default [XXH3] hasher.
func NewSync(m, k int) (*SyncFilter, error) {
	return NewSyncWithHasher(m, k, XXH3)
}

// NewSyncWithHasher creates an empty mutex-guarded filter with m bits and
// k hash functions derived from h.
func NewSyncWithHasher(m, k int, h Hasher) (*SyncFilter, error) {
	f, err := NewWithHasher(m, k, h)
	if err != nil {
		return nil, err
	}
	return &SyncFilter{f: f}, nil
}

// Add adds x to the filter.
func (s *SyncFilter) Add(x Key) {
	s.mu.Lock()
	s.f.Add(x)
	s.mu.Unlock()
}

// AddBytes adds the key encoded by data.
func (s *SyncFilter) AddBytes(data []byte) {
	s.mu.Lock()
	s.f.AddBytes(data)
	s.mu.Unlock()
}

// AddString adds the key encoded by str.
func (s *SyncFilter) AddString(str string) {
	s.mu.Lock()
	s.f.AddString(str)
	s.mu.Unlock()
}

// Has reports whether x might be in the filter.
func (s *SyncFilter) Has(x Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Has(x)
}

// HasBytes reports whether the key encoded by data might be in the filter.
func (s *SyncFilter) HasBytes(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.HasBytes(data)
}

// HasString reports whether the key encoded by str might be in the filter.
func (s *SyncFilter) HasString(str string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.HasString(str)
}

// TestAndAdd adds x and reports whether it might have been present before.
// Unlike [AtomicFilter.TestAndAdd] this is a single atomic step.
func (s *SyncFilter) TestAndAdd(x Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestAndAdd(x)
}

// M returns the number of bits in the filter.
func (s *SyncFilter) M() uint64 {
	return s.f.M()
}

// K returns the number of hash functions.
func (s *SyncFilter) K() uint32 {
	return s.f.K()
}

// Hasher returns the digest primitive the hash functions are derived from.
func (s *SyncFilter) Hasher() Hasher {
	return s.f.Hasher()
}

// Count returns the number of Add calls made on the filter.
func (s *SyncFilter) Count() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Count()
}

// SetBits returns the number of bits currently set.
func (s *SyncFilter) SetBits() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.SetBits()
}

// EstimatedFillRatio returns the proportion of bits that are set.
func (s *SyncFilter) EstimatedFillRatio() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.EstimatedFillRatio()
}

// EstimatedFalsePositiveRate estimates the current false positive rate.
func (s *SyncFilter) EstimatedFalsePositiveRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.EstimatedFalsePositiveRate()
}
