package seedbloom

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSyncFilterBasic(t *testing.T) {
	f, err := NewSync(10_000, 7)
	if err != nil {
		t.Fatal(err)
	}

	f.Add(Int(1))
	f.AddBytes([]byte("bytes"))
	f.AddString("str")

	if !f.Has(Int(1)) || !f.HasBytes([]byte("bytes")) || !f.HasString("str") {
		t.Error("expected all added keys to be present")
	}
	if f.Count() != 3 {
		t.Errorf("Count() = %d, want 3", f.Count())
	}
	if f.M() != 10_000 || f.K() != 7 {
		t.Errorf("M(), K() = %d, %d; want 10000, 7", f.M(), f.K())
	}
}

func TestSyncFilterInvalidParameters(t *testing.T) {
	if _, err := NewSync(0, 3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewSyncWithHasher(200, 3, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for nil hasher, got %v", err)
	}
}

func TestSyncFilterConcurrent(t *testing.T) {
	f, err := NewSyncWithHasher(1_000_000, 7, XXHash64)
	if err != nil {
		t.Fatal(err)
	}

	const numGoroutines = 8
	const itemsPerGoroutine = 5000

	var wg sync.WaitGroup
	var missing atomic.Int64
	wg.Add(numGoroutines)

	for g := range numGoroutines {
		go func(goroutineID int) {
			defer wg.Done()
			for i := range itemsPerGoroutine {
				x := Int(goroutineID*itemsPerGoroutine + i)
				f.Add(x)
				// Under the mutex a completed Add is always visible.
				if !f.Has(x) {
					missing.Add(1)
				}
			}
		}(g)
	}

	wg.Wait()

	if missing.Load() > 0 {
		t.Errorf("%d keys missing immediately after Add", missing.Load())
	}
	if f.Count() != numGoroutines*itemsPerGoroutine {
		t.Errorf("Count() = %d, want %d", f.Count(), numGoroutines*itemsPerGoroutine)
	}
}

func TestSyncFilterTestAndAddIsAtomic(t *testing.T) {
	f, err := NewSync(1_000_000, 7)
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 16
	var firsts atomic.Int64
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			if !f.TestAndAdd(String("contended")) {
				firsts.Add(1)
			}
		}()
	}

	wg.Wait()

	if firsts.Load() != 1 {
		t.Errorf("expected exactly one TestAndAdd to see a new key, got %d", firsts.Load())
	}
}

func TestSyncFilterEstimates(t *testing.T) {
	f, err := NewSync(10_000, 7)
	if err != nil {
		t.Fatal(err)
	}

	if f.EstimatedFillRatio() != 0 || f.EstimatedFalsePositiveRate() != 0 {
		t.Error("expected zero estimates for an empty filter")
	}

	for i := range 500 {
		f.Add(Uint(i))
	}

	if r := f.EstimatedFillRatio(); r <= 0 || r >= 1 {
		t.Errorf("expected fill ratio between 0 and 1, got %f", r)
	}
	if r := f.EstimatedFalsePositiveRate(); r <= 0 || r >= 1 {
		t.Errorf("expected FP rate between 0 and 1, got %f", r)
	}
}

func TestSyncFilterAccessors(t *testing.T) {
	f, err := NewSyncWithHasher(512, 4, Murmur3)
	if err != nil {
		t.Fatal(err)
	}

	if f.Hasher() != Murmur3 {
		t.Errorf("Hasher() = %v, want murmur3", f.Hasher())
	}
	if f.SetBits() != 0 {
		t.Errorf("SetBits() = %d, want 0", f.SetBits())
	}

	f.Add(String("one"))
	if n := f.SetBits(); n == 0 || n > 4 {
		t.Errorf("SetBits() = %d after one add, want 1..4", n)
	}

	// A SyncFilter sets the same bits as a Filter with the same parameters.
	plain, err := NewWithHasher(512, 4, Murmur3)
	if err != nil {
		t.Fatal(err)
	}
	plain.Add(String("one"))
	if f.SetBits() != plain.SetBits() {
		t.Errorf("SetBits() = %d, want %d", f.SetBits(), plain.SetBits())
	}
}

func TestSyncFilterReadersAndWriter(t *testing.T) {
	f, err := NewSync(1<<20, 3)
	if err != nil {
		t.Fatal(err)
	}

	const added = 1000
	for x := range added {
		f.Add(Int(x))
	}

	var wg sync.WaitGroup
	var missing atomic.Int64

	// One writer keeps adding new keys while readers query the old ones.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for x := added; x < 4*added; x++ {
			f.AddString(fmt.Sprint(x))
		}
	}()

	const numReaders = 8
	wg.Add(numReaders)
	for range numReaders {
		go func() {
			defer wg.Done()
			for x := range added {
				if !f.Has(Int(x)) || f.SetBits() == 0 {
					missing.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	if n := missing.Load(); n > 0 {
		t.Errorf("false negatives while a writer was active: %d", n)
	}
}
