package cache

import (
	"sync"
	"testing"
)

func TestSnapshotReplaceAndVersion(t *testing.T) {
	s := NewSnapshot[int]()
	if s.Len() != 0 || s.Version() != 0 {
		t.Fatalf("fresh snapshot: len=%d version=%d", s.Len(), s.Version())
	}

	s.Replace([]int{1, 2, 3})
	if s.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", s.Len())
	}
	if s.Version() != 1 {
		t.Fatalf("expected version 1, got %d", s.Version())
	}

	s.Replace(nil)
	if s.Len() != 0 || s.Version() != 2 {
		t.Fatalf("after clearing: len=%d version=%d", s.Len(), s.Version())
	}
}

func TestSnapshotRecordsReturnsCopy(t *testing.T) {
	s := NewSnapshot[int]()
	s.Replace([]int{1, 2})

	got := s.Records()
	got[0] = 99

	again := s.Records()
	if again[0] != 1 {
		t.Fatalf("snapshot mutated through returned slice: %v", again)
	}
}

func TestViewMemoizesPerVersion(t *testing.T) {
	s := NewSnapshot[int]()
	calls := 0
	v := NewView(s, func(records []int) int {
		calls++
		sum := 0
		for _, n := range records {
			sum += n
		}
		return sum
	})

	if got := v.Get(); got != 0 {
		t.Fatalf("empty snapshot: expected 0, got %d", got)
	}
	if got := v.Get(); got != 0 {
		t.Fatalf("repeat read: expected 0, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call for unchanged snapshot, got %d", calls)
	}

	s.Replace([]int{2, 3})
	if got := v.Get(); got != 5 {
		t.Fatalf("after replace: expected 5, got %d", got)
	}
	if calls != 2 {
		t.Fatalf("expected recompute after replace, got %d calls", calls)
	}
}

func TestViewConcurrentReads(t *testing.T) {
	s := NewSnapshot[int]()
	s.Replace([]int{1, 1, 1})
	v := NewView(s, func(records []int) int { return len(records) })

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := v.Get(); got != 3 {
				t.Errorf("expected 3, got %d", got)
			}
		}()
	}
	wg.Wait()
}

func TestDeriveHelpers(t *testing.T) {
	records := []int{1, 2, 3, 4}

	even := Filter(records, func(n int) bool { return n%2 == 0 })
	if len(even) != 2 || even[0] != 2 || even[1] != 4 {
		t.Fatalf("Filter: got %v", even)
	}

	if sum := SumCents(records, func(n int) int64 { return int64(n) }); sum != 10 {
		t.Fatalf("SumCents: expected 10, got %d", sum)
	}

	groups := GroupBy(records, func(n int) string {
		if n%2 == 0 {
			return "even"
		}
		return "odd"
	})
	if len(groups) != 2 || len(groups["even"]) != 2 || len(groups["odd"]) != 2 {
		t.Fatalf("GroupBy: got %v", groups)
	}
}
