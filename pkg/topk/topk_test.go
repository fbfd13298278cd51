package topk

import (
	"math/rand"
	"sort"
	"testing"
)

func intBetter(a, b int) bool { return a > b }

// TestMatchesFullSort checks the winner *set* against a full sort across
// random inputs, including heavy duplicates.
func TestMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(500)
		k := rng.Intn(60)
		valueRange := 1 + rng.Intn(50) // small range forces ties

		items := make([]int, n)
		for i := range items {
			items[i] = rng.Intn(valueRange)
		}

		sorted := append([]int(nil), items...)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

		winners := Select(items, k, intBetter)

		wantLen := k
		if n < k {
			wantLen = n
		}
		if len(winners) != wantLen {
			t.Fatalf("trial %d: got %d winners, want %d", trial, len(winners), wantLen)
		}

		// Compare as multisets.
		got := append([]int(nil), winners...)
		sort.Sort(sort.Reverse(sort.IntSlice(got)))
		for i := range got {
			if got[i] != sorted[i] {
				t.Fatalf("trial %d (n=%d k=%d): winners %v != full sort prefix %v",
					trial, n, k, got, sorted[:wantLen])
			}
		}
	}
}

func TestNoDataLoss(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := make([]int, 300)
	for i := range items {
		items[i] = rng.Intn(40)
	}
	before := append([]int(nil), items...)
	sort.Ints(before)

	Select(items, 25, intBetter)

	after := append([]int(nil), items...)
	sort.Ints(after)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("selection lost or duplicated elements")
		}
	}
}

func TestIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	items := make([]int, 200)
	for i := range items {
		items[i] = rng.Intn(30)
	}

	first := append([]int(nil), Select(items, 20, intBetter)...)
	second := append([]int(nil), Select(items, 20, intBetter)...)

	sort.Ints(first)
	sort.Ints(second)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("re-running selection changed the winner set")
		}
	}
}

func TestBoundaries(t *testing.T) {
	if got := Select([]int{3, 1, 2}, 0, intBetter); len(got) != 0 {
		t.Errorf("k=0: got %v, want empty", got)
	}
	if got := Select([]int{}, 5, intBetter); len(got) != 0 {
		t.Errorf("empty input: got %v, want empty", got)
	}
	if got := Select([]int{3, 1, 2}, 3, intBetter); len(got) != 3 {
		t.Errorf("k=n: got %v, want all three", got)
	}
	if got := Select([]int{3, 1}, 10, intBetter); len(got) != 2 {
		t.Errorf("k>n: got %v, want both", got)
	}
	if got := Select([]int{3, 1, 2}, -1, intBetter); len(got) != 0 {
		t.Errorf("negative k: got %v, want clamp to empty", got)
	}
	if got := Select([]int{9}, 1, intBetter); len(got) != 1 || got[0] != 9 {
		t.Errorf("single element: got %v", got)
	}
}

// Large k relative to n exercises the overlapping winner move.
func TestLargeK(t *testing.T) {
	items := []int{5, 9, 1, 7, 3, 8, 2}
	winners := Select(items, 5, intBetter)
	got := append([]int(nil), winners...)
	sort.Sort(sort.Reverse(sort.IntSlice(got)))
	want := []int{9, 8, 7, 5, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("winners = %v, want %v as a set", got, want)
		}
	}
}
