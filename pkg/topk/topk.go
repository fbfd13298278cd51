// Package topk extracts the K best elements of a slice without fully
// sorting it. For the per-keystroke ranking path N can exceed 100k while K
// stays in the hundreds, so the partial heapsort's O(N + K·log N) beats a
// full O(N·log N) sort by a wide margin.
package topk

import "github.com/charmbracelet/log"

// Select moves the k best elements under better to items[:k] and returns
// that prefix. better must be a strict weak ordering ("a is strictly better
// than b"). The order inside the returned prefix is unspecified; callers
// wanting display order sort just the prefix afterwards. The remaining
// elements stay in the slice in unspecified order.
//
// k <= 0 yields an empty prefix; k >= len(items) returns items unchanged.
// A negative k is a programming error and is clamped.
func Select[T any](items []T, k int, better func(a, b T) bool) []T {
	n := len(items)
	if k < 0 {
		log.Errorf("topk: negative k %d, clamping to 0", k)
		k = 0
	}
	if k == 0 || n == 0 {
		return items[:0]
	}
	if k >= n {
		return items
	}

	// Heapify with the best element at the root. The comparator stays
	// strict on purpose: equal elements never test better, so ties never
	// trigger a swap during sifting.
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(items, i, n, better)
	}

	// Extract the best k to the back of the live region.
	for j := 0; j < k; j++ {
		last := n - 1 - j
		items[0], items[last] = items[last], items[0]
		siftDown(items, 0, last, better)
	}

	// items[n-k:] now holds the winners. Rotate them to the front with the
	// three-reversal trick so the n-k losers stay present behind them.
	reverse(items[:n-k])
	reverse(items[n-k:])
	reverse(items)
	return items[:k]
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// siftDown restores the heap property below node i. Iterative so stack
// depth never grows with n.
func siftDown[T any](items []T, i, n int, better func(a, b T) bool) {
	for {
		best := i
		if l := 2*i + 1; l < n && better(items[l], items[best]) {
			best = l
		}
		if r := 2*i + 2; r < n && better(items[r], items[best]) {
			best = r
		}
		if best == i {
			return
		}
		items[i], items[best] = items[best], items[i]
		i = best
	}
}
