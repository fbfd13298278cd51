// Package arena implements a fixed-capacity, page-granular bump allocator
// for per-query scratch buffers. Allocation inside capacity is a cursor
// bump; past capacity it falls back to the ordinary heap so correctness
// never depends on the configured size. Releases must nest in strict LIFO
// order within one arena.
package arena

import (
	"github.com/charmbracelet/log"
)

// StrictChecks controls how LIFO violations and bad sizes are handled.
// When set, misuse panics; otherwise it logs and clamps. The server binary
// turns this off outside debug mode.
var StrictChecks = true

// Buffer is one allocation. Data is valid until the buffer is freed.
type Buffer[T any] struct {
	Data []T

	base  int // element offset into the backing store, -1 for heap fallback
	pages int
}

// Heap reports whether the buffer came from the fallback path.
func (b Buffer[T]) Heap() bool { return b.base < 0 }

// Arena hands out scratch buffers from one owned backing store.
// It is not safe for concurrent use; each query holds its own arena.
type Arena[T any] struct {
	backing  []T
	pageSize int
	cursor   int // high-water mark, always page aligned

	fallbacks int
}

// New creates an arena with pageCount pages of pageSize elements each.
func New[T any](pageCount, pageSize int) *Arena[T] {
	if pageCount < 1 {
		pageCount = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return &Arena[T]{
		backing:  make([]T, pageCount*pageSize),
		pageSize: pageSize,
	}
}

// Alloc returns a buffer of n elements. The buffer occupies whole pages of
// the backing store, or comes from the heap when the remaining capacity is
// too small.
func (a *Arena[T]) Alloc(n int) Buffer[T] {
	if n < 0 {
		if StrictChecks {
			panic("arena: negative allocation size")
		}
		log.Errorf("arena: negative allocation size %d, clamping to 0", n)
		n = 0
	}
	pages := (n + a.pageSize - 1) / a.pageSize
	need := pages * a.pageSize
	if a.cursor+need > len(a.backing) {
		a.fallbacks++
		return Buffer[T]{Data: make([]T, n), base: -1}
	}
	base := a.cursor
	a.cursor += need
	return Buffer[T]{
		Data:  a.backing[base : base+n : base+need],
		base:  base,
		pages: pages,
	}
}

// Free releases a buffer. Buffers must be freed in the exact reverse order
// of allocation; a mismatch is a programming error.
func (a *Arena[T]) Free(b Buffer[T]) {
	if b.Heap() {
		return
	}
	end := b.base + b.pages*a.pageSize
	if end != a.cursor {
		if StrictChecks {
			panic("arena: out-of-order free, buffer is not at the high-water mark")
		}
		log.Error("arena: out-of-order free ignored",
			"base", b.base, "end", end, "cursor", a.cursor)
		return
	}
	clear(a.backing[b.base:end])
	a.cursor = b.base
}

// Mark returns the current allocation cursor in elements.
func (a *Arena[T]) Mark() int { return a.cursor }

// Fallbacks returns how many allocations missed the backing store.
func (a *Arena[T]) Fallbacks() int { return a.fallbacks }
