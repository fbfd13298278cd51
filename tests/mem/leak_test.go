//go:build test

package mem

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/rankserve/pkg/candidate"
	"github.com/bastiangx/rankserve/pkg/fuzzy"
	"github.com/bastiangx/rankserve/pkg/session"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var testPrefixes = []string{
	"a", "ap", "app", "appe",
	"m", "ma", "map", "mapp",
	"c", "co", "cou", "coun", "count",
	"h", "ha", "has", "hasP", "hasPre",
	"i", "in", "ins", "inse", "insert",
	"f", "fi", "fil", "filt", "filter",
}

func syntheticBackend(n int) *session.SliceBackend {
	roots := []string{"append", "map", "count", "hasPrefix", "insert", "filter", "compact", "contains"}
	b := &session.SliceBackend{
		Cands:   make([]candidate.Candidate, n),
		Signals: make([]session.Signals, n),
	}
	for i := range b.Cands {
		name := fmt.Sprintf("%s%d(_:)", roots[i%len(roots)], i)
		b.Cands[i] = candidate.Candidate{
			Index:      i,
			Label:      name,
			FilterText: name,
			InsertText: name,
			Kind:       candidate.KindInstanceMethod,
			ModuleName: "Swift",
		}
		b.Signals[i] = session.Signals{
			Context: candidate.SemanticContext(i % 7),
		}
	}
	return b
}

// TestQueryMemoryStability drives thousands of queries through one session
// and checks that heap use settles instead of growing per keystroke. The
// scratch arena should absorb all per-query allocation.
func TestQueryMemoryStability(t *testing.T) {
	sess, err := session.New(context.Background(), syntheticBackend(50000), fuzzy.New(), nil,
		session.Location{Path: "synthetic.swift"}, session.Options{MaxResults: 128})
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.WarmUp(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Warm the steady state before measuring.
	for i := 0; i < 100; i++ {
		if _, err := sess.Query(context.Background(), testPrefixes[i%len(testPrefixes)], 0); err != nil {
			t.Fatal(err)
		}
	}

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	const rounds = 5000
	for i := 0; i < rounds; i++ {
		if _, err := sess.Query(context.Background(), testPrefixes[i%len(testPrefixes)], 0); err != nil {
			t.Fatal(err)
		}
	}

	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	grown := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	t.Logf("heap delta after %d queries: %d bytes", rounds, grown)

	// Allow slack for runtime noise; per-query leaks at this round count
	// would show up in the tens of megabytes.
	if grown > 8<<20 {
		t.Errorf("heap grew by %d bytes over %d queries", grown, rounds)
	}
}
