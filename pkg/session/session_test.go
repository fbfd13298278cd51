package session

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/bastiangx/rankserve/pkg/candidate"
	"github.com/bastiangx/rankserve/pkg/fuzzy"
)

func testLoc() Location {
	return Location{Path: "main.swift", Line: 10, Column: 4}
}

func newTestSession(t *testing.T, b *SliceBackend, opts Options) *Session {
	t.Helper()
	s, err := New(context.Background(), b, fuzzy.New(), nil, testLoc(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestQueryFiltersAndRanks(t *testing.T) {
	b := &SliceBackend{
		Cands: []candidate.Candidate{
			{Index: 0, FilterText: "applyTransform()", Label: "applyTransform()", Kind: candidate.KindFreeFunction},
			{Index: 1, FilterText: "appDelegate", Label: "appDelegate", Kind: candidate.KindLocalVar},
			{Index: 2, FilterText: "append(_:)", Label: "append(_:)", Kind: candidate.KindInstanceMethod},
			{Index: 3, FilterText: "banana", Label: "banana", Kind: candidate.KindLocalVar},
		},
		Signals: []Signals{
			{Context: candidate.ContextOtherModule, HasImportInfo: true, ModImported: true},
			{Context: candidate.ContextLocal},
			{Context: candidate.ContextCurrentContainer, TypeRelation: candidate.RelationIdentical},
			{Context: candidate.ContextLocal},
		},
	}
	s := newTestSession(t, b, Options{})

	results, err := s.Query(context.Background(), "app", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Label
	}
	// Type-matched container member first, then the local, then the
	// other-module function. "banana" cannot match the prefix at all.
	want := []string{"append(_:)", "appDelegate", "applyTransform()"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestQueryPreservesCandidateSet(t *testing.T) {
	b := &SliceBackend{Cands: make([]candidate.Candidate, 64)}
	for i := range b.Cands {
		b.Cands[i] = candidate.Candidate{Index: i, FilterText: fmt.Sprintf("value%d", i), Kind: candidate.KindLocalVar}
	}
	s := newTestSession(t, b, Options{MaxResults: 5})

	before := make([]candidate.Candidate, len(b.Cands))
	copy(before, b.Cands)
	if _, err := s.Query(context.Background(), "value", 0); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !reflect.DeepEqual(b.Cands, before) {
		t.Error("query mutated the candidate set")
	}
}

func TestMaxResults(t *testing.T) {
	b := &SliceBackend{Cands: make([]candidate.Candidate, 40)}
	for i := range b.Cands {
		b.Cands[i] = candidate.Candidate{Index: i, FilterText: "itemValue", Kind: candidate.KindInstanceVar}
	}
	s := newTestSession(t, b, Options{MaxResults: 10})

	results, err := s.Query(context.Background(), "item", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("got %d results, want 10", len(results))
	}
	// All forty candidates tie on bucket and both scores, so the index
	// tie-break must pick the first ten in order.
	for i, r := range results {
		if r.Index != i {
			t.Errorf("results[%d].Index = %d, want %d", i, r.Index, i)
		}
	}
}

func TestQueryLimit(t *testing.T) {
	b := &SliceBackend{Cands: make([]candidate.Candidate, 40)}
	for i := range b.Cands {
		b.Cands[i] = candidate.Candidate{Index: i, FilterText: "itemValue", Kind: candidate.KindInstanceVar}
	}
	s := newTestSession(t, b, Options{MaxResults: 10})

	results, err := s.Query(context.Background(), "item", 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results with limit 3, want 3", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("results[%d].Index = %d, want %d", i, r.Index, i)
		}
	}

	// A limit above MaxResults does not raise the session cap.
	results, err = s.Query(context.Background(), "item", 25)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 10 {
		t.Errorf("got %d results with limit 25, want 10", len(results))
	}
}

func TestEmptyPrefixMatchesAll(t *testing.T) {
	b := &SliceBackend{Cands: []candidate.Candidate{
		{Index: 0, FilterText: "alpha", Kind: candidate.KindLocalVar},
		{Index: 1, FilterText: "omega", Kind: candidate.KindLocalVar},
	}}
	s := newTestSession(t, b, Options{})

	results, err := s.Query(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("empty prefix returned %d results, want 2", len(results))
	}
}

func TestOverloadGrouping(t *testing.T) {
	b := &SliceBackend{Cands: []candidate.Candidate{
		{Index: 0, FilterText: "map(transform:)", Kind: candidate.KindInstanceMethod},
		{Index: 1, FilterText: "map(keyPath:)", Kind: candidate.KindInstanceMethod},
		{Index: 2, FilterText: "max()", Kind: candidate.KindInstanceMethod},
		{Index: 3, FilterText: "magnitude", Kind: candidate.KindInstanceVar},
		{Index: 4, FilterText: "mutating", Kind: candidate.KindKeyword},
	}}
	s := newTestSession(t, b, Options{})

	results, err := s.Query(context.Background(), "m", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	byLabel := map[string]Result{}
	for _, r := range results {
		byLabel[r.FilterText] = r
	}

	if a, b := byLabel["map(transform:)"].GroupID, byLabel["map(keyPath:)"].GroupID; a != b {
		t.Errorf("overloads split across groups %d and %d", a, b)
	}
	if a, b := byLabel["map(transform:)"].GroupID, byLabel["max()"].GroupID; a == b {
		t.Errorf("distinct base names share group %d", a)
	}
	if g := byLabel["magnitude"].GroupID; g != -1 {
		t.Errorf("variable grouped as %d, want -1", g)
	}
	if g := byLabel["mutating"].GroupID; g != -1 {
		t.Errorf("keyword grouped as %d, want -1", g)
	}
}

func TestDeprecatedRanksBehind(t *testing.T) {
	b := &SliceBackend{
		Cands: []candidate.Candidate{
			{Index: 0, FilterText: "oldCount", Kind: candidate.KindInstanceVar, NotRecommended: candidate.ReasonDeprecated},
			{Index: 1, FilterText: "count", Kind: candidate.KindInstanceVar},
		},
		Signals: []Signals{
			{Context: candidate.ContextCurrentContainer},
			{Context: candidate.ContextCurrentContainer},
		},
	}
	s := newTestSession(t, b, Options{})

	results, err := s.Query(context.Background(), "c", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if results[len(results)-1].FilterText != "oldCount" {
		t.Errorf("deprecated candidate did not sink: %+v", results)
	}
}

func TestDeterminism(t *testing.T) {
	b := &SliceBackend{Cands: make([]candidate.Candidate, 200)}
	for i := range b.Cands {
		b.Cands[i] = candidate.Candidate{
			Index:      i,
			FilterText: fmt.Sprintf("symbol%03d", i),
			Kind:       candidate.Kind(i%int(candidate.KindMacro) + 1),
		}
	}
	s := newTestSession(t, b, Options{MaxResults: 50})

	first, err := s.Query(context.Background(), "sym", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for trial := 0; trial < 5; trial++ {
		again, err := s.Query(context.Background(), "sym", 0)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("trial %d diverged from the first query", trial)
		}
	}
}

func TestCancellation(t *testing.T) {
	b := &SliceBackend{Cands: make([]candidate.Candidate, 10)}
	for i := range b.Cands {
		b.Cands[i] = candidate.Candidate{Index: i, FilterText: "name", Kind: candidate.KindLocalVar}
	}
	s := newTestSession(t, b, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Query(ctx, "n", 0); err == nil {
		t.Fatal("canceled query returned no error")
	}

	// The abandoned query must not leak scratch state that would break
	// the next one.
	if _, err := s.Query(context.Background(), "n", 0); err != nil {
		t.Fatalf("query after cancellation: %v", err)
	}
}

func TestAnnotateAndDebug(t *testing.T) {
	b := &SliceBackend{Cands: []candidate.Candidate{
		{Index: 0, FilterText: "count", TypeName: "Int", ModuleName: "Swift", Kind: candidate.KindInstanceVar},
	}}
	s := newTestSession(t, b, Options{AnnotateResults: true, SemanticDebug: true})

	results, err := s.Query(context.Background(), "c", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got, want := results[0].Detail, "Int (Swift)"; got != want {
		t.Errorf("Detail = %q, want %q", got, want)
	}
	if !strings.Contains(results[0].Debug, "bucket=") {
		t.Errorf("Debug breakdown missing: %q", results[0].Debug)
	}

	plain := newTestSession(t, b, Options{})
	results, err = plain.Query(context.Background(), "c", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if results[0].Detail != "Int" {
		t.Errorf("unannotated Detail = %q, want %q", results[0].Detail, "Int")
	}
	if results[0].Debug != "" {
		t.Errorf("Debug set without debug mode: %q", results[0].Debug)
	}
}

func TestWarmUpMatchesLazy(t *testing.T) {
	b := &SliceBackend{Cands: make([]candidate.Candidate, 100)}
	for i := range b.Cands {
		b.Cands[i] = candidate.Candidate{Index: i, FilterText: fmt.Sprintf("entry%d", i), Kind: candidate.KindFreeFunction}
	}
	warm := newTestSession(t, b, Options{Workers: 8})
	if err := warm.WarmUp(context.Background()); err != nil {
		t.Fatalf("WarmUp: %v", err)
	}
	lazy := newTestSession(t, b, Options{})

	a, err := warm.Query(context.Background(), "entry", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	c, err := lazy.Query(context.Background(), "entry", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !reflect.DeepEqual(a, c) {
		t.Error("warmed and lazy sessions rank differently")
	}
}
