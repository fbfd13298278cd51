package fuzzy

import "testing"

// Tests the default matcher against the preferences the ranking path
// relies on: prefixes beat scattered matches, camelCase initials work,
// non-subsequences are excluded.

func TestExclusion(t *testing.T) {
	m := New()

	excluded := []struct{ text, pattern string }{
		{"count", "z"},
		{"append", "appz"},
		{"map", "pam"}, // order matters
		{"", "a"},
	}
	for _, tc := range excluded {
		if _, ok := m.Match(tc.text, tc.pattern); ok {
			t.Errorf("Match(%q, %q) matched, want excluded", tc.text, tc.pattern)
		}
	}

	included := []struct{ text, pattern string }{
		{"count", "count"},
		{"count", "cnt"},
		{"hasPrefix", "hp"},
		{"Array", "arr"},
		{"anything", ""},
	}
	for _, tc := range included {
		if _, ok := m.Match(tc.text, tc.pattern); !ok {
			t.Errorf("Match(%q, %q) excluded, want matched", tc.text, tc.pattern)
		}
	}
}

func TestPreferences(t *testing.T) {
	m := New()

	better := []struct {
		desc            string
		text, pattern   string
		worse, worsePat string
	}{
		{"prefix beats scattered", "append", "app", "zapped", "app"},
		{"camelCase initials beat plain subsequence", "hasPrefix", "hP", "haspttrnx", "hp"},
		{"short candidate beats long at same prefix", "map", "ma", "mapValues", "ma"},
		{"leading match beats late match", "count", "c", "archive", "c"},
	}
	for _, tc := range better {
		a, ok1 := m.Match(tc.text, tc.pattern)
		b, ok2 := m.Match(tc.worse, tc.worsePat)
		if !ok1 || !ok2 {
			t.Fatalf("%s: both should match (%v, %v)", tc.desc, ok1, ok2)
		}
		if a <= b {
			t.Errorf("%s: score(%q,%q)=%v should beat score(%q,%q)=%v",
				tc.desc, tc.text, tc.pattern, a, tc.worse, tc.worsePat, b)
		}
	}
}

func TestCaseInsensitive(t *testing.T) {
	m := New()
	lower, ok1 := m.Match("filter", "fil")
	upper, ok2 := m.Match("filter", "FIL")
	if !ok1 || !ok2 {
		t.Fatalf("case-folded patterns should match")
	}
	if lower != upper {
		t.Errorf("case should not change the score: %v != %v", lower, upper)
	}
}

func TestDeterministic(t *testing.T) {
	m := New()
	a, _ := m.Match("removeSubrange", "rsr")
	for i := 0; i < 50; i++ {
		b, _ := m.Match("removeSubrange", "rsr")
		if a != b {
			t.Fatalf("score changed between identical calls: %v != %v", a, b)
		}
	}
}
