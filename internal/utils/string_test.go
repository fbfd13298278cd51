package utils

import "testing"

func TestBaseName(t *testing.T) {
	testCases := []struct {
		label string
		want  string
	}{
		{"append(contentsOf:)", "append"},
		{"append(_:)", "append"},
		{"count", "count"},
		{"init(repeating:count:)", "init"},
		{"", ""},
		{"(weird", ""},
	}
	for _, tc := range testCases {
		if got := BaseName(tc.label); got != tc.want {
			t.Errorf("BaseName(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestIsValidPrefix(t *testing.T) {
	valid := []string{"a", "_x", "fooBar", "utf8Len", "m_count"}
	for _, s := range valid {
		if !IsValidPrefix(s) {
			t.Errorf("IsValidPrefix(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "9lives", "foo.bar", "a b", "x+y"}
	for _, s := range invalid {
		if IsValidPrefix(s) {
			t.Errorf("IsValidPrefix(%q) = true, want false", s)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tc := range testCases {
		if got := FormatWithCommas(tc.n); got != tc.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
