package builtins

import "testing"

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pat, s string
		want   bool
	}{
		{"a*", "abc", true},
		{"a*", "ba", false},
		{"*", "", true},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"a[bc]c", "acc", true},
		{"a[!b]c", "abc", false},
		{"a[!b]c", "axc", true},
		{`a\*c`, "a*c", true},
		{`a\*c`, "abc", false},
		// * crosses path separators; the subject is a plain string.
		{"a*c", "a/b/c", true},
		// Regex metacharacters in the pattern are literal.
		{"a.c", "abc", false},
		{"a.c", "a.c", true},
		{"a+b", "a+b", true},
		// An unterminated class is a literal bracket.
		{"a[b", "a[b", true},
		{"a[b", "ab", false},
	}
	for _, tc := range tests {
		got, err := patternMatch(tc.pat, tc.s)
		if err != nil {
			t.Errorf("patternMatch(%q, %q): %v", tc.pat, tc.s, err)
			continue
		}
		if got != tc.want {
			t.Errorf("patternMatch(%q, %q) = %v, want %v", tc.pat, tc.s, got, tc.want)
		}
	}
}

func TestPatternEscape(t *testing.T) {
	got, err := patternMatch(patternEscape("a*c"), "a*c")
	if err != nil || !got {
		t.Errorf("escaped pattern should match itself literally: %v %v", got, err)
	}
	got, err = patternMatch(patternEscape("a*c"), "abc")
	if err != nil || got {
		t.Errorf("escaped pattern must not glob: %v %v", got, err)
	}
}
