// file: internal/resolver/normalize_test.go
// version: 1.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-2d3e4f5a6b7c

package resolver

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Sarah Johnson", "sarah johnson"},
		{"  Sarah  ", "sarah"},
		{"O'Connor", "oconnor"},
		{"Sarah-Jane", "sarahjane"},
		{"José", "jos"}, // non-ASCII stripped, not transliterated
		{"Mr. T!", "mr t"},
		{"", ""},
		{"   ", ""},
		{"Anne  Marie", "anne  marie"}, // internal whitespace preserved
		{"Bob !", "bob"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Sarah Johnson", "O'Connor", "  x  ", "", "Bob !", "a-b c.d"}
	for _, s := range inputs {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", s, once, twice)
		}
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Sarah Johnson", "sarah"},
		{"Cher", "cher"},
		{"  Mary Beth Smith ", "mary"},
		{"", ""},
		{"O'Connor Family", "oconnor"},
	}
	for _, tt := range tests {
		if got := FirstToken(tt.input); got != tt.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
