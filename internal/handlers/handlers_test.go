package handlers

import "testing"

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "(не задано)"},
		{"abc", "••••"},
		{"abcd", "••••"},
		{"longtoken1234", "••••1234"},
	}

	for _, tt := range tests {
		if got := maskSecret(tt.value); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
