package providers

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"under limit untouched", "short", 150, "short"},
		{"exact limit untouched", "abcde", 5, "abcde"},
		{"ascii cut", "abcdefgh", 5, "abcde..."},
		{"zero limit untouched", "abc", 0, "abc"},
		{"cut between runes", "ééé", 4, "éé..."},
		{"cut inside a rune", "ééé", 3, "é..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDescription(tt.input, tt.maxLength)
			if got != tt.want {
				t.Fatalf("TruncateDescription(%q, %d) = %q, want %q", tt.input, tt.maxLength, got, tt.want)
			}
		})
	}
}

func TestTruncateDescriptionKeepsValidUTF8(t *testing.T) {
	// An odd cut point lands one byte into a two-byte rune, leaving a
	// dangling lead byte if the repair only strips continuation bytes.
	input := strings.Repeat("é", 80)
	for maxLength := 1; maxLength <= len(input); maxLength++ {
		got := TruncateDescription(input, maxLength)
		if !utf8.ValidString(got) {
			t.Fatalf("maxLength %d produced invalid UTF-8: %q", maxLength, got)
		}
	}
}
