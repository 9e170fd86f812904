package config

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Amazing Grace", "Amazing Grace"},
		{"AC/DC", "ACDC"},
		{"..hidden", "hidden"},
		{"trailing. ", "trailing"},
		{"tab\there", "tabhere"},
		{"", "_bad_file_name_"},
		{"///", "_bad_file_name_"},
		{"Тихая ночь", "Тихая ночь"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanFileName_Long(t *testing.T) {
	got := CleanFileName(strings.Repeat("я", 150))
	if len(got) > maxFileNameBytes {
		t.Errorf("length = %d, want at most %d", len(got), maxFileNameBytes)
	}
	if !utf8.ValidString(got) {
		t.Errorf("name was cut in the middle of rune: %q", got)
	}
}
