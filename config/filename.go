package config

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameBytes keeps names below the limit of common file systems,
// extension is added later.
const maxFileNameBytes = 200

// CleanFileName removes characters not allowed in file names, leading dots
// and trailing spaces and dots.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym == 0 || unicode.IsControl(sym) || strings.ContainsRune(forbiddenFileNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, ". "), ". ")

	if len(out) > maxFileNameBytes {
		cut := maxFileNameBytes
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = strings.TrimRight(out[:cut], ". ")
	}
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
