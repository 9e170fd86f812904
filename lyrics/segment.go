package lyrics

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind tells text runs from inline tags.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentTag
)

func (k SegmentKind) String() string {
	if k == SegmentTag {
		return "tag"
	}
	return "text"
}

// Segment is a piece of raw line content, either a run of text or a complete
// inline element (open tag through matching close tag, or self-closing tag).
type Segment struct {
	Kind SegmentKind
	Raw  string
}

// Segments partitions raw line content into text runs and inline tags. The
// result always starts and ends with a text segment (possibly empty) and
// alternates between text and tag segments, concatenating all Raw values
// reproduces the input exactly.
//
// Nesting of same-named elements is not supported: non-self-closing element
// ends at the first matching close tag.
func Segments(raw string) ([]Segment, error) {
	segments := make([]Segment, 0, 1)
	textStart := 0
	for i := 0; i < len(raw); {
		if raw[i] != '<' || !isNameStart(raw[i+1:]) {
			i++
			continue
		}
		end, err := tagEnd(raw, i)
		if err != nil {
			return nil, err
		}
		segments = append(segments,
			Segment{Kind: SegmentText, Raw: raw[textStart:i]},
			Segment{Kind: SegmentTag, Raw: raw[i:end]})
		i, textStart = end, end
	}
	return append(segments, Segment{Kind: SegmentText, Raw: raw[textStart:]}), nil
}

// tagEnd returns position right after the element starting at raw[start].
func tagEnd(raw string, start int) (int, error) {
	name := readName(raw[start+1:])
	gt := openTagEnd(raw, start+1+len(name))
	if gt < 0 {
		return 0, malformed("unterminated <%s> tag at offset %d", name, start)
	}
	if raw[gt-1] == '/' {
		return gt + 1, nil
	}

	if end := findClose(raw, gt+1, name); end >= 0 {
		return end + strings.IndexByte(raw[end:], '>') + 1, nil
	}
	return 0, malformed("missing </%s> for element at offset %d", name, start)
}

// findClose returns offset of the first close tag of named element at or
// after from, -1 when there is none.
func findClose(raw string, from int, name string) int {
	closing := "</" + name
	for pos := from; pos < len(raw); {
		idx := strings.Index(raw[pos:], closing)
		if idx < 0 {
			break
		}
		start := pos + idx
		pos = start + len(closing)
		// "</chord >" is fine, "</chords>" is a different element
		if strings.HasPrefix(strings.TrimLeft(raw[pos:], " \t\r\n"), ">") {
			return start
		}
	}
	return -1
}

// openTagEnd finds '>' closing the open tag, skipping quoted attribute values.
func openTagEnd(raw string, from int) int {
	var quote byte
	for i := from; i < len(raw); i++ {
		switch c := raw[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

func isNameStart(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return false
	}
	return r == '_' || r == ':' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return r == '_' || r == ':' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func readName(s string) string {
	for i, r := range s {
		if !isNameChar(r) {
			return s[:i]
		}
	}
	return s
}
