package lyrics

import (
	"errors"
	"strings"
	"testing"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string // alternating text, tag, text...
	}{
		{"empty", "", []string{""}},
		{"plain text", "Amazing grace", []string{"Amazing grace"}},
		{"self closing", `He<chord root="D"/>llo`, []string{"He", `<chord root="D"/>`, "llo"}},
		{"paired", `<comment>x</comment>`, []string{"", "<comment>x</comment>", ""}},
		{"adjacent tags", `<chord root="C"/><chord root="G"/>`, []string{"", `<chord root="C"/>`, "", `<chord root="G"/>`, ""}},
		{"quoted gt", `a<chord root="a>b"/>c`, []string{"a", `<chord root="a>b"/>`, "c"}},
		{"single quotes", `a<chord root='a/>b'/>c`, []string{"a", `<chord root='a/>b'/>`, "c"}},
		{"lone lt", "a < b", []string{"a < b"}},
		{"space before close", `<tag name="x">y</tag >z`, []string{"", `<tag name="x">y</tag >`, "z"}},
		{"longer close name", `<chord root="D">a</chords></chord>`, []string{"", `<chord root="D">a</chords></chord>`, ""}},
		{"beat", `<beat><chord root="C"/></beat>`, []string{"", `<beat><chord root="C"/></beat>`, ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := Segments(tt.raw)
			if err != nil {
				t.Fatalf("Segments(%q) error: %v", tt.raw, err)
			}
			if len(segs) != len(tt.want) {
				t.Fatalf("Segments(%q) returned %d segments, want %d: %v", tt.raw, len(segs), len(tt.want), segs)
			}
			var joined strings.Builder
			for i, s := range segs {
				wantKind := SegmentText
				if i%2 == 1 {
					wantKind = SegmentTag
				}
				if s.Kind != wantKind {
					t.Errorf("segment %d kind = %s, want %s", i, s.Kind, wantKind)
				}
				if s.Raw != tt.want[i] {
					t.Errorf("segment %d = %q, want %q", i, s.Raw, tt.want[i])
				}
				joined.WriteString(s.Raw)
			}
			if joined.String() != tt.raw {
				t.Errorf("segments do not reproduce input: %q != %q", joined.String(), tt.raw)
			}
		})
	}
}

func TestSegmentsMalformed(t *testing.T) {
	for _, raw := range []string{
		`<comment>never closed`,
		`text <chord root="D"`,
		`<chord root="D>`,
		`<tag name="x">a</ tag>`,
	} {
		if _, err := Segments(raw); !errors.Is(err, ErrMalformedInlineMarkup) {
			t.Errorf("Segments(%q) error = %v, want ErrMalformedInlineMarkup", raw, err)
		}
	}
}
