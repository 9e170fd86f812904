package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "Song", nil, "Song\n"},
		{"depth 1", 1, "Properties", nil, "  Properties\n"},
		{"with args", 2, "Line[%d] repeat=%d", []any{0, 2}, "    Line[0] repeat=2\n"},
		{"quoted arg", 1, "Title lang=%q", []any{"de"}, "  Title lang=\"de\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "text", "", "text: \n"},
		{"plain value", 1, "text", "Amazing grace", "  text: \"Amazing grace\"\n"},
		{"line break", 2, "text", "how sweet\nthe sound", "    text: \"how sweet\\nthe sound\"\n"},
		{"quotes", 0, "comment", `say "hi"`, "comment: \"say \\\"hi\\\"\"\n"},
		{"tab", 0, "text", "a\tb", "text: \"a\\tb\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Fields(t *testing.T) {
	tests := []struct {
		name string
		kv   []string
		want string
	}{
		{"no pairs", nil, "  Source\n"},
		{"pairs", []string{"name", "a.xml", "kind", "xml"}, "  Source name=\"a.xml\" kind=\"xml\"\n"},
		{"empty value skipped", []string{"name", "", "kind", "yaml"}, "  Source kind=\"yaml\"\n"},
		{"odd key ignored", []string{"name", "a", "dangling"}, "  Source name=\"a\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Fields(1, "Source", tt.kv...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Fields() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Tree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Song")
	tw.Line(1, "verse[0] name=%q", "v1")
	tw.Line(2, "Line[0]")
	tw.TextBlock(3, "text", "Amazing grace")
	tw.Line(1, "instrument[0] name=%q", "i1")

	want := "Song\n" +
		"  verse[0] name=\"v1\"\n" +
		"    Line[0]\n" +
		"      text: \"Amazing grace\"\n" +
		"  instrument[0] name=\"i1\"\n"
	if got := tw.String(); got != want {
		t.Errorf("tree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
