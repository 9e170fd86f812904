package lyrics

import (
	"strings"

	"olc/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the song. It is meant for people
// looking at what codec made of a document, not for machines.
func (s *Song) String() string {
	if s == nil {
		return "<nil Song>"
	}
	return treeWriter{debug.NewTreeWriter()}.song(s).String()
}

func (tw treeWriter) song(s *Song) treeWriter {
	tw.Line(0, "Song")
	m := &s.Meta
	tw.Line(1, "Meta version=%q lang=%q createdIn=%q modifiedIn=%q chordNotation=%q", m.Version, m.Lang, m.CreatedIn, m.ModifiedIn, m.ChordNotation)
	if m.ModifiedDate != nil {
		tw.Line(2, "ModifiedDate=%s", m.ModifiedDate.Format(modifiedLayout))
	}
	tw.properties(1, &s.Properties)
	for i, def := range s.Format {
		tw.Line(1, "Format[%d] application=%q", i, def.Application)
		for _, t := range def.Tags {
			tw.Line(2, "Tag name=%q open=%q close=%q", t.Name, t.Open, t.Close)
		}
	}
	for i := range s.Verses {
		tw.section(1, i, &s.Verses[i])
	}
	for i := range s.Instruments {
		tw.section(1, i, &s.Instruments[i])
	}
	return tw
}

func (tw treeWriter) properties(depth int, p *Properties) {
	tw.Line(depth, "Properties")
	for i, t := range p.Titles {
		original := "-"
		if t.Original != nil && *t.Original {
			original = "original"
		}
		tw.Line(depth+1, "Title[%d] lang=%q translit=%q %s", i, t.Lang, t.Transliteration, original)
		tw.TextBlock(depth+2, "Value", t.Value)
	}
	for i, a := range p.Authors {
		tw.Line(depth+1, "Author[%d] type=%q lang=%q value=%q", i, a.Type, a.Lang, a.Value)
	}
	for i, b := range p.SongBooks {
		tw.Line(depth+1, "SongBook[%d] name=%q entry=%q", i, b.Name, b.Entry)
	}
	for i, t := range p.Themes {
		tw.Line(depth+1, "Theme[%d] lang=%q value=%q", i, t.Lang, t.Value)
	}
	for i, c := range p.Comments {
		tw.Line(depth+1, "Comment[%d]=%q", i, c)
	}
	for _, f := range []struct{ name, value string }{
		{"Tempo", p.Tempo},
		{"TempoType", p.TempoType},
		{"CCLINo", p.CCLINo},
		{"Copyright", p.Copyright},
		{"Key", p.Key},
		{"Keywords", p.Keywords},
		{"Publisher", p.Publisher},
		{"Released", p.Released},
		{"TimeSignature", p.TimeSignature},
		{"Transposition", p.Transposition},
		{"Variant", p.Variant},
		{"VerseOrder", p.VerseOrder},
		{"Version", p.Version},
	} {
		if f.value != "" {
			tw.Line(depth+1, "%s=%q", f.name, f.value)
		}
	}
}

func (tw treeWriter) section(depth, index int, sec *Section) {
	tw.Line(depth, "%s[%d] name=%q lang=%q translit=%q optionalBreak=%t lines=%d",
		sec.Kind, index, sec.Name, sec.Lang, sec.Transliteration, sec.OptionalBreak, len(sec.Lines))
	for i := range sec.Lines {
		l := &sec.Lines[i]
		tw.Line(depth+1, "Line[%d] part=%q optionalBreak=%t repeat=%d", i, l.Part, l.OptionalBreak, l.Repeat)
		for j := range l.Content {
			tw.contentItem(depth+2, &l.Content[j])
		}
	}
}

func (tw treeWriter) contentItem(depth int, item *ContentItem) {
	switch item.Kind {
	case ContentText, ContentComment:
		tw.TextBlock(depth, string(item.Kind), item.Value)
	case ContentTag:
		tw.Line(depth, "tag name=%q", item.Name)
		if item.Value != "" {
			tw.TextBlock(depth+1, "Value", item.Value)
		}
	case ContentChord:
		if item.Chord != nil {
			tw.chord(depth, item.Chord)
		}
	case ContentBeat:
		tw.Line(depth, "beat chords=%d", len(item.Beat))
		for i := range item.Beat {
			tw.chord(depth+1, &item.Beat[i])
		}
	default:
		tw.Line(depth, "unknown kind=%q", item.Kind)
	}
}

func (tw treeWriter) chord(depth int, ch *Chord) {
	var ext strings.Builder
	for _, a := range ch.Ext {
		ext.WriteString(" " + a.Key + "=" + a.Value)
	}
	tw.Line(depth, "chord root=%q structure=%q bass=%q upbeat=%t ext=[%s]", ch.Root, ch.Structure, ch.Bass, ch.Upbeat, strings.TrimSpace(ext.String()))
	if ch.Value != nil {
		tw.TextBlock(depth+1, "Value", *ch.Value)
	}
}
