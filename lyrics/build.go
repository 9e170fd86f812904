package lyrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

const (
	namespace      = "http://openlyrics.info/namespace/2009/song"
	schemaVersion  = "0.9"
	lineRefPrefix  = "olc-line-"
	modifiedLayout = "2006-01-02T15:04:05"
)

// EncodeOptions supply document level values which do not come from the
// song itself. Song meta, when set, takes precedence.
type EncodeOptions struct {
	CreatedIn  string
	ModifiedIn string
	// Lang is used when song has no language.
	Lang string
	// Stylesheet is href of xml-stylesheet instruction, empty to omit it.
	Stylesheet string
	// Now returns modification time, time.Now when nil.
	Now func() time.Time
}

// BuildSongXML renders song as OpenLyrics document. Song content must be
// valid, see Validate.
func BuildSongXML(song *Song, opts EncodeOptions, codec *Codec) ([]byte, error) {
	if song == nil {
		return nil, fmt.Errorf("nil song")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	if opts.Stylesheet != "" {
		doc.CreateProcInst("xml-stylesheet", `href="`+attrEscaper.Replace(opts.Stylesheet)+`" type="text/css"`)
	}

	root := doc.CreateElement("song")
	root.CreateAttr("xmlns", namespace)
	root.CreateAttr("xml:lang", firstNonEmpty(song.Meta.Lang, opts.Lang, "en"))
	root.CreateAttr("version", schemaVersion)
	root.CreateAttr("createdIn", firstNonEmpty(song.Meta.CreatedIn, opts.CreatedIn))
	root.CreateAttr("modifiedIn", firstNonEmpty(song.Meta.ModifiedIn, opts.ModifiedIn))
	root.CreateAttr("modifiedDate", now().UTC().Format(modifiedLayout))
	if song.Meta.ChordNotation != "" {
		root.CreateAttr("chordNotation", song.Meta.ChordNotation)
	}

	buildProperties(root.CreateElement("properties"), &song.Properties)
	if len(song.Format) > 0 {
		buildFormat(root.CreateElement("format"), song.Format)
	}

	var lines []string
	lyricsEl := root.CreateElement("lyrics")
	for _, group := range []struct {
		tag  string
		kind SectionKind
		secs []Section
	}{
		{"verse", SectionVerse, song.Verses},
		{"instrument", SectionInstrument, song.Instruments},
	} {
		for _, sec := range group.secs {
			sec.Kind = group.kind
			lines = buildSection(lyricsEl.CreateElement(group.tag), codec.EncodeSection(sec), lines)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}

	// encoded lines are markup already and go in verbatim
	pairs := make([]string, 0, 2*len(lines))
	for i, l := range lines {
		pairs = append(pairs, lineMarker(i), l)
	}
	return []byte(strings.NewReplacer(pairs...).Replace(out)), nil
}

func lineMarker(i int) string {
	return "<![CDATA[" + lineRefPrefix + strconv.Itoa(i) + "]]>"
}

func buildSection(el *etree.Element, raw RawSection, lines []string) []string {
	el.CreateAttr("name", raw.Name)
	if raw.Lang != "" {
		el.CreateAttr("lang", raw.Lang)
	}
	if raw.Translit != "" {
		el.CreateAttr("translit", raw.Translit)
	}
	if raw.Break != "" {
		el.CreateAttr("break", raw.Break)
	}
	for _, rl := range raw.Lines {
		l := el.CreateElement("lines")
		if rl.Part != "" {
			l.CreateAttr("part", rl.Part)
		}
		if rl.Break != "" {
			l.CreateAttr("break", rl.Break)
		}
		if rl.Repeat != "" {
			l.CreateAttr("repeat", rl.Repeat)
		}
		l.CreateCData(lineRefPrefix + strconv.Itoa(len(lines)))
		lines = append(lines, rl.Content)
	}
	return lines
}

func buildProperties(el *etree.Element, p *Properties) {
	titles := el.CreateElement("titles")
	for _, t := range p.Titles {
		te := titles.CreateElement("title")
		if t.Lang != "" {
			te.CreateAttr("lang", t.Lang)
		}
		if t.Transliteration != "" {
			te.CreateAttr("translit", t.Transliteration)
		}
		if t.Original != nil {
			te.CreateAttr("original", strconv.FormatBool(*t.Original))
		}
		te.SetText(t.Value)
	}

	if len(p.Authors) > 0 {
		authors := el.CreateElement("authors")
		for _, a := range p.Authors {
			ae := authors.CreateElement("author")
			if a.Type != "" {
				ae.CreateAttr("type", a.Type)
			}
			if a.Lang != "" {
				ae.CreateAttr("lang", a.Lang)
			}
			ae.SetText(a.Value)
		}
	}

	for _, s := range []struct{ tag, value string }{
		{"copyright", p.Copyright},
		{"ccliNo", p.CCLINo},
		{"released", p.Released},
		{"transposition", p.Transposition},
	} {
		if s.value != "" {
			el.CreateElement(s.tag).SetText(s.value)
		}
	}

	if p.Tempo != "" {
		tempo := el.CreateElement("tempo")
		tempo.CreateAttr("type", tempoType(p))
		tempo.SetText(p.Tempo)
	}

	for _, s := range []struct{ tag, value string }{
		{"key", p.Key},
		{"timeSignature", p.TimeSignature},
		{"variant", p.Variant},
		{"publisher", p.Publisher},
		{"version", p.Version},
		{"keywords", p.Keywords},
		{"verseOrder", p.VerseOrder},
	} {
		if s.value != "" {
			el.CreateElement(s.tag).SetText(s.value)
		}
	}

	if len(p.SongBooks) > 0 {
		books := el.CreateElement("songbooks")
		for _, b := range p.SongBooks {
			be := books.CreateElement("songbook")
			be.CreateAttr("name", b.Name)
			if b.Entry != "" {
				be.CreateAttr("entry", b.Entry)
			}
		}
	}

	if len(p.Themes) > 0 {
		themes := el.CreateElement("themes")
		for _, t := range p.Themes {
			te := themes.CreateElement("theme")
			if t.Lang != "" {
				te.CreateAttr("lang", t.Lang)
			}
			te.SetText(t.Value)
		}
	}

	if len(p.Comments) > 0 {
		comments := el.CreateElement("comments")
		for _, c := range p.Comments {
			comments.CreateElement("comment").SetText(c)
		}
	}
}

// tempoType returns declared tempo type or guesses one from the value.
func tempoType(p *Properties) string {
	if p.TempoType != "" {
		return p.TempoType
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(p.Tempo), 64); err == nil {
		return "bpm"
	}
	return "text"
}

func buildFormat(el *etree.Element, defs []FormatDefinition) {
	for _, def := range defs {
		tags := el.CreateElement("tags")
		tags.CreateAttr("application", def.Application)
		for _, t := range def.Tags {
			te := tags.CreateElement("tag")
			te.CreateAttr("name", t.Name)
			te.CreateElement("open").SetText(t.Open)
			if t.Close != "" {
				te.CreateElement("close").SetText(t.Close)
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
