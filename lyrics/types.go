package lyrics

import (
	"time"
)

// Type definitions for OpenLyrics song structures.

// Song mirrors the root <song> element of an OpenLyrics document.
type Song struct {
	Meta        Meta               `yaml:"meta" json:"meta"`
	Properties  Properties         `yaml:"properties" json:"properties"`
	Format      []FormatDefinition `yaml:"format,omitempty" json:"format,omitempty" validate:"dive"`
	Verses      []Section          `yaml:"verses" json:"verses" validate:"dive"`
	Instruments []Section          `yaml:"instruments,omitempty" json:"instruments,omitempty" validate:"dive"`
}

// Meta holds attributes of the <song> element.
type Meta struct {
	Version       string     `yaml:"version,omitempty" json:"version,omitempty"`
	CreatedIn     string     `yaml:"created_in,omitempty" json:"createdIn,omitempty"`
	ModifiedIn    string     `yaml:"modified_in,omitempty" json:"modifiedIn,omitempty"`
	ModifiedDate  *time.Time `yaml:"modified_date,omitempty" json:"modifiedDate,omitempty"`
	Lang          string     `yaml:"lang,omitempty" json:"lang,omitempty"`
	ChordNotation string     `yaml:"chord_notation,omitempty" json:"chordNotation,omitempty"`
}

// Properties groups everything found under <properties>. Absent scalar values
// are always empty strings, absent lists are empty.
type Properties struct {
	Titles        []Title    `yaml:"titles" json:"titles" validate:"required,min=1,dive"`
	Authors       []Author   `yaml:"authors,omitempty" json:"authors" validate:"dive"`
	Themes        []Theme    `yaml:"themes,omitempty" json:"themes" validate:"dive"`
	SongBooks     []SongBook `yaml:"songbooks,omitempty" json:"songBooks" validate:"dive"`
	Comments      []string   `yaml:"comments,omitempty" json:"comments"`
	Tempo         string     `yaml:"tempo,omitempty" json:"tempo"`
	TempoType     string     `yaml:"tempo_type,omitempty" json:"tempoType" validate:"omitempty,oneof=bpm text"`
	CCLINo        string     `yaml:"ccli_no,omitempty" json:"ccliNo"`
	Copyright     string     `yaml:"copyright,omitempty" json:"copyright"`
	Key           string     `yaml:"key,omitempty" json:"key"`
	Keywords      string     `yaml:"keywords,omitempty" json:"keywords"`
	Publisher     string     `yaml:"publisher,omitempty" json:"publisher"`
	Released      string     `yaml:"released,omitempty" json:"released"`
	TimeSignature string     `yaml:"time_signature,omitempty" json:"timeSignature"`
	Transposition string     `yaml:"transposition,omitempty" json:"transposition"`
	Variant       string     `yaml:"variant,omitempty" json:"variant"`
	VerseOrder    string     `yaml:"verse_order,omitempty" json:"verseOrder"`
	Version       string     `yaml:"version,omitempty" json:"version"`
}

// Title is a single <title>. Original is nil when the attribute is absent.
type Title struct {
	Value           string `yaml:"value" json:"value" validate:"required"`
	Lang            string `yaml:"lang,omitempty" json:"lang"`
	Transliteration string `yaml:"translit,omitempty" json:"transliteration"`
	Original        *bool  `yaml:"original,omitempty" json:"original"`
}

// Author is a single <author>, Type is one of "words", "music", "translation"
// or empty.
type Author struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Type  string `yaml:"type,omitempty" json:"type"`
	Lang  string `yaml:"lang,omitempty" json:"lang"`
}

// Theme is a single <theme>.
type Theme struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Lang  string `yaml:"lang,omitempty" json:"lang"`
}

// SongBook is a single <songbook>.
type SongBook struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Entry string `yaml:"entry,omitempty" json:"entry"`
}

// FormatDefinition corresponds to one <tags application="..."> block of the
// formatting extension.
type FormatDefinition struct {
	Application string      `yaml:"application" json:"application" validate:"required"`
	Tags        []FormatTag `yaml:"tags" json:"tags" validate:"dive"`
}

// FormatTag defines markup an application uses to render a named <tag>. Open
// and Close are opaque to us.
type FormatTag struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Open  string `yaml:"open" json:"open"`
	Close string `yaml:"close,omitempty" json:"close"`
}

// SectionKind distinguishes verses from instrumental parts.
type SectionKind string

const (
	SectionVerse      SectionKind = "verse"
	SectionInstrument SectionKind = "instrument"
)

// Section is either a <verse> or an <instrument>. Sections sharing a name but
// differing in language are distinct and keep their document order.
type Section struct {
	Kind            SectionKind `yaml:"-" json:"-"`
	Name            string      `yaml:"name" json:"name" validate:"required"`
	Lang            string      `yaml:"lang,omitempty" json:"lang"`
	Transliteration string      `yaml:"translit,omitempty" json:"transliteration"`
	OptionalBreak   bool        `yaml:"optional_break,omitempty" json:"optionalBreak"`
	Lines           []Line      `yaml:"lines" json:"lines" validate:"dive"`
}

// Line is a single <lines> element. Content is never empty, an empty line is
// represented by a single empty text item.
type Line struct {
	Part          string        `yaml:"part,omitempty" json:"part"`
	OptionalBreak bool          `yaml:"optional_break,omitempty" json:"optionalBreak"`
	Repeat        int           `yaml:"repeat,omitempty" json:"repeat" validate:"gte=0"`
	Content       []ContentItem `yaml:"content" json:"content" validate:"required,min=1,dive"`
}

// ContentKind distinguishes the variants of line content.
type ContentKind string

const (
	ContentText    ContentKind = "text"
	ContentComment ContentKind = "comment"
	ContentTag     ContentKind = "tag"
	ContentChord   ContentKind = "chord"
	ContentBeat    ContentKind = "beat"
)

// ContentItem is a closed tagged union of everything a line may contain.
// Which fields are meaningful depends on Kind:
//
//	text, comment: Value
//	tag:           Name, Value (wrapped text, may be empty)
//	chord:         Chord
//	beat:          Beat (instrument lines only)
type ContentItem struct {
	Kind  ContentKind `yaml:"type" json:"type" validate:"oneof=text comment tag chord beat"`
	Value string      `yaml:"value,omitempty" json:"value,omitempty"`
	Name  string      `yaml:"name,omitempty" json:"name,omitempty"`
	Chord *Chord      `yaml:"chord,omitempty" json:"chord,omitempty"`
	Beat  []Chord     `yaml:"beat,omitempty" json:"beat,omitempty"`
}

// Chord is the canonical (current dialect) chord representation. Value is nil
// when the chord marks a point and set when it spans text. Ext keeps
// attributes we do not know about in document order.
type Chord struct {
	Root      string  `yaml:"root,omitempty" json:"root,omitempty"`
	Structure string  `yaml:"structure,omitempty" json:"structure,omitempty"`
	Bass      string  `yaml:"bass,omitempty" json:"bass,omitempty"`
	Upbeat    bool    `yaml:"upbeat,omitempty" json:"upbeat,omitempty"`
	Value     *string `yaml:"value,omitempty" json:"value,omitempty"`
	Ext       []Attr  `yaml:"ext,omitempty" json:"ext,omitempty"`
}

// Attr is a single pass-through attribute.
type Attr struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Text returns a text content item.
func Text(value string) ContentItem {
	return ContentItem{Kind: ContentText, Value: value}
}

// Comment returns an inline comment content item.
func Comment(value string) ContentItem {
	return ContentItem{Kind: ContentComment, Value: value}
}

// Annotation returns a named highlight (<tag>) content item.
func Annotation(name, value string) ContentItem {
	return ContentItem{Kind: ContentTag, Name: name, Value: value}
}

// ChordItem returns a chord content item.
func ChordItem(c Chord) ContentItem {
	return ContentItem{Kind: ContentChord, Chord: &c}
}

// BeatItem returns a beat grouping simultaneous chords.
func BeatItem(chords ...Chord) ContentItem {
	return ContentItem{Kind: ContentBeat, Beat: chords}
}

// Spanning returns copy of the chord wrapping text value.
func (c Chord) Spanning(value string) Chord {
	c.Value = &value
	return c
}

// AsPlainText returns the lyric text of the line, chords, comments and
// annotations markup removed, annotation and spanned text kept.
func (l *Line) AsPlainText() string {
	var buf []byte
	for i := range l.Content {
		item := &l.Content[i]
		switch item.Kind {
		case ContentText, ContentTag:
			buf = append(buf, item.Value...)
		case ContentChord:
			if item.Chord != nil && item.Chord.Value != nil {
				buf = append(buf, *item.Chord.Value...)
			}
		}
	}
	return string(buf)
}

// FirstTitle returns the value of the first title or empty string.
func (p *Properties) FirstTitle() string {
	if len(p.Titles) == 0 {
		return ""
	}
	return p.Titles[0].Value
}
