package lyrics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// XML parsing functions for OpenLyrics format. Unlike everything else inner
// markup of <lines> is never seen by the XML parser: it is cut out of the
// document beforehand and handed to the line codec verbatim.

const rawRefAttr = "olc-raw-ref"

// cutLines replaces content of every <lines> element with a reference
// attribute and returns the document without it together with cut out
// content indexed by reference.
func cutLines(doc string) (string, []string, error) {
	var (
		out  strings.Builder
		raws []string
	)
	out.Grow(len(doc))

	for pos := 0; pos < len(doc); {
		idx := strings.IndexByte(doc[pos:], '<')
		if idx < 0 {
			out.WriteString(doc[pos:])
			break
		}
		start := pos + idx
		out.WriteString(doc[pos:start])
		rest := doc[start:]

		// markup which may legitimately contain "<lines" text
		if skip := skipOpaque(rest); skip > 0 {
			out.WriteString(rest[:skip])
			pos = start + skip
			continue
		}
		if !strings.HasPrefix(rest, "<lines") || readName(rest[1:]) != "lines" {
			out.WriteByte('<')
			pos = start + 1
			continue
		}

		nameEnd := start + len("<lines")
		gt := openTagEnd(doc, nameEnd)
		if gt < 0 {
			return "", nil, fmt.Errorf("unterminated <lines> tag at offset %d", start)
		}
		ref := strconv.Itoa(len(raws))
		out.WriteString("<lines " + rawRefAttr + `="` + ref + `"`)
		if doc[gt-1] == '/' {
			raws = append(raws, "")
			out.WriteString(doc[nameEnd : gt+1])
			pos = gt + 1
			continue
		}
		end := findClose(doc, gt+1, "lines")
		if end < 0 {
			return "", nil, fmt.Errorf("missing </lines> for element at offset %d", start)
		}
		raws = append(raws, doc[gt+1:end])
		out.WriteString(doc[nameEnd:gt+1] + "</lines>")
		pos = end + strings.IndexByte(doc[end:], '>') + 1
	}
	return out.String(), raws, nil
}

// skipOpaque returns length of comment, CDATA section or processing
// instruction at the start of s, 0 if there is none.
func skipOpaque(s string) int {
	for _, p := range [...]struct{ open, close string }{
		{"<!--", "-->"},
		{"<![CDATA[", "]]>"},
		{"<?", "?>"},
	} {
		if !strings.HasPrefix(s, p.open) {
			continue
		}
		if end := strings.Index(s[len(p.open):], p.close); end >= 0 {
			return len(p.open) + end + len(p.close)
		}
		return len(s)
	}
	return 0
}

// ParseSongXML parses complete OpenLyrics document. Input must be UTF-8.
//
// When codec is in placeholder mode and some lines could not be decoded
// both song and error describing all bad lines are returned.
func ParseSongXML(data []byte, codec *Codec, log *zap.Logger) (*Song, error) {
	stripped, raws, err := cutLines(string(data))
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		// input is already UTF-8 whatever declaration says
		CharsetReader: func(_ string, input io.Reader) (io.Reader, error) { return input, nil },
		ValidateInput: false,
		Permissive:    true,
	}
	if err := doc.ReadFromString(stripped); err != nil {
		return nil, fmt.Errorf("unable to parse document: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "song" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	song := &Song{Meta: parseMeta(root, log)}

	var verses, instruments []RawSection
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "properties":
			song.Properties = parseProperties(child, log)
		case "format":
			song.Format = append(song.Format, parseFormat(child, log)...)
		case "lyrics":
			v, i, err := parseLyrics(child, raws, log)
			if err != nil {
				return nil, fmt.Errorf("lyrics: %w", err)
			}
			verses, instruments = append(verses, v...), append(instruments, i...)
		default:
			log.Warn("Unexpected tag in song, ignoring", zap.String("parent", root.Tag), zap.String("tag", child.Tag))
		}
	}

	var errs error
	if song.Verses, err = codec.DecodeSections(verses, SectionVerse); err != nil {
		if song.Verses == nil {
			return nil, err
		}
		errs = multierr.Append(errs, err)
	}
	if song.Instruments, err = codec.DecodeSections(instruments, SectionInstrument); err != nil {
		if song.Instruments == nil {
			return nil, err
		}
		errs = multierr.Append(errs, err)
	}
	return song, errs
}

func parseMeta(el *etree.Element, log *zap.Logger) Meta {
	meta := Meta{
		Version:       el.SelectAttrValue("version", ""),
		CreatedIn:     el.SelectAttrValue("createdIn", ""),
		ModifiedIn:    el.SelectAttrValue("modifiedIn", ""),
		Lang:          checkLang(xmlLang(el), log),
		ChordNotation: el.SelectAttrValue("chordNotation", ""),
	}
	if v := strings.TrimSpace(el.SelectAttrValue("modifiedDate", "")); v != "" {
		if t, ok := parseDate(v); ok {
			meta.ModifiedDate = &t
		} else {
			log.Warn("Unable to parse modification date, ignoring", zap.String("date", v))
		}
	}
	return meta
}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		time.DateOnly,
	} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// checkLang reports language tags we do not understand, value is kept as is.
func checkLang(in string, log *zap.Logger) string {
	lang := strings.TrimSpace(in)
	if lang == "" {
		return ""
	}
	if _, err := language.Parse(lang); err != nil {
		log.Warn("Unable to parse language tag, keeping as is", zap.String("lang", lang), zap.Error(err))
	}
	return lang
}

func parseProperties(el *etree.Element, log *zap.Logger) Properties {
	var props Properties
	var releaseDate string
	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		switch child.Tag {
		case "titles":
			for _, t := range childrenNamed(child, "title", log) {
				props.Titles = append(props.Titles, parseTitle(t, log))
			}
		case "authors":
			for _, a := range childrenNamed(child, "author", log) {
				props.Authors = append(props.Authors, Author{
					Value: strings.TrimSpace(a.Text()),
					Type:  a.SelectAttrValue("type", ""),
					Lang:  checkLang(langAttr(a), log),
				})
			}
		case "themes":
			for _, t := range childrenNamed(child, "theme", log) {
				props.Themes = append(props.Themes, Theme{
					Value: strings.TrimSpace(t.Text()),
					Lang:  checkLang(langAttr(t), log),
				})
			}
		case "songbooks":
			for _, b := range childrenNamed(child, "songbook", log) {
				props.SongBooks = append(props.SongBooks, SongBook{
					Name:  b.SelectAttrValue("name", ""),
					Entry: b.SelectAttrValue("entry", ""),
				})
			}
		case "comments":
			for _, c := range childrenNamed(child, "comment", log) {
				props.Comments = append(props.Comments, strings.TrimSpace(c.Text()))
			}
		case "tempo":
			props.Tempo = text
			props.TempoType = child.SelectAttrValue("type", "")
		case "ccliNo":
			props.CCLINo = text
		case "copyright":
			props.Copyright = text
		case "key":
			props.Key = text
		case "keywords":
			props.Keywords = text
		case "publisher":
			props.Publisher = text
		case "released":
			props.Released = text
		case "releaseDate":
			// 0.9 name of "released"
			releaseDate = text
		case "timeSignature":
			props.TimeSignature = text
		case "transposition":
			props.Transposition = text
		case "variant":
			props.Variant = text
		case "verseOrder":
			props.VerseOrder = text
		case "version":
			props.Version = text
		default:
			log.Warn("Unexpected tag in properties, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	if releaseDate != "" {
		props.Released = releaseDate
	}
	return props
}

func parseTitle(el *etree.Element, log *zap.Logger) Title {
	title := Title{
		Value:           strings.TrimSpace(el.Text()),
		Lang:            checkLang(langAttr(el), log),
		Transliteration: translitAttr(el),
	}
	if v := el.SelectAttr("original"); v != nil {
		if b, err := strconv.ParseBool(strings.TrimSpace(v.Value)); err == nil {
			title.Original = &b
		} else {
			log.Warn("Unexpected original value in title, ignoring", zap.String("value", v.Value))
		}
	}
	return title
}

func parseFormat(el *etree.Element, log *zap.Logger) []FormatDefinition {
	var defs []FormatDefinition
	for _, tags := range childrenNamed(el, "tags", log) {
		def := FormatDefinition{Application: tags.SelectAttrValue("application", "")}
		for _, tag := range childrenNamed(tags, "tag", log) {
			ft := FormatTag{Name: tag.SelectAttrValue("name", "")}
			for _, child := range tag.ChildElements() {
				switch child.Tag {
				case "open":
					ft.Open = child.Text()
				case "close":
					ft.Close = child.Text()
				default:
					log.Warn("Unexpected tag in format tag, ignoring", zap.String("parent", tag.Tag), zap.String("tag", child.Tag))
				}
			}
			def.Tags = append(def.Tags, ft)
		}
		defs = append(defs, def)
	}
	return defs
}

func parseLyrics(el *etree.Element, raws []string, log *zap.Logger) (verses, instruments []RawSection, err error) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "verse", "instrument":
			sec, err := parseRawSection(child, raws, log)
			if err != nil {
				return nil, nil, fmt.Errorf("%s %q: %w", child.Tag, sec.Name, err)
			}
			if child.Tag == "verse" {
				verses = append(verses, sec)
			} else {
				instruments = append(instruments, sec)
			}
		default:
			log.Warn("Unexpected tag in lyrics, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return verses, instruments, nil
}

func parseRawSection(el *etree.Element, raws []string, log *zap.Logger) (RawSection, error) {
	sec := RawSection{
		Name:     el.SelectAttrValue("name", ""),
		Lang:     checkLang(langAttr(el), log),
		Translit: translitAttr(el),
		Break:    el.SelectAttrValue("break", ""),
	}
	for _, lines := range childrenNamed(el, "lines", log) {
		ref, err := strconv.Atoi(lines.SelectAttrValue(rawRefAttr, ""))
		if err != nil || ref < 0 || ref >= len(raws) {
			return sec, fmt.Errorf("lines element without content reference")
		}
		sec.Lines = append(sec.Lines, RawLine{
			Content: raws[ref],
			Part:    lines.SelectAttrValue("part", ""),
			Break:   lines.SelectAttrValue("break", ""),
			Repeat:  lines.SelectAttrValue("repeat", ""),
		})
	}
	return sec, nil
}

// childrenNamed returns child elements with expected tag, complaining about
// everything else.
func childrenNamed(el *etree.Element, tag string, log *zap.Logger) []*etree.Element {
	var res []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag != tag {
			log.Warn("Unexpected tag in "+el.Tag+", ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
			continue
		}
		res = append(res, child)
	}
	return res
}

func xmlLang(el *etree.Element) string {
	for _, attr := range el.Attr {
		if (attr.Space == "xml" || strings.HasSuffix(attr.NamespaceURI(), "/xml")) && attr.Key == "lang" {
			return attr.Value
		}
	}
	return ""
}

// langAttr accepts both "lang" and "xml:lang".
func langAttr(el *etree.Element) string {
	if v := el.SelectAttrValue("lang", ""); v != "" {
		return v
	}
	return xmlLang(el)
}

// translitAttr accepts both spellings seen in the wild.
func translitAttr(el *etree.Element) string {
	if v := el.SelectAttrValue("translit", ""); v != "" {
		return v
	}
	return el.SelectAttrValue("transliteration", "")
}
