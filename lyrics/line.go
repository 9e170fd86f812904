package lyrics

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"olc/common"
)

var (
	// <br/>, <br>, </br> and <br></br> are all line breaks, newline
	// following the marker belongs to it
	reBreak   = regexp.MustCompile(`(?i)(?:<br\s*>\s*</br\s*>|</?br\s*/?>)\n?`)
	reComment = regexp.MustCompile(`(?s)<!--.*?-->`)

	// entity references in inline element text were decoded by the XML
	// parser, their ampersand must be escaped to come back as the same text
	reEntityRef = regexp.MustCompile(`&(?:lt|gt|amp|quot|apos|#[0-9]+|#[xX][0-9a-fA-F]+);`)

	textUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">")
	textEscaper   = strings.NewReplacer("<", "&lt;", ">", "&gt;", "\n", "<br/>")
	attrEscaper   = strings.NewReplacer("<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;")
)

// Codec converts between raw <lines> markup and structured content. Codec
// is immutable and safe for concurrent use.
type Codec struct {
	log      *zap.Logger
	dialect  common.Dialect
	recovery common.RecoveryMode
	workers  int
}

// Option configures Codec.
type Option func(*Codec)

// WithDialect selects chord attribute dialect used on encode.
func WithDialect(d common.Dialect) Option {
	return func(c *Codec) {
		c.dialect = d
	}
}

// WithRecovery selects what happens to lines which cannot be decoded.
func WithRecovery(m common.RecoveryMode) Option {
	return func(c *Codec) {
		c.recovery = m
	}
}

// WithWorkers limits number of sections decoded in parallel.
func WithWorkers(n int) Option {
	return func(c *Codec) {
		c.workers = n
	}
}

// NewCodec returns codec with current dialect, fail recovery and a single
// worker unless told otherwise.
func NewCodec(log *zap.Logger, options ...Option) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Codec{
		log:      log,
		dialect:  common.DialectCurrent,
		recovery: common.RecoveryModeFail,
		workers:  1,
	}
	for _, o := range options {
		o(c)
	}
	if c.workers < 1 {
		c.workers = 1
	}
	return c
}

// Dialect returns chord dialect codec writes.
func (c *Codec) Dialect() common.Dialect {
	return c.dialect
}

// DecodeLine decodes raw <lines> markup with default codec.
func DecodeLine(raw string, kind SectionKind) ([]ContentItem, error) {
	return NewCodec(nil).DecodeLine(raw, kind)
}

// EncodeLine renders content with default codec and requested dialect.
func EncodeLine(content []ContentItem, kind SectionKind, dialect common.Dialect) string {
	return NewCodec(nil, WithDialect(dialect)).EncodeLine(content, kind)
}

// normalizeLine unifies line endings, turns break markers into newlines and
// removes XML comments. Breaks go first so comment spanning a break is
// still removed as a whole.
func normalizeLine(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = reBreak.ReplaceAllString(raw, "\n")
	return reComment.ReplaceAllString(raw, "")
}

// DecodeLine converts raw inner markup of a <lines> element into ordered
// content. Result is never empty: a line without content decodes to single
// empty text item.
func (c *Codec) DecodeLine(raw string, kind SectionKind) ([]ContentItem, error) {
	segments, err := Segments(normalizeLine(raw))
	if err != nil {
		return nil, err
	}

	content := make([]ContentItem, 0, len(segments))
	for _, seg := range segments {
		if seg.Kind == SegmentText {
			if seg.Raw == "" {
				continue
			}
			if kind == SectionInstrument {
				// instrument lines carry no lyrics, this is usually indentation
				if strings.TrimSpace(seg.Raw) != "" {
					c.log.Warn("Dropping text in instrument line", zap.String("text", seg.Raw))
				}
				continue
			}
			content = append(content, Text(textUnescaper.Replace(seg.Raw)))
			continue
		}

		item, err := classify(seg.Raw, c.log)
		if err != nil {
			return nil, err
		}
		if err := checkKind(item.Kind, kind); err != nil {
			return nil, err
		}
		content = append(content, item)
	}

	if len(content) == 0 {
		content = append(content, Text(""))
	}
	return content, nil
}

// EncodeLine renders content as raw <lines> markup. Content must satisfy
// restrictions of the section kind, violations panic. Use Validate to check
// content coming from outside.
func (c *Codec) EncodeLine(content []ContentItem, kind SectionKind) string {
	var buf strings.Builder
	for i := range content {
		item := &content[i]
		if err := checkKind(item.Kind, kind); err != nil {
			panic(fmt.Sprintf("lyrics: unable to encode line: %v", err))
		}
		switch item.Kind {
		case ContentText:
			buf.WriteString(textEscaper.Replace(item.Value))
		case ContentComment:
			buf.WriteString("<comment>")
			buf.WriteString(escapeInline(item.Value))
			buf.WriteString("</comment>")
		case ContentTag:
			buf.WriteString(`<tag name="`)
			buf.WriteString(escapeAttr(item.Name))
			if item.Value == "" {
				buf.WriteString(`"/>`)
				continue
			}
			buf.WriteString(`">`)
			buf.WriteString(escapeInline(item.Value))
			buf.WriteString("</tag>")
		case ContentChord:
			if item.Chord == nil {
				panic("lyrics: unable to encode line: chord item without chord")
			}
			renderChord(&buf, item.Chord, c.dialect, c.log)
		case ContentBeat:
			renderBeat(&buf, item.Beat, c.dialect, c.log)
		default:
			panic(fmt.Sprintf("lyrics: unable to encode line: unknown content kind %q", item.Kind))
		}
	}
	return buf.String()
}

func renderChord(buf *strings.Builder, ch *Chord, dialect common.Dialect, log *zap.Logger) {
	buf.WriteString("<chord")
	for _, a := range chordAttrs(ch, dialect, log) {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(a.Value))
		buf.WriteByte('"')
	}
	if ch.Value == nil || *ch.Value == "" {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	buf.WriteString(escapeInline(*ch.Value))
	buf.WriteString("</chord>")
}

func escapeEntityRefs(s string) string {
	return reEntityRef.ReplaceAllStringFunc(s, func(ref string) string {
		return "&amp;" + ref[1:]
	})
}

// escapeInline escapes text inside inline elements. Bare ampersands stay as
// they are, same as in top level text.
func escapeInline(s string) string {
	return textEscaper.Replace(escapeEntityRefs(s))
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(escapeEntityRefs(s))
}
