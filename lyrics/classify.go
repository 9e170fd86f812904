package lyrics

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Inline element names.
const (
	elemComment = "comment"
	elemTag     = "tag"
	elemChord   = "chord"
	elemBeat    = "beat"
)

// parseInline parses single inline element segment. Every segment gets its
// own document so nothing leaks between calls. Unknown entities are kept
// as is.
func parseInline(raw string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		ValidateInput: false,
		Permissive:    true,
	}
	if err := doc.ReadFromString(raw); err != nil {
		return nil, malformed("unable to parse %q: %v", raw, err)
	}
	el := doc.Root()
	if el == nil {
		return nil, malformed("no element in %q", raw)
	}
	return el, nil
}

// classify turns a tag segment into content item. It does not know about
// section kinds, restrictions are enforced by the caller.
func classify(raw string, log *zap.Logger) (ContentItem, error) {
	el, err := parseInline(raw)
	if err != nil {
		return ContentItem{}, err
	}

	switch el.Tag {
	case elemComment:
		return Comment(innerText(el)), nil
	case elemTag:
		return Annotation(el.SelectAttrValue("name", ""), innerText(el)), nil
	case elemChord:
		return ChordItem(normalizeChord(el, log)), nil
	case elemBeat:
		return decodeBeat(el, log), nil
	default:
		// newer schema revisions may add inline elements, keep their text
		log.Debug("Unknown inline element, keeping as annotation", zap.String("element", el.FullTag()))
		return Annotation(el.FullTag(), innerText(el)), nil
	}
}

// innerText concatenates all character data under element in document order.
func innerText(el *etree.Element) string {
	var buf strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, t := range e.Child {
			switch v := t.(type) {
			case *etree.CharData:
				buf.WriteString(v.Data)
			case *etree.Element:
				walk(v)
			}
		}
	}
	walk(el)
	return buf.String()
}
