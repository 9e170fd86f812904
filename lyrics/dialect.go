package lyrics

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"olc/common"
)

// Chord attributes we know about. Everything else ends up in Chord.Ext.
const (
	attrRoot      = "root"
	attrName      = "name" // legacy spelling of root
	attrStructure = "structure"
	attrBass      = "bass"
	attrUpbeat    = "upbeat"
)

// normalizeChord converts attributes of either dialect into canonical Chord.
// When both "root" and "name" are present "root" wins and "name" is kept as
// an extension attribute.
func normalizeChord(el *etree.Element, log *zap.Logger) Chord {
	var ch Chord
	hasRoot := el.SelectAttr(attrRoot) != nil
	for _, a := range el.Attr {
		key := a.FullKey()
		switch {
		case key == attrRoot:
			ch.Root = a.Value
		case key == attrName && !hasRoot:
			ch.Root = a.Value
		case key == attrStructure:
			ch.Structure = a.Value
		case key == attrBass:
			ch.Bass = a.Value
		case key == attrUpbeat:
			if v, err := strconv.ParseBool(strings.TrimSpace(a.Value)); err == nil {
				ch.Upbeat = v
				continue
			}
			log.Debug("Unexpected upbeat value, passing through", zap.String("value", a.Value))
			ch.Ext = append(ch.Ext, Attr{Key: key, Value: a.Value})
		default:
			log.Debug("Unknown chord attribute, passing through", zap.String("attr", key), zap.String("value", a.Value))
			ch.Ext = append(ch.Ext, Attr{Key: key, Value: a.Value})
		}
	}
	if v := innerText(el); v != "" {
		ch.Value = &v
	}
	return ch
}

// chordAttrs returns chord attributes in canonical order for requested
// dialect. Legacy dialect cannot express structure, bass and upbeat, those
// are dropped with a warning.
func chordAttrs(ch *Chord, dialect common.Dialect, log *zap.Logger) []Attr {
	attrs := make([]Attr, 0, 4+len(ch.Ext))
	emitted := make(map[string]bool, 4)
	add := func(key, value string) {
		attrs = append(attrs, Attr{Key: key, Value: value})
		emitted[key] = true
	}

	switch dialect {
	case common.DialectLegacy:
		if ch.Root != "" {
			add(attrName, ch.Root)
		}
		if ch.Structure != "" || ch.Bass != "" || ch.Upbeat {
			log.Warn("Lossy dialect downgrade, dropping chord attributes",
				zap.String("root", ch.Root),
				zap.String("structure", ch.Structure),
				zap.String("bass", ch.Bass),
				zap.Bool("upbeat", ch.Upbeat))
		}
	default:
		if ch.Root != "" {
			add(attrRoot, ch.Root)
		}
		if ch.Structure != "" {
			add(attrStructure, ch.Structure)
		}
		if ch.Bass != "" {
			add(attrBass, ch.Bass)
		}
		if ch.Upbeat {
			add(attrUpbeat, "true")
		}
	}

	for _, a := range ch.Ext {
		if emitted[a.Key] {
			log.Debug("Extension attribute collides with chord attribute, dropping", zap.String("attr", a.Key))
			continue
		}
		add(a.Key, a.Value)
	}
	return attrs
}
