package lyrics

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"olc/common"
)

// decodeBeat groups chords of a <beat> element. Beat itself has no
// attributes we care about, anything other than chords inside is ignored.
// Chords of a beat mark a position only, text they wrap is dropped.
func decodeBeat(el *etree.Element, log *zap.Logger) ContentItem {
	chords := make([]Chord, 0, 2)
	for _, t := range el.Child {
		switch v := t.(type) {
		case *etree.Element:
			if v.Tag != elemChord {
				log.Warn("Unexpected tag in beat, ignoring", zap.String("tag", v.FullTag()))
				continue
			}
			ch := normalizeChord(v, log)
			if ch.Value != nil {
				log.Warn("Chord in beat cannot span text, dropping value", zap.String("root", ch.Root), zap.String("value", *ch.Value))
				ch.Value = nil
			}
			chords = append(chords, ch)
		case *etree.CharData:
			if strings.TrimSpace(v.Data) != "" {
				log.Warn("Unexpected text in beat, ignoring", zap.String("text", v.Data))
			}
		}
	}
	return BeatItem(chords...)
}

func renderBeat(buf *strings.Builder, chords []Chord, dialect common.Dialect, log *zap.Logger) {
	buf.WriteString("<beat>")
	for i := range chords {
		renderChord(buf, &chords[i], dialect, log)
	}
	buf.WriteString("</beat>")
}
