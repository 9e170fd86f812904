package convert

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"olc/common"
	"olc/content"
	"olc/lyrics"
	"olc/state"
)

// checkRoundTrip encodes decoded song and decodes the result again. Song
// properties, formatting and every section must come back unchanged, song
// meta is rewritten by encoding and is not compared.
func checkRoundTrip(c *content.Content, env *state.LocalEnv, log *zap.Logger) error {
	codec := env.Codec()

	doc, err := lyrics.BuildSongXML(c.Song, env.EncodeOptions(), codec)
	if err != nil {
		return fmt.Errorf("unable to encode song: %w", err)
	}
	if err := c.SaveArtifact("roundtrip.xml", doc); err != nil {
		log.Warn("Unable to save round trip document for debugging", zap.Error(err))
	}

	again, err := lyrics.ParseSongXML(doc, codec, log)
	if err != nil {
		return fmt.Errorf("unable to decode encoded song: %w", err)
	}

	diffs := songDiff(c.Song, again)
	if len(diffs) == 0 {
		log.Debug("Round trip check passed", zap.String("title", c.Song.Properties.FirstTitle()))
		return nil
	}
	for _, d := range diffs {
		log.Warn("Round trip difference", zap.String("where", d.where), zap.String("was", d.was), zap.String("now", d.now))
	}
	if codec.Dialect() == common.DialectLegacy {
		log.Warn("Legacy chord dialect drops chord attributes, differences are expected")
	}
	return fmt.Errorf("song does not survive round trip, %d difference(s), first in %s", len(diffs), diffs[0].where)
}

type difference struct {
	where, was, now string
}

func songDiff(a, b *lyrics.Song) []difference {
	var out []difference
	add := func(where string, was, now any) {
		out = append(out, difference{where: where, was: fmt.Sprintf("%+v", was), now: fmt.Sprintf("%+v", now)})
	}

	pa, pb := a.Properties, b.Properties
	// tempo type is inferred on encoding when missing
	if pa.TempoType == "" {
		pb.TempoType = ""
	}
	if !reflect.DeepEqual(normalizeProperties(pa), normalizeProperties(pb)) {
		add("properties", pa, pb)
	}
	if !reflect.DeepEqual(a.Format, b.Format) && (len(a.Format) != 0 || len(b.Format) != 0) {
		add("format", a.Format, b.Format)
	}

	for _, group := range []struct {
		name string
		a, b []lyrics.Section
	}{
		{"verses", a.Verses, b.Verses},
		{"instruments", a.Instruments, b.Instruments},
	} {
		if len(group.a) != len(group.b) {
			add(group.name, len(group.a), len(group.b))
			continue
		}
		for i := range group.a {
			out = append(out, sectionDiff(fmt.Sprintf("%s[%d]", group.name, i), &group.a[i], &group.b[i])...)
		}
	}
	return out
}

func sectionDiff(where string, a, b *lyrics.Section) []difference {
	var out []difference
	ha, hb := *a, *b
	ha.Lines, hb.Lines = nil, nil
	if !reflect.DeepEqual(ha, hb) {
		out = append(out, difference{where: where, was: fmt.Sprintf("%+v", ha), now: fmt.Sprintf("%+v", hb)})
	}
	if len(a.Lines) != len(b.Lines) {
		return append(out, difference{where: where + ".lines", was: fmt.Sprint(len(a.Lines)), now: fmt.Sprint(len(b.Lines))})
	}
	for i := range a.Lines {
		if !reflect.DeepEqual(a.Lines[i], b.Lines[i]) {
			out = append(out, difference{
				where: fmt.Sprintf("%s.lines[%d]", where, i),
				was:   lyrics.EncodeLine(a.Lines[i].Content, a.Kind, common.DialectCurrent),
				now:   lyrics.EncodeLine(b.Lines[i].Content, b.Kind, common.DialectCurrent),
			})
		}
	}
	return out
}

// normalizeProperties makes empty and absent lists equal.
func normalizeProperties(p lyrics.Properties) lyrics.Properties {
	if len(p.Authors) == 0 {
		p.Authors = nil
	}
	if len(p.Themes) == 0 {
		p.Themes = nil
	}
	if len(p.SongBooks) == 0 {
		p.SongBooks = nil
	}
	if len(p.Comments) == 0 {
		p.Comments = nil
	}
	return p
}
