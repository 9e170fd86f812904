package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"olc/lyrics"
)

// decodeDescription reads song described in YAML or JSON. Unknown fields are
// errors, typos in hand written descriptions should not go unnoticed.
func decodeDescription(data []byte, kind SourceKind) (*lyrics.Song, error) {
	song := &lyrics.Song{}
	switch kind {
	case SourceYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(song); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unable to decode yaml: %w", err)
		}
	case SourceJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(song); err != nil {
			return nil, fmt.Errorf("unable to decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported description kind %s", kind)
	}

	for i := range song.Verses {
		song.Verses[i].Kind = lyrics.SectionVerse
	}
	for i := range song.Instruments {
		song.Instruments[i].Kind = lyrics.SectionInstrument
	}

	if err := lyrics.Validate(song); err != nil {
		return nil, err
	}
	return song, nil
}
