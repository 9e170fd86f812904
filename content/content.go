// Package content turns a single song source into decoded song ready to be
// written in any supported form.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"olc/lyrics"
	"olc/misc"
	"olc/state"
)

// Content is one song together with what we know about where it came from.
type Content struct {
	SrcName string
	Kind    SourceKind
	// Source is UTF-8 source as it was handed to the decoder.
	Source []byte
	Song   *lyrics.Song
	// RefID identifies this song in logs and in the debug report.
	RefID string
	// WorkDir keeps debugging artifacts, empty when no report is requested.
	WorkDir string
}

// Prepare reads and decodes song source. OpenLyrics documents go through line
// codec configured in the environment, YAML and JSON descriptions are decoded
// and validated.
//
// When codec recovers from malformed lines both content and error describing
// them are returned, error alone means nothing usable was produced.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read song: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate song reference id: %w", err)
	}
	c := &Content{SrcName: srcName, Kind: DetectKind(srcName, data), RefID: id.String()}
	log = log.With(zap.String("ref", c.RefID))

	var decodeErr error
	switch c.Kind {
	case SourceXML:
		if c.Source, err = toUTF8(data, log); err != nil {
			return nil, err
		}
		c.Song, decodeErr = lyrics.ParseSongXML(c.Source, env.Codec(), log)
		if c.Song == nil {
			return nil, fmt.Errorf("unable to decode song: %w", decodeErr)
		}
	case SourceYAML, SourceJSON:
		c.Source = data
		if c.Song, err = decodeDescription(data, c.Kind); err != nil {
			return nil, fmt.Errorf("unable to decode song description: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to recognize song source %s", filepath.Base(srcName))
	}

	log.Debug("Song decoded",
		zap.Stringer("kind", c.Kind),
		zap.String("title", c.Song.Properties.FirstTitle()),
		zap.Int("verses", len(c.Song.Verses)),
		zap.Int("instruments", len(c.Song.Instruments)))

	if env.Rpt != nil {
		if err := c.saveForReport(env); err != nil {
			return nil, err
		}
	}
	return c, decodeErr
}

func (c *Content) saveForReport(env *state.LocalEnv) error {
	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return fmt.Errorf("unable to create temporary directory: %w", err)
	}
	env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), c.RefID), tmpDir)
	c.WorkDir = tmpDir

	base := filepath.Base(c.SrcName)
	return errors.Join(
		os.WriteFile(filepath.Join(tmpDir, base+"_pristine"), c.Source, 0644),
		os.WriteFile(filepath.Join(tmpDir, base+"_decoded.txt"), []byte(c.String()), 0644),
	)
}

// SaveArtifact writes additional debugging data next to the pristine source.
// Does nothing when no report was requested.
func (c *Content) SaveArtifact(name string, data []byte) error {
	if c.WorkDir == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(c.WorkDir, name), data, 0644)
}
