package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
	"go.uber.org/zap"

	"olc/common"
	"olc/content"
	"olc/lyrics"
	"olc/state"
)

// render produces song representation in requested format.
func render(c *content.Content, format common.OutputFmt, env *state.LocalEnv) ([]byte, error) {
	switch format {
	case common.OutputFmtYaml:
		buf := new(bytes.Buffer)
		enc := yaml.NewEncoder(buf)
		enc.SetIndent(2)
		if err := enc.Encode(c.Song); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case common.OutputFmtJson:
		data, err := json.MarshalIndent(c.Song, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case common.OutputFmtTree:
		return []byte(c.String()), nil
	case common.OutputFmtXml:
		return lyrics.BuildSongXML(c.Song, env.EncodeOptions(), env.Codec())
	}
	return nil, fmt.Errorf("unsupported output format %s", format)
}

// writeOutput writes data to the file creating directories as necessary.
// Existing file is only replaced when overwrite was requested.
func writeOutput(name string, data []byte, env *state.LocalEnv, log *zap.Logger) error {
	if _, err := os.Stat(name); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}
