package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"olc/common"
	"olc/lyrics"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	CodecConfig struct {
		Dialect     common.Dialect      `yaml:"dialect" validate:"gte=0"`
		OnMalformed common.RecoveryMode `yaml:"on_malformed" validate:"gte=0"`
		Workers     int                 `yaml:"workers" validate:"min=1,max=256"`
	}

	DocumentConfig struct {
		DefaultLang           string           `yaml:"default_lang" validate:"omitempty,bcp47_language_tag"`
		CreatedIn             string           `yaml:"created_in"`
		ModifiedIn            string           `yaml:"modified_in"`
		Stylesheet            string           `yaml:"stylesheet"`
		OutputNameTemplate    string           `yaml:"output_name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
		OutputFormat          common.OutputFmt `yaml:"output_format" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Codec     CodecConfig    `yaml:"codec"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, templates are expanded per
	// song later and must survive configuration processing intact
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// CodecOptions translates codec section into codec construction options.
func (conf *CodecConfig) CodecOptions() []lyrics.Option {
	return []lyrics.Option{
		lyrics.WithDialect(conf.Dialect),
		lyrics.WithRecovery(conf.OnMalformed),
		lyrics.WithWorkers(conf.Workers),
	}
}

// EncodeOptions returns document defaults for songs being written.
func (conf *DocumentConfig) EncodeOptions() lyrics.EncodeOptions {
	return lyrics.EncodeOptions{
		CreatedIn:  conf.CreatedIn,
		ModifiedIn: conf.ModifiedIn,
		Lang:       conf.DefaultLang,
		Stylesheet: conf.Stylesheet,
	}
}
