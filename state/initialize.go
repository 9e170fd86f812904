package state

import (
	"time"

	"go.uber.org/zap"

	"olc/config"
	"olc/lyrics"
	"olc/misc"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func newCodec(cfg *config.Config, log *zap.Logger) *lyrics.Codec {
	if cfg == nil {
		return lyrics.NewCodec(log)
	}
	return lyrics.NewCodec(log, cfg.Codec.CodecOptions()...)
}

// encodeOptions fills document defaults, program name and version stand in
// for empty createdIn/modifiedIn.
func encodeOptions(cfg *config.Config) lyrics.EncodeOptions {
	var opts lyrics.EncodeOptions
	if cfg != nil {
		opts = cfg.Document.EncodeOptions()
	}
	if opts.CreatedIn == "" {
		opts.CreatedIn = misc.GetCreator()
	}
	if opts.ModifiedIn == "" {
		opts.ModifiedIn = misc.GetCreator()
	}
	return opts
}
