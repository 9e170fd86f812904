// Package state defines shared program state.
package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"olc/common"
	"olc/config"
	"olc/lyrics"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by decode, encode and check subcommands
	NoDirs    bool
	Overwrite bool
	CodePage  encoding.Encoding
	Format    common.OutputFmt

	codecOnce sync.Once
	codec     *lyrics.Codec

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Codec returns line codec configured from codec section of configuration.
// Configuration and logger must be set before first call.
func (e *LocalEnv) Codec() *lyrics.Codec {
	e.codecOnce.Do(func() {
		e.codec = newCodec(e.Cfg, e.Log)
	})
	return e.codec
}

// EncodeOptions returns document defaults for songs being written.
func (e *LocalEnv) EncodeOptions() lyrics.EncodeOptions {
	return encodeOptions(e.Cfg)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
