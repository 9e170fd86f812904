// Package convert drives decode, encode and check commands over files,
// directories and zip archives.
package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"olc/archive"
	"olc/common"
	"olc/content"
	"olc/state"
)

type jobKind int

const (
	jobDecode jobKind = iota
	jobEncode
	jobCheck
)

func (k jobKind) String() string {
	switch k {
	case jobDecode:
		return "decode"
	case jobEncode:
		return "encode"
	case jobCheck:
		return "check"
	}
	return "unknown"
}

// job describes what is done to every song found in the source.
type job struct {
	kind   jobKind
	format common.OutputFmt

	processed int
	failed    int
}

// accepts tells if source of this kind is a song the job works on.
func (j *job) accepts(kind content.SourceKind) bool {
	switch j.kind {
	case jobEncode:
		return kind == content.SourceYAML || kind == content.SourceJSON
	default:
		return kind == content.SourceXML
	}
}

// Decode converts OpenLyrics documents into YAML, JSON, tree dump or
// normalized XML.
func Decode(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("decode")

	j := &job{kind: jobDecode, format: env.Cfg.Document.OutputFormat}
	if to := cmd.String("to"); to != "" {
		format, err := common.ParseOutputFmt(to)
		if err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", j.format))
		} else {
			j.format = format
		}
	}
	return run(ctx, cmd, j, log)
}

// Encode converts YAML or JSON song descriptions into OpenLyrics documents.
func Encode(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("encode")

	if d := cmd.String("dialect"); d != "" {
		dialect, err := common.ParseDialect(d)
		if err != nil {
			return fmt.Errorf("unknown chord dialect requested: %w", err)
		}
		env.Cfg.Codec.Dialect = dialect
	}
	return run(ctx, cmd, &job{kind: jobEncode, format: common.OutputFmtXml}, log)
}

// Check decodes every document, encodes it back and decodes result again
// reporting songs which do not survive the round trip.
func Check(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	j := &job{kind: jobCheck, format: common.OutputFmtXml}
	if err := run(ctx, cmd, j, log); err != nil {
		return err
	}
	if j.failed > 0 {
		return fmt.Errorf("%d of %d songs failed round trip check", j.failed, j.processed)
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command, j *job, log *zap.Logger) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	var dst string
	if j.kind != jobCheck {
		dst = cmd.Args().Get(1)
		if len(dst) == 0 {
			if dst, err = os.Getwd(); err != nil {
				return fmt.Errorf("unable to get working directory: %w", err)
			}
		}
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
		if cmd.Args().Len() > 2 {
			log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
		}
	} else if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, check does not write anything", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if m := cmd.String("on-malformed"); m != "" {
		mode, err := common.ParseRecoveryMode(m)
		if err != nil {
			return fmt.Errorf("unknown recovery mode requested: %w", err)
		}
		env.Cfg.Codec.OnMalformed = mode
	}

	env.NoDirs, env.Overwrite, env.Format = cmd.Bool("nodirs"), cmd.Bool("overwrite"), j.format

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("format", j.format), zap.Stringer("dialect", env.Cfg.Codec.Dialect))
	defer func(start time.Time) {
		log.Info("Processing completed",
			zap.Duration("elapsed", time.Since(start)), zap.Int("songs", j.processed), zap.Int("failed", j.failed))
	}(time.Now())

	return process(ctx, src, dst, j, log)
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly. Source may point inside of an archive, in which case
// only songs under that path are processed.
func process(ctx context.Context, src, dst string, j *job, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, j, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := processArchive(ctx, head, tail, "", dst, j, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		kind, err := songKind(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if !j.accepts(kind) {
			return fmt.Errorf("input was not recognized as song source for %s (%s)", j.kind, head)
		}
		processFile(ctx, head, filepath.Base(head), dst, j, log)
		break
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

func processFile(ctx context.Context, path, src, dst string, j *job, log *zap.Logger) {
	file, err := os.Open(path)
	if err != nil {
		j.processed++
		j.failed++
		log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		return
	}
	defer file.Close()

	if err := processSong(ctx, file, src, dst, j, log); err != nil {
		log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
	}
}

// processDir walks directory tree finding songs and archives and processes
// them.
func processDir(ctx context.Context, dir, dst string, j *job, log *zap.Logger) error {
	count := j.processed
	defer func() {
		if count == j.processed {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			rel := filepath.Dir(strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator)))
			if err := processArchive(ctx, path, "", rel, dst, j, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		kind, err := songKind(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !j.accepts(kind) {
			log.Debug("Skipping file, not recognized as song or archive", zap.String("file", path), zap.Stringer("kind", kind))
			return nil
		}

		processFile(ctx, path, strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator)), dst, j, log)
		return nil
	})
}

// processArchive walks all files inside archive, finds songs under "pathIn"
// and processes them. "pathOut" is directory of the archive relative to the
// processed source.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, j *job, log *zap.Logger) error {
	count := j.processed
	defer func() {
		if count == j.processed {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	cp := state.EnvFromContext(ctx).CodePage

	return archive.Walk(path, pathIn, func(archive string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		kind, err := songKindInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", archive), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !j.accepts(kind) {
			log.Debug("Skipping file, not recognized as song", zap.String("archive", archive), zap.String("file", f.Name))
			return nil
		}

		r, err := f.Open()
		if err != nil {
			j.processed++
			j.failed++
			log.Error("Unable to process file in archive", zap.String("archive", archive), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		pathInArchive := f.Name
		if cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		if err := processSong(ctx, r, filepath.Join(pathOut, filepath.FromSlash(pathInArchive)), dst, j, log); err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", archive), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
}

// processSong handles single song. "src" is path of the song relative to the
// processed source, base file name when single file was requested.
func processSong(ctx context.Context, r io.Reader, src, dst string, j *job, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var refID, outputName string

	j.processed++
	log.Info("Song processing starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Song processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		}
		if rerr != nil {
			j.failed++
			return
		}
		log.Info("Song processing completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", refID))
	}(time.Now())

	c, err := content.Prepare(ctx, r, src, log)
	if c == nil {
		return fmt.Errorf("unable to decode song source (%s): %w", src, err)
	}
	if err != nil {
		log.Warn("Song has lines which could not be decoded, raw markup kept as text", zap.String("from", src), zap.Error(err))
	}
	refID = c.RefID

	if j.kind == jobCheck {
		return checkRoundTrip(c, env, log)
	}

	data, err := render(c, j.format, env)
	if err != nil {
		return fmt.Errorf("unable to render %s: %w", j.format, err)
	}

	outputName = buildOutputPath(c, src, dst, j.format, env)
	if err := writeOutput(outputName, data, env, log); err != nil {
		return err
	}

	env.Rpt.Store(fmt.Sprintf("result-%s%s", refID, j.format.Ext()), outputName)
	return nil
}
