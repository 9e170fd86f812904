package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"olc/common"
	"olc/config"
	"olc/convert"
	"olc/misc"
	"olc/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// no command given, help will be shown
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// keep both processed and original configuration in the report when
		// it came from a file
		if len(configFile) > 0 {
			// Dump hides secrets
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
			if err := env.Rpt.StoreCopy(fmt.Sprintf("config/original-%s", filepath.Base(configFile)), configFile); err != nil {
				return ctx, fmt.Errorf("unable to store configuration file in debug report: %w", err)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// flush and close logging
	env.RestoreStdLog()

	// log is synced and may be put into the report, anything failing from
	// here on has to be reported on stderr
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// report is closed, drop panic file if nothing was written there
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// urfave/cli exit errors are not used, subcommands return regular errors and
// they are reported either by exitErrHandler or at the end of main.
var errWasHandled bool

// exitErrHandler runs before destroyAppContext, so subcommand error can still
// go into the log
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// nothing special, same reporting path as any other error
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

const sourceHelp = `
SOURCE:
    path to song file(s) to process, following forms are supported:
        path to a file: "[path_to_file]file.%[1]s"
        path to a directory: "[path_to_directory]directory" - recursively process all files under directory (symbolic links are not followed)
        path to archive with path inside archive to a particular file: "[path_to_archive]archive.zip[path_in_archive]/file.%[1]s"
        path to archive with path inside archive: "[path_to_archive]archive.zip[path_in_archive]" - recursively process all songs under archive path

	When working on archive recursively only song files will be considered,
	processing of archives inside archives is not supported.
`

const destinationHelp = `
DESTINATION:
    always a path, output file name(s) and extension will be derived from song and configuration
    if absent - current working directory
`

// Flags shared by several commands, each command gets its own instance.

func zipCPFlag() cli.Flag {
	return &cli.StringFlag{Name: "force-zip-cp",
		Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"}
}

func noDirsFlag() cli.Flag {
	return &cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"}
}

func overwriteFlag() cli.Flag {
	return &cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"}
}

func onMalformedFlag() cli.Flag {
	return &cli.StringFlag{Name: "on-malformed",
		Usage: "what to do with lines which cannot be decoded, overrides configuration (supported modes: " + strings.Join(common.RecoveryModeNames(), ", ") + ")"}
}

func main() {

	// allow graceful shutdown on interrupt.
	// NOTE: directory and archive walks check context between songs, so
	// interrupt stops processing after current song
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "codec for OpenLyrics song documents",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "decode",
				Usage:        "Decodes OpenLyrics document(s) into structured song description",
				OnUsageError: usageErrorHandler,
				Action:       convert.Decode,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to",
						Usage: "output `TYPE`, overrides configuration (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"},
					onMalformedFlag(), noDirsFlag(), overwriteFlag(), zipCPFlag(),
				},
				ArgsUsage:          "SOURCE [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + fmt.Sprintf(sourceHelp, "xml") + destinationHelp,
			},
			{
				Name:         "encode",
				Usage:        "Encodes song description(s) (YAML or JSON) into OpenLyrics document(s)",
				OnUsageError: usageErrorHandler,
				Action:       convert.Encode,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dialect",
						Usage: "chord `DIALECT` of produced documents, overrides configuration (supported: " + strings.Join(common.DialectNames(), ", ") + ")"},
					noDirsFlag(), overwriteFlag(), zipCPFlag(),
				},
				ArgsUsage:          "SOURCE [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + fmt.Sprintf(sourceHelp, "yaml") + destinationHelp,
			},
			{
				Name:         "check",
				Usage:        "Verifies that OpenLyrics document(s) survive decode and encode unchanged",
				OnUsageError: usageErrorHandler,
				Action:       convert.Check,
				Flags:        []cli.Flag{onMalformedFlag(), zipCPFlag()},
				ArgsUsage:    "SOURCE",
				CustomHelpTemplate: cli.CommandHelpTemplate + fmt.Sprintf(sourceHelp, "xml") + `
Nothing is written, every song is encoded using configured chord dialect and
decoded again. Differences are logged, command fails when any song differs.
`,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: cli.CommandHelpTemplate + `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`,
			},
		},
	}

	var err error
	// os.Exit is called at the end of main to set exit code, make sure there
	// are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// log may not exist yet (bad arguments) or is already closed,
			// so error goes to stderr
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		which string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		which = "default"
		data, err = config.Prepare()
	} else {
		which = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	if env.Log != nil {
		env.Log.Info("Outputting configuration", zap.String("state", which), zap.String("file", fname))
	}

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
