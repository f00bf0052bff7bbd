package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/svnmirror/internal/config"
	"github.com/dshills/svnmirror/internal/logging"
	"github.com/dshills/svnmirror/internal/mirror"
	"github.com/dshills/svnmirror/internal/output"
	"github.com/dshills/svnmirror/internal/svnctx"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svnmirror -s <svn_dir> -o <output_dir> -r <revision_1> [-t <revision_2>]",
		Short: "Copy files changed between two Subversion revisions",
		Long: "svnmirror asks svn for the paths modified or added between two revisions of a working copy " +
			"and copies those files into an output directory, preserving relative paths.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.exitCode = runSync(cmd, a)
			return nil
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().String("config", "", "Config file path (default: $XDG_CONFIG_HOME/svnmirror/config.yaml)")
	addSyncFlags(cmd.Flags())
	return cmd
}

// addSyncFlags registers the flags of the sync run. Names match config keys;
// defaults match config.Default so an untouched flag never masks a lower layer.
func addSyncFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringP("svn_dir", "s", "", "Subversion working copy directory")
	fs.StringP("output_dir", "o", "", "Output directory")
	fs.StringP("revision_1", "r", "", "Earlier revision")
	fs.StringP("revision_2", "t", d.Revision2, "Later revision")
	fs.BoolP("verbose", "v", d.Verbose, "Verbose mode")
	fs.BoolP("quiet", "q", false, "Quiet mode (overrides -v)")
	fs.String("svn-binary", d.SVNBinary, "svn client to invoke")
	fs.StringSlice("svn-args", nil, "Extra global arguments passed to svn (comma-separated)")
	fs.Bool("xml", d.XML, "Parse the XML rendition of the change summary")
	fs.StringSlice("include", nil, "Only mirror paths matching these globs (comma-separated)")
	fs.StringSlice("exclude", nil, "Never mirror paths matching these globs (comma-separated)")
	fs.BoolP("dry-run", "n", d.DryRun, "Report what would be copied without writing anything")
	fs.String("report", d.Report, "Run summary format (none, text, json, markdown)")
	fs.String("report-out", "", "Write the run summary to this file (default: stdout)")
	fs.String("log-level", d.LogLevel, "Diagnostic log level (debug, info, warn, error, none)")
}

func runSync(cmd *cobra.Command, a *app) int {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		printError(a.stderr, err)
		return ExitUsageError
	}
	if err := cfg.Validate(); err != nil {
		printError(a.stderr, err)
		fmt.Fprint(a.stderr, cmd.UsageString())
		return ExitUsageError
	}

	logger, err := logging.New(cfg.LogLevel, a.stderr)
	if err != nil {
		printError(a.stderr, err)
		return ExitUsageError
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DryRun {
		printWarning(a.stderr, "dry run, nothing will be written")
	}

	report, err := syncOnce(cmd.Context(), cfg, a, logger)
	if err != nil {
		printError(a.stderr, err)
		return exitCodeFor(err)
	}

	if cfg.Report != "none" {
		if err := output.WriteReport(report, cfg.Report, cfg.ReportOut, a.stdout); err != nil {
			printError(a.stderr, fmt.Errorf("writing report: %w", err))
			return ExitRuntimeError
		}
	}
	return ExitSuccess
}

// syncOnce performs the single mirror pass described by cfg.
func syncOnce(ctx context.Context, cfg config.Config, a *app, logger *zap.Logger) (*mirror.Report, error) {
	format := svnctx.FormatText
	if cfg.XML {
		format = svnctx.FormatXML
	}
	lister := svnctx.New(cfg.SVNBinary, cfg.SVNArgs, format, logger)

	m := mirror.New(lister,
		mirror.Output(a.stdout),
		mirror.Logger(logger),
	)
	report, err := m.Run(ctx, requestFrom(cfg))
	if err != nil {
		logger.Debug("run aborted",
			zap.Int("copied", len(report.Files)),
			zap.Int("directories", len(report.Directories)),
			zap.Error(err))
		return report, err
	}
	logger.Info("run complete",
		zap.Int("changes", report.Changes),
		zap.Int("copied", len(report.Files)),
		zap.Int64("bytes", report.Bytes))
	return report, nil
}

func requestFrom(cfg config.Config) mirror.Request {
	return mirror.Request{
		SourceRoot:      cfg.SourceRoot,
		DestinationRoot: cfg.OutputRoot,
		RevisionA:       cfg.Revision1,
		RevisionB:       cfg.Revision2,
		Verbose:         cfg.Verbose,
		DryRun:          cfg.DryRun,
		Include:         cfg.Include,
		Exclude:         cfg.Exclude,
	}
}

// exitCodeFor maps a run failure onto the process exit status.
func exitCodeFor(err error) int {
	var (
		usageErr   *config.UsageError
		missingErr *mirror.MissingOriginError
		toolErr    *svnctx.ToolError
	)
	switch {
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &missingErr):
		return ExitMissingOrigin
	case errors.As(err, &toolErr):
		return ExitToolError
	default:
		return ExitRuntimeError
	}
}
