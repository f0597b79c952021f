// Package cmd provides the CLI commands for folder2index.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Aman-CERP/folder2index/internal/config"
	"github.com/Aman-CERP/folder2index/internal/document"
	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
	"github.com/Aman-CERP/folder2index/internal/indexer"
	"github.com/Aman-CERP/folder2index/internal/logging"
	"github.com/Aman-CERP/folder2index/internal/output"
	"github.com/Aman-CERP/folder2index/internal/profiling"
	"github.com/Aman-CERP/folder2index/internal/scanner"
	"github.com/Aman-CERP/folder2index/internal/store"
	"github.com/Aman-CERP/folder2index/pkg/version"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitArgument = 2
)

// rootOptions holds the raw flag values of the root command.
type rootOptions struct {
	index      string
	roots      []string
	encoding   string
	useTika    bool
	backend    string
	exclude    []string
	noFollow   bool
	batchSize  int
	configPath string
	debug      bool
	noColor    bool
	profile    profiling.Options
}

// NewRootCmd creates the root command for the folder2index CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "folder2index --index DIR --folder DIR [flags] [folder...]",
		Short: "Build a full-text index from a folder of documents",
		Long: `folder2index walks the given folders and files and writes one index
record per document.

By default only .txt files are indexed, decoded with --encoding.
With --use-tika, PDF, HTML and text files are parsed and their title,
content and content type are stored.

The target index is recreated on every run.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}

			cleanup, err := startLogging(cfg.Debug)
			if err != nil {
				return err
			}
			defer cleanup()

			profiler, err := profiling.Start(opts.profile)
			if err != nil {
				return apperrors.New(apperrors.ErrCodeInternal, "failed to start profiling", err)
			}
			defer func() {
				if stopErr := profiler.Stop(); stopErr != nil && err == nil {
					err = apperrors.New(apperrors.ErrCodeInternal, "failed to write profiles", stopErr)
				}
			}()

			return runIndex(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.SetVersionTemplate("folder2index version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.ArgumentError(err.Error(), err)
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.index, "index", "", "Target index folder (recreated)")
	flags.Var(&rootsValue{roots: &opts.roots}, "folder", "Folder or file to index (repeatable)")
	flags.Var(&rootsValue{roots: &opts.roots, split: true}, "folders", "Comma-separated folders or files to index (repeatable)")
	flags.StringVar(&opts.encoding, "encoding", config.DefaultEncoding, "Character encoding for .txt files")
	flags.BoolVar(&opts.useTika, "use-tika", false, "Parse PDF, HTML and TXT files and store title and content type")
	flags.StringVar(&opts.backend, "backend", config.DefaultBackend, "Index backend (bleve, sqlite)")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "Exclude paths matching a glob pattern (repeatable)")
	flags.BoolVar(&opts.noFollow, "no-follow-symlinks", false, "Do not follow symbolic links")
	flags.IntVar(&opts.batchSize, "batch-size", config.DefaultBatchSize, "Documents per index flush")
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file (flags take precedence)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging to ~/.folder2index/logs/")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable styled output")

	flags.StringVar(&opts.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	flags.StringVar(&opts.profile.Mem, "profile-mem", "", "Write memory profile to file")
	flags.StringVar(&opts.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return executeContext(ctx, NewRootCmd())
}

// executeContext runs cmd and maps its error to an exit code.
// Argument errors are printed with the usage to standard output; any other
// error is printed to standard error.
func executeContext(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	if apperrors.IsArgument(err) {
		printArgumentError(cmd, err)
		return ExitArgument
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), apperrors.FormatForCLI(err))
	return ExitFailure
}

// printArgumentError prints the error, the one-line usage and the flag list.
func printArgumentError(cmd *cobra.Command, err error) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Wrong arguments: %s\n", argumentMessage(err))
	_, _ = fmt.Fprintf(out, "Usage: %s\n", cmd.UseLine())
	_, _ = fmt.Fprint(out, cmd.LocalFlags().FlagUsages())
}

// argumentMessage returns the user-facing text of an argument error.
func argumentMessage(err error) string {
	e, ok := apperrors.As(err)
	if !ok {
		return err.Error()
	}
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// resolve builds the effective configuration: defaults, then the YAML file,
// then the flags that were set explicitly.
func (o *rootOptions) resolve(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	var ov config.Overrides
	if flags.Changed("index") {
		ov.Index = &o.index
	}
	if flags.Changed("encoding") {
		ov.Encoding = &o.encoding
	}
	if flags.Changed("use-tika") {
		ov.Extract = &o.useTika
	}
	if flags.Changed("backend") {
		ov.Backend = &o.backend
	}
	if flags.Changed("no-follow-symlinks") {
		follow := !o.noFollow
		ov.FollowSymlinks = &follow
	}
	if flags.Changed("batch-size") {
		ov.BatchSize = &o.batchSize
	}
	if flags.Changed("debug") {
		ov.Debug = &o.debug
	}
	if flags.Changed("no-color") {
		ov.NoColor = &o.noColor
	}
	ov.Folders = append(append([]string{}, o.roots...), args...)
	ov.Exclude = o.exclude

	cfg = cfg.With(ov)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// startLogging installs the debug file logger, or a discarding logger so
// that nothing but progress text reaches the terminal.
func startLogging(debug bool) (func(), error) {
	if !debug {
		logging.Discard()
		return func() {}, nil
	}

	cleanup, err := logging.SetupDebug()
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to setup debug logging", err)
	}
	return func() {
		slog.Debug("debug_logging_stopped")
		cleanup()
	}, nil
}

// runIndex builds the configured document builder and runs the indexer.
func runIndex(ctx context.Context, out io.Writer, cfg config.Config) error {
	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	backend, err := store.ParseBackend(cfg.Backend)
	if err != nil {
		return apperrors.ArgumentError(err.Error(), err)
	}

	runner, err := indexer.NewRunner(indexer.RunnerDependencies{
		Output:  output.New(out, cfg.NoColor),
		Builder: builder,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err)
	}

	_, err = runner.Run(ctx, indexer.RunnerConfig{
		Index:     cfg.Index,
		Roots:     cfg.Folders,
		Backend:   backend,
		BatchSize: cfg.BatchSize,
		Scan: scanner.Options{
			ExcludePatterns: cfg.Exclude,
			FollowSymlinks:  cfg.FollowSymlinks,
		},
	})
	return err
}

// newBuilder returns the extraction builder for --use-tika and the plain-text
// builder otherwise. An unknown charset is an argument error.
func newBuilder(cfg config.Config) (document.Builder, error) {
	if cfg.Extract {
		return document.NewExtractingBuilder(nil), nil
	}
	builder, err := document.NewPlainTextBuilder(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return builder, nil
}

// rootsValue is a flag that appends to a shared list of roots, so --folder
// and --folders keep their command-line order.
type rootsValue struct {
	roots *[]string
	split bool
}

var _ pflag.Value = (*rootsValue)(nil)

func (v *rootsValue) String() string {
	if v.roots == nil {
		return ""
	}
	return strings.Join(*v.roots, ",")
}

func (v *rootsValue) Set(s string) error {
	if !v.split {
		*v.roots = append(*v.roots, s)
		return nil
	}
	for _, p := range strings.Split(s, ",") {
		*v.roots = append(*v.roots, strings.TrimSpace(p))
	}
	return nil
}

func (v *rootsValue) Type() string {
	return "DIR"
}
