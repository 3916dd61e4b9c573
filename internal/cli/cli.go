package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/amirbrooks/promemoria/internal/config"
	"github.com/amirbrooks/promemoria/internal/logging"
	"github.com/amirbrooks/promemoria/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitInternal = 10
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

type rootFlags struct {
	configPath string
	storePath  string
	logLevel   string
	noColor    bool
}

// session wires configuration, logging and the repository for one command.
type session struct {
	flags  rootFlags
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s *session) config() (config.Config, error) {
	cfg, err := config.Load(s.flags.configPath)
	if err != nil {
		return cfg, usageError{err}
	}
	if strings.TrimSpace(s.flags.storePath) != "" {
		cfg.StoreFile = config.ExpandPath(s.flags.storePath)
	}
	if strings.TrimSpace(s.flags.logLevel) != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(s.flags.logLevel))
	}
	if s.flags.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, usageError{err}
	}
	return cfg, nil
}

func (s *session) logger(cfg config.Config) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	return logging.New(s.errOut, opts)
}

func (s *session) app() (*App, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, s.logger(cfg), s.in, s.out), nil
}

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := newRootCmd(in, out, errOut)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(errOut, "promemoria:", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrAmbiguous), errors.Is(err, store.ErrDuplicate):
		return ExitConflict
	default:
		return ExitInternal
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	s := &session{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "promemoria",
		Short: "Console reminders grouped by category",
		Long: `Promemoria keeps dated tasks grouped by category in a single JSON file.

Run without a subcommand to open the interactive menu.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app()
			if err != nil {
				return err
			}
			return a.Interactive()
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&s.flags.configPath, "config", "", "config file (default ~/.promemoria/config.toml)")
	pf.StringVar(&s.flags.storePath, "store", "", "snapshot file, overrides store_file")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&s.flags.noColor, "no-color", false, "render plain text")

	cmd.AddCommand(
		newListCmd(s),
		newSearchCmd(s),
		newNotifyCmd(s),
		newExportCmd(s),
		newVersionCmd(s),
	)
	return cmd
}

func newListCmd(s *session) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task, pending first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app()
			if err != nil {
				return err
			}
			if plain {
				a.render.plain(s.out, a.repo.Listing())
				return nil
			}
			a.render.listing(s.out, a.repo.Listing())
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "tab-separated output")
	return cmd
}

func newSearchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by name",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			results := a.repo.Search(query)
			if results.Empty() {
				return fmt.Errorf("%w: no task matches %q", store.ErrNotFound, query)
			}
			a.render.listing(s.out, store.List(results))
			return nil
		},
	}
}

func newNotifyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Show tasks due today, upcoming, overdue and completed",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app()
			if err != nil {
				return err
			}
			a.render.notifications(s.out, store.Classify(a.repo))
			return nil
		},
	}
}

func newExportCmd(s *session) *cobra.Command {
	var format, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a copy of all tasks to the export directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app()
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.ExportFormat
			}
			if _, err := store.NormalizeFormat(format); err != nil {
				return usageError{err}
			}
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path, err := store.Export(a.repo, config.ExpandPath(dir), format)
			if err != nil {
				return err
			}
			a.log.Info("export written", "path", path, "tasks", a.repo.Len())
			fmt.Fprintln(s.out, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "export format (yaml, json)")
	cmd.Flags().StringVar(&dir, "dir", "", "export directory, overrides export_dir")
	return cmd
}

func newVersionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(s.out, "promemoria %s\n", Version)
		},
	}
}
