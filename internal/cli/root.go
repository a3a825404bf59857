package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	im "github.com/sjc5/mincss/internal/mincss"
)

const usageExitCode = 2

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}, nil)
	stop()
	os.Exit(code)
}

// run executes the root command and returns the process exit code. A nil
// runner means child processes are run for real.
func run(ctx context.Context, args []string, s streams, runner im.Runner) int {
	cmd := newRootCmd(s, runner)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintln(s.err, im.Diagnose(err))

	var ue usageError
	if errors.As(err, &ue) {
		return usageExitCode
	}
	return im.ExitCode(err)
}

func newRootCmd(s streams, runner im.Runner) *cobra.Command {
	c, envErr := im.ConfigFromEnv()
	c.Runner = runner
	c.Stderr = s.err

	var (
		debug bool
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "mincss [files or globs...]",
		Short: "Minify CSS from stdin (or files) to stdout",
		Long: "mincss reads a style sheet from standard input, or from the given files and\n" +
			"doublestar globs concatenated in order, and writes it minified to standard output.\n" +
			"npm-backed minifiers are installed under NODE_PREFIX on first use.\n\n" +
			"Backends: " + strings.Join(im.Backends(), ", "),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Logger = im.NewLogger(s.err, debug)

			// A bad MINCSS_MAX_INPUT is fine as long as --max-input replaces it.
			if envErr != nil && !cmd.Flags().Changed("max-input") {
				return usageError{envErr}
			}
			if err := c.Validate(); err != nil {
				return usageError{err}
			}

			ctx := cmd.Context()
			switch {
			case watch:
				if len(args) == 0 {
					return usageError{errors.New("--watch needs at least one file or glob")}
				}
				return c.Watch(ctx, args, s.out)
			case len(args) > 0:
				return c.RunFiles(ctx, args, s.out)
			default:
				return c.Run(ctx, s.in, s.out)
			}
		},
	}

	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&c.Backend, "backend", "b", c.Backend, "minifier backend (env MINCSS_BACKEND)")
	flags.StringVar(&c.NodePrefix, "node-prefix", c.NodePrefix, "npm install prefix for npm-backed minifiers (env NODE_PREFIX)")
	flags.StringVarP(&c.OutFile, "out", "o", "", "write to this file instead of stdout")
	flags.BoolVar(&c.HashOutFile, "hash", false, "add a content hash to the --out file name and print the final path")
	flags.BoolVarP(&watch, "watch", "w", false, "rebuild --out whenever an input file changes")
	flags.StringVar(&c.InvalidUTF8, "invalid-utf8", c.InvalidUTF8, "invalid UTF-8 policy: replace or reject (env MINCSS_INVALID_UTF8)")
	flags.Int64Var(&c.MaxInputBytes, "max-input", c.MaxInputBytes, "maximum input size in bytes, 0 for unlimited (env MINCSS_MAX_INPUT)")
	flags.BoolVar(&debug, "debug", im.GetIsDebug(), "enable debug logging on stderr (env MINCSS_DEBUG=true)")

	return cmd
}
