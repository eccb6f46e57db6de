// Command icalgen renders YAML calendar documents as iCalendar streams.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

const defaultProdID = "-//luxifer//icalgen//EN"

type options struct {
	outDir      string
	prodID      string
	concurrency int
	logLevel    string
}

func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unrecognized log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "icalgen [OPTIONS] FILE...",
		Short:        "Render YAML calendar documents as iCalendar streams",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.outDir, "out-dir", "o", "", "Write one .ics file per document into this directory instead of stdout")
	flags.StringVar(&opts.prodID, "prodid", defaultProdID, "PRODID of calendars that do not set one")
	flags.IntVarP(&opts.concurrency, "concurrency", "j", 4, "Number of documents rendered in parallel")
	flags.StringVar(&opts.logLevel, "log.level", "info", "Only log messages with the given severity or above. One of: [debug, info, warn, error]")
	return cmd
}

func run(ctx context.Context, opts options, paths []string, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}
	if opts.concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", opts.concurrency)
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
	}

	r := newRenderer(logger, opts.outDir, opts.prodID, stdout)
	level.Debug(logger).Log("msg", "rendering documents", "count", len(paths), "concurrency", opts.concurrency)
	if err := r.renderAll(ctx, paths, opts.concurrency); err != nil {
		level.Error(logger).Log("msg", "rendering failed", "err", err)
		return err
	}
	return nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
