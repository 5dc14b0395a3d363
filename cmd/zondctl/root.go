package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nutsalhan87/zond/internal/app"
)

type cliOptions struct {
	jsonOutput bool
	verbose    bool
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:     "zondctl",
		Short:   "Inspect zond batch streams and archives",
		Version: app.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureLogger(cmd.Flags(), &opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log progress to stderr")

	root.AddCommand(
		newWatchCmd(&opts),
		newInspectCmd(&opts),
	)

	return root
}

// configureLogger upgrades the no-op logger when --verbose is set.
func configureLogger(flags *pflag.FlagSet, opts *cliOptions) error {
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	opts.logger = logger
	return nil
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
