package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nutsalhan87/zond/internal/app"
)

type runOptions struct {
	configPath string
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := runOptions{
		configPath: "zond.yaml",
	}

	root := &cobra.Command{
		Use:     "zonddemo",
		Short:   "Synthetic workload driver for zond-instrumented vectors",
		Version: app.Version,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to workload config file")

	root.AddCommand(
		newRunCmd(logger, &opts),
		newValidateCmd(logger, &opts),
		newInitCmd(logger, &opts),
	)

	return root
}

func newRunCmd(logger *zap.Logger, opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the workload described by the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application := app.New(logger)
			return application.Run(ctx, opts.configPath)
		},
	}
}

func newValidateCmd(logger *zap.Logger, opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file without running the workload",
		RunE: func(_ *cobra.Command, _ []string) error {
			application := app.New(logger)
			if err := application.Validate(opts.configPath); err != nil {
				return err
			}
			logger.Info("config is valid", zap.String("path", opts.configPath))
			return nil
		},
	}
}

func newInitCmd(logger *zap.Logger, opts *runOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file with every setting at its default",
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", opts.configPath)
			}
			starter, err := app.StarterConfig()
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.configPath, starter, 0o644); err != nil {
				return err
			}
			logger.Info("starter config written", zap.String("path", opts.configPath))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
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
