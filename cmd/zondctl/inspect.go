package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nutsalhan87/zond/sink/boltsink"
)

func newInspectCmd(opts *cliOptions) *cobra.Command {
	var run string
	var instance uint64

	cmd := &cobra.Command{
		Use:   "inspect <archive.db>",
		Short: "Browse runs, collectors, and batches stored in a bolt archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := boltsink.OpenArchive(args[0])
			if err != nil {
				return err
			}
			defer archive.Close()

			switch {
			case cmd.Flags().Changed("instance"):
				if run == "" {
					return errors.New("--instance requires --run")
				}
				return printInstanceBatches(archive, run, instance, opts)
			case run != "":
				return printRunInstances(archive, run, opts)
			default:
				return printRuns(archive, opts)
			}
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "list the collectors recorded under this run")
	cmd.Flags().Uint64Var(&instance, "instance", 0, "print the batches of this collector (requires --run)")
	return cmd
}
