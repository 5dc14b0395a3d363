package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nutsalhan87/zond/sink"
)

func newWatchCmd(opts *cliOptions) *cobra.Command {
	var follow bool
	var instance uint64

	cmd := &cobra.Command{
		Use:   "watch <batches.jsonl>",
		Short: "Print batches from a JSONL stream, optionally as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			var filter *uint64
			if cmd.Flags().Changed("instance") {
				filter = &instance
			}
			return watchStream(ctx, args[0], follow, filter, opts)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep watching for new batches")
	cmd.Flags().Uint64Var(&instance, "instance", 0, "only print batches for this collector id")
	return cmd
}

func watchStream(ctx context.Context, path string, follow bool, filter *uint64, opts *cliOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stream := &streamReader{f: f}
	emit := func(record sink.BatchRecord) error {
		if filter != nil && record.Instance != *filter {
			return nil
		}
		return printBatch(record, opts.jsonOutput)
	}

	if err := stream.drain(emit); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	opts.logger.Info("watching", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			if err != nil {
				opts.logger.Warn("watch error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := stream.drain(emit); err != nil {
				return err
			}
		}
	}
}

// streamReader tails a JSONL file. It keeps the trailing partial line
// buffered until the writer completes it.
type streamReader struct {
	f       *os.File
	pending []byte
}

func (r *streamReader) drain(print func(sink.BatchRecord) error) error {
	chunk, err := io.ReadAll(r.f)
	if err != nil {
		return err
	}
	r.pending = append(r.pending, chunk...)

	for {
		i := bytes.IndexByte(r.pending, '\n')
		if i < 0 {
			return nil
		}
		line := r.pending[:i]
		r.pending = r.pending[i+1:]
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var record sink.BatchRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return fmt.Errorf("decode batch: %w", err)
		}
		if err := print(record); err != nil {
			return err
		}
	}
}
