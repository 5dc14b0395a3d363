package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nutsalhan87/zond/sink"
	"github.com/nutsalhan87/zond/sink/boltsink"
)

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printBatch(record sink.BatchRecord, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(record)
	}
	fmt.Printf("instance=%d events=%d flushed_at=%s\n",
		record.Instance, len(record.Events), record.FlushedAt.Format(time.RFC3339Nano))
	for _, ev := range record.Events {
		if len(ev.Data) > 0 {
			fmt.Printf("  %s %s %s\n", ev.Time.Format(time.RFC3339Nano), ev.Op, string(ev.Data))
			continue
		}
		fmt.Printf("  %s %s\n", ev.Time.Format(time.RFC3339Nano), ev.Op)
	}
	return nil
}

func printRuns(archive *boltsink.Archive, opts *cliOptions) error {
	runs, err := archive.Runs()
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return writeJSON(runs)
	}
	for _, run := range runs {
		fmt.Println(run)
	}
	return nil
}

func printRunInstances(archive *boltsink.Archive, run string, opts *cliOptions) error {
	instances, err := archive.Instances(run)
	if err != nil {
		return err
	}

	type instanceSummary struct {
		Instance uint64 `json:"instance"`
		Batches  int    `json:"batches"`
	}
	summaries := make([]instanceSummary, 0, len(instances))
	for _, id := range instances {
		batches, err := archive.Batches(run, id)
		if err != nil {
			return err
		}
		summaries = append(summaries, instanceSummary{Instance: id, Batches: len(batches)})
	}

	if opts.jsonOutput {
		return writeJSON(summaries)
	}
	for _, s := range summaries {
		fmt.Printf("instance=%d batches=%d\n", s.Instance, s.Batches)
	}
	return nil
}

func printInstanceBatches(archive *boltsink.Archive, run string, instance uint64, opts *cliOptions) error {
	batches, err := archive.Batches(run, instance)
	if err != nil {
		return err
	}
	for _, record := range batches {
		if err := printBatch(record, opts.jsonOutput); err != nil {
			return err
		}
	}
	return nil
}
