package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nutsalhan87/zond"
)

type labelOp struct {
	Label string `json:"label"`
}

func (o labelOp) Kind() string { return "label" }

type bareOp struct{}

func (bareOp) Kind() string { return "bare" }

func TestRecorderTracksInstancesSeparately(t *testing.T) {
	rec := NewRecorder()
	policy, err := zond.CountThreshold(1)
	require.NoError(t, err)

	first := zond.NewCollector(rec, policy)
	second := zond.NewCollector(rec, policy)

	first.Record(labelOp{Label: "a"})
	second.Record(labelOp{Label: "x"})
	first.Record(labelOp{Label: "b"})

	require.Len(t, rec.Batches(), 3)
	require.Len(t, rec.Instance(first.ID()), 2)
	require.Len(t, rec.Instance(second.ID()), 1)

	var labels []string
	for _, ev := range rec.Events(first.ID()) {
		labels = append(labels, ev.Op.(labelOp).Label)
	}
	if diff := cmp.Diff([]string{"a", "b"}, labels); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestNewBatchRecordPayloads(t *testing.T) {
	batch := []zond.Event{
		{Op: bareOp{}},
		{Op: labelOp{Label: "x"}},
	}
	record := NewBatchRecord(7, batch)
	require.Equal(t, uint64(7), record.Instance)
	require.False(t, record.FlushedAt.IsZero())
	require.Len(t, record.Events, 2)

	require.Equal(t, "bare", record.Events[0].Op)
	require.Nil(t, record.Events[0].Data)

	require.Equal(t, "label", record.Events[1].Op)
	require.JSONEq(t, `{"label":"x"}`, string(record.Events[1].Data))
}

func TestNewBatchRecordEmptyBatchMarshalsToEmptyArray(t *testing.T) {
	record := NewBatchRecord(3, nil)
	raw, err := json.Marshal(record)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"events":[]`)
}

func TestWriterEmitsOneLinePerBatch(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	policy, err := zond.CountThreshold(2)
	require.NoError(t, err)
	collector := zond.NewCollector(writer, policy)

	collector.Record(labelOp{Label: "a"})
	collector.Record(labelOp{Label: "b"})
	collector.Record(labelOp{Label: "c"})
	collector.Record(labelOp{Label: "d"})
	require.NoError(t, collector.Close())
	require.NoError(t, writer.Err())

	var records []BatchRecord
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var record BatchRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, records, 3)
	for _, record := range records {
		require.Equal(t, collector.ID(), record.Instance)
	}
	require.Len(t, records[0].Events, 2)
	require.Len(t, records[1].Events, 2)
	require.Empty(t, records[2].Events)
	require.Equal(t, "label", records[0].Events[0].Op)
}

func TestOpenFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs", "batches.jsonl")
	writer, err := OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, path, writer.Path())

	writer.Consume(1, []zond.Event{{Op: bareOp{}}})
	require.NoError(t, writer.Err())
	require.NoError(t, writer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var record BatchRecord
	require.NoError(t, json.Unmarshal(raw, &record))
	require.Equal(t, uint64(1), record.Instance)
	require.Len(t, record.Events, 1)
}

func TestOpenFileAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.jsonl")

	for i := 0; i < 2; i++ {
		writer, err := OpenFile(path)
		require.NoError(t, err)
		writer.Consume(uint64(i), []zond.Event{{Op: bareOp{}}})
		require.NoError(t, writer.Err())
		require.NoError(t, writer.Close())
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, bytes.Count(raw, []byte("\n")))
}

func TestMultiFansOutInOrder(t *testing.T) {
	var order []string
	first := zond.ConsumerFunc(func(uint64, []zond.Event) {
		order = append(order, "first")
	})
	second := zond.ConsumerFunc(func(uint64, []zond.Event) {
		order = append(order, "second")
	})

	Multi(nil, first, nil, second).Consume(1, nil)
	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Fatalf("fanout order mismatch (-want +got):\n%s", diff)
	}

	rec := NewRecorder()
	Multi(rec).Consume(2, []zond.Event{{Op: bareOp{}}})
	require.Len(t, rec.Batches(), 1)
}

func TestLoggerToleratesNilLogger(t *testing.T) {
	logger := NewLogger(nil)
	logger.Consume(1, []zond.Event{{Op: labelOp{Label: "a"}}})
	logger.Consume(1, nil)
}
