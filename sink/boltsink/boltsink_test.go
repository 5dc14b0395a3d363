package boltsink

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nutsalhan87/zond"
	"github.com/nutsalhan87/zond/sink"
)

type stubOp string

func (o stubOp) Kind() string { return string(o) }

func ops(record sink.BatchRecord) []string {
	out := make([]string, len(record.Events))
	for i, ev := range record.Events {
		out[i] = ev.Op
	}
	return out
}

func TestSinkPersistsBatchesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := Open(path, WithRunID("run-1"))
	require.NoError(t, err)

	policy, err := zond.CountThreshold(2)
	require.NoError(t, err)
	collector := zond.NewCollector(s, policy)
	collector.Record(stubOp("a"))
	collector.Record(stubOp("b"))
	collector.Record(stubOp("c"))
	require.NoError(t, collector.Close())
	require.NoError(t, s.Close())

	archive, err := OpenArchive(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, archive.Close())
	}()

	runs, err := archive.Runs()
	require.NoError(t, err)
	require.Equal(t, []string{"run-1"}, runs)

	instances, err := archive.Instances("run-1")
	require.NoError(t, err)
	require.Equal(t, []uint64{collector.ID()}, instances)

	batches, err := archive.Batches("run-1", collector.ID())
	require.NoError(t, err)
	require.Len(t, batches, 2)
	require.Equal(t, []string{"a", "b"}, ops(batches[0]))
	require.Equal(t, []string{"c"}, ops(batches[1]))
	require.Equal(t, collector.ID(), batches[0].Instance)
}

func TestSinkGeneratesRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := Open(path)
	require.NoError(t, err)

	_, err = uuid.Parse(s.RunID())
	require.NoError(t, err)

	// an empty final batch is still persisted
	collector := zond.NewCollector(s, nil)
	require.NoError(t, collector.Close())
	require.NoError(t, s.Close())

	archive, err := OpenArchive(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, archive.Close())
	}()

	batches, err := archive.Batches(s.RunID(), collector.ID())
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Empty(t, batches[0].Events)
}

func TestSeparateRunsShareDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	for _, run := range []string{"alpha", "beta"} {
		s, err := Open(path, WithRunID(run))
		require.NoError(t, err)
		s.Consume(1, []zond.Event{{Op: stubOp("push")}})
		require.NoError(t, s.Close())
	}

	archive, err := OpenArchive(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, archive.Close())
	}()

	runs, err := archive.Runs()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, runs)
}

func TestArchiveReportsMissingRunsAndInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := Open(path, WithRunID("known"))
	require.NoError(t, err)
	s.Consume(4, []zond.Event{{Op: stubOp("push")}})
	require.NoError(t, s.Close())

	archive, err := OpenArchive(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, archive.Close())
	}()

	_, err = archive.Instances("unknown")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = archive.Batches("known", 99)
	require.ErrorIs(t, err, ErrInstanceNotFound)
}
