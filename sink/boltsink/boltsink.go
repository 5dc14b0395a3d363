package boltsink

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/nutsalhan87/zond"
	"github.com/nutsalhan87/zond/sink"
)

const runsBucket = "runs"

var (
	// ErrRunNotFound reports a run id absent from the archive.
	ErrRunNotFound = errors.New("boltsink: run not found")
	// ErrInstanceNotFound reports an instance id absent from a run.
	ErrInstanceNotFound = errors.New("boltsink: instance not found")
)

// Option configures a Sink.
type Option func(*Sink)

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Sink) { s.run = id }
}

// WithLogger sets the logger that reports dropped batches. Consume has
// no error return, so a batch that cannot be stored is logged and lost.
func WithLogger(log *zap.Logger) Option {
	return func(s *Sink) {
		if log != nil {
			s.log = log
		}
	}
}

// Sink persists every delivered batch into a bolt database: one bucket
// per run, one nested bucket per collector instance, one key per batch
// in delivery order. The stored value is the JSON form of
// sink.BatchRecord.
type Sink struct {
	db  *bolt.DB
	run string
	log *zap.Logger
}

// Open creates or opens the database at path and prepares the bucket for
// this run. Parent directories are created as needed. Unless WithRunID
// is given, the run id is a fresh UUID.
func Open(path string, opts ...Option) (*Sink, error) {
	s := &Sink{run: uuid.NewString(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure archive dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		if err != nil {
			return err
		}
		_, err = root.CreateBucketIfNotExists([]byte(s.run))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare run bucket: %w", err)
	}
	s.db = db
	return s, nil
}

// RunID returns the identifier this Sink stores batches under.
func (s *Sink) RunID() string { return s.run }

func (s *Sink) Consume(id uint64, batch []zond.Event) {
	raw, err := json.Marshal(sink.NewBatchRecord(id, batch))
	if err != nil {
		s.log.Warn("encode batch failed", zap.Uint64("instance", id), zap.Error(err))
		return
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		run := tx.Bucket([]byte(runsBucket)).Bucket([]byte(s.run))
		if run == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, s.run)
		}
		instance, err := run.CreateBucketIfNotExists(instanceKey(id))
		if err != nil {
			return err
		}
		seq, err := instance.NextSequence()
		if err != nil {
			return err
		}
		return instance.Put(seqKey(seq), raw)
	})
	if err != nil {
		s.log.Warn("store batch failed", zap.Uint64("instance", id), zap.Error(err))
	}
}

// Close closes the database. Batches delivered afterwards are dropped
// and logged.
func (s *Sink) Close() error {
	return s.db.Close()
}

// Archive reads a database written by Sink.
type Archive struct {
	db *bolt.DB
}

// OpenArchive opens the database at path read-only.
func OpenArchive(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	return &Archive{db: db}, nil
}

// Runs lists the run identifiers present in the archive, in key order.
func (a *Archive) Runs() ([]string, error) {
	var runs []string
	err := a.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(runsBucket))
		if root == nil {
			return nil
		}
		c := root.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if v == nil {
				runs = append(runs, string(k))
			}
		}
		return nil
	})
	return runs, err
}

// Instances lists the collector ids recorded under run, in ascending
// order.
func (a *Archive) Instances(run string) ([]uint64, error) {
	var ids []uint64
	err := a.db.View(func(tx *bolt.Tx) error {
		bucket, err := runBucket(tx, run)
		if err != nil {
			return err
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if v == nil && len(k) == 8 {
				ids = append(ids, binary.BigEndian.Uint64(k))
			}
		}
		return nil
	})
	return ids, err
}

// Batches returns the batches stored for one instance of a run, in
// delivery order.
func (a *Archive) Batches(run string, instance uint64) ([]sink.BatchRecord, error) {
	var records []sink.BatchRecord
	err := a.db.View(func(tx *bolt.Tx) error {
		bucket, err := runBucket(tx, run)
		if err != nil {
			return err
		}
		instanceBucket := bucket.Bucket(instanceKey(instance))
		if instanceBucket == nil {
			return fmt.Errorf("%w: %d", ErrInstanceNotFound, instance)
		}
		return instanceBucket.ForEach(func(_, v []byte) error {
			var record sink.BatchRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("decode batch: %w", err)
			}
			records = append(records, record)
			return nil
		})
	})
	return records, err
}

// Close closes the archive.
func (a *Archive) Close() error {
	return a.db.Close()
}

func runBucket(tx *bolt.Tx, run string) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(runsBucket))
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, run)
	}
	bucket := root.Bucket([]byte(run))
	if bucket == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, run)
	}
	return bucket, nil
}

func instanceKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

var _ zond.Consumer = (*Sink)(nil)
