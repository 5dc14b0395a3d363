package sink

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/nutsalhan87/zond"
)

// Writer streams every delivered batch to w as one BatchRecord per line.
// Concurrent deliveries are serialized, so lines never interleave.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

// NewWriter returns a Writer emitting JSON lines to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) Consume(id uint64, batch []zond.Event) {
	record := NewBatchRecord(id, batch)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(record); err != nil && w.err == nil {
		w.err = err
	}
}

// Err returns the first write error encountered, if any. Consume keeps
// accepting batches after an error; callers decide whether that matters.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// FileWriter is a Writer backed by a file it owns.
type FileWriter struct {
	*Writer
	f *os.File
}

// OpenFile opens path for appending, creating it and any parent
// directories as needed, and returns a FileWriter streaming batches to it.
func OpenFile(path string) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileWriter{Writer: NewWriter(f), f: f}, nil
}

// Path returns the file the writer streams to.
func (w *FileWriter) Path() string { return w.f.Name() }

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	return w.f.Close()
}

var _ zond.Consumer = (*Writer)(nil)
