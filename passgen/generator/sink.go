package generator

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/passgen/passgen/storage"
)

// Sink is a worker's private output. The worker writes and closes it; the
// merger then opens it for reading and removes it.
type Sink interface {
	io.Writer

	// Close finishes writing
	Close() error

	// Open returns a reader over everything written
	Open() (io.ReadCloser, error)

	// Remove releases the sink's storage
	Remove() error

	// Name identifies the sink in logs and warnings
	Name() string
}

// SinkFactory creates the sink for a worker
type SinkFactory interface {
	NewSink(worker int) (Sink, error)
}

// SinkKind selects a SinkFactory implementation
type SinkKind string

const (
	// SinkFile writes each worker's records to a temporary file
	SinkFile SinkKind = "file"

	// SinkMemory keeps each worker's records in memory
	SinkMemory SinkKind = "memory"
)

// ParseSinkKind validates a sink kind name
func ParseSinkKind(s string) (SinkKind, error) {
	switch SinkKind(s) {
	case SinkFile, SinkMemory:
		return SinkKind(s), nil
	case "":
		return SinkFile, nil
	default:
		return "", fmt.Errorf("unknown sink kind %q (want %q or %q)", s, SinkFile, SinkMemory)
	}
}

// FileSink stores records in a file
type FileSink struct {
	fs   storage.FileSystem
	path string
	w    io.WriteCloser
}

func (s *FileSink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close implements Sink.Close
func (s *FileSink) Close() error { return s.w.Close() }

// Open implements Sink.Open
func (s *FileSink) Open() (io.ReadCloser, error) { return s.fs.Open(s.path) }

// Remove implements Sink.Remove
func (s *FileSink) Remove() error { return s.fs.Remove(s.path) }

// Name implements Sink.Name
func (s *FileSink) Name() string { return s.path }

// FileSinkFactory creates one file per worker inside dir
type FileSinkFactory struct {
	FS    storage.FileSystem
	Dir   string
	RunID string
}

// NewSink implements SinkFactory.NewSink
func (f *FileSinkFactory) NewSink(worker int) (Sink, error) {
	path := filepath.Join(f.Dir, fmt.Sprintf("%s-worker-%02d.txt", f.RunID, worker))
	w, err := f.FS.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create sink for worker %d: %w", worker, err)
	}
	return &FileSink{fs: f.FS, path: path, w: w}, nil
}

// MemorySink stores records in a buffer
type MemorySink struct {
	mu      sync.Mutex
	name    string
	buf     bytes.Buffer
	removed bool
}

func (s *MemorySink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// Close implements Sink.Close
func (s *MemorySink) Close() error { return nil }

// Open implements Sink.Open
func (s *MemorySink) Open() (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return nil, fmt.Errorf("sink %s was removed", s.name)
	}
	return io.NopCloser(bytes.NewReader(s.buf.Bytes())), nil
}

// Remove implements Sink.Remove
func (s *MemorySink) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = bytes.Buffer{}
	s.removed = true
	return nil
}

// Name implements Sink.Name
func (s *MemorySink) Name() string { return s.name }

// MemorySinkFactory creates in-memory sinks
type MemorySinkFactory struct{}

// NewSink implements SinkFactory.NewSink
func (MemorySinkFactory) NewSink(worker int) (Sink, error) {
	return &MemorySink{name: fmt.Sprintf("memory-worker-%02d", worker)}, nil
}
