// Package merge concatenates worker sinks into the final output.
//
// Sinks are read in worker order and records are copied in the order they
// were written, so the output is the full combination space in ascending
// index order. Every sink is removed once consumed, whether or not it could be
// read. A sink that cannot be read is reported as a warning and skipped: the
// output is then partial, and this is the only case where partial output is
// produced.
package merge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/arthur-debert/passgen/passgen/generator"
	"github.com/arthur-debert/passgen/passgen/storage"
)

// ErrOutputLocked is returned when another run holds the output file lock
var ErrOutputLocked = errors.New("output file is locked by another process")

const (
	lockRetryInterval = 50 * time.Millisecond
	lockTimeout       = 5 * time.Second
	readBufferSize    = 64 * 1024
)

// SinkReadError reports a sink that could not be fully read
type SinkReadError struct {
	Sink string
	Err  error
}

func (e *SinkReadError) Error() string {
	return fmt.Sprintf("error reading worker output %s: %v", e.Sink, e.Err)
}

func (e *SinkReadError) Unwrap() error {
	return e.Err
}

// Request describes one merge
type Request struct {
	// Sinks in worker order
	Sinks []generator.Sink

	// OutputPath is the destination file; empty discards records after counting
	OutputPath string

	// StartedAt marks the beginning of generation, for the elapsed time
	StartedAt time.Time
}

// Result summarises a merge
type Result struct {
	Count       int64
	Elapsed     time.Duration
	OutputPath  string
	OutputBytes int64
	Warnings    []error
}

// Merger writes worker sinks to the destination
type Merger struct {
	fs       storage.FileSystem
	locks    storage.FileLockFactory
	echo     io.Writer
	logger   *slog.Logger
	timeFunc func() time.Time
}

// Option configures a Merger
type Option func(*Merger)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs storage.FileSystem) Option {
	return func(m *Merger) {
		m.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory storage.FileLockFactory) Option {
	return func(m *Merger) {
		m.locks = factory
	}
}

// WithEcho copies every record to w as it is merged
func WithEcho(w io.Writer) Option {
	return func(m *Merger) {
		m.echo = w
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// WithTimeFunc sets a custom time function for testing
func WithTimeFunc(fn func() time.Time) Option {
	return func(m *Merger) {
		m.timeFunc = fn
	}
}

// New creates a Merger backed by the OS file system and flock
func New(opts ...Option) *Merger {
	m := &Merger{
		fs:       &storage.OSFileSystem{},
		locks:    &storage.FlockFactory{},
		logger:   slog.Default(),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge copies every sink to the destination in order. Records are written
// one per line, each followed by '\n', and empty records are skipped. When an
// output path is set the records go to a temporary sibling that is renamed
// into place once complete, under an exclusive lock on the output path.
func (m *Merger) Merge(ctx context.Context, req Request) (*Result, error) {
	started := req.StartedAt
	if started.IsZero() {
		started = m.timeFunc()
	}
	result := &Result{OutputPath: req.OutputPath}

	if req.OutputPath == "" {
		err := m.copySinks(ctx, req.Sinks, io.Discard, result)
		result.Elapsed = m.timeFunc().Sub(started)
		return result, err
	}

	unlock, err := m.lock(ctx, req.OutputPath)
	if err != nil {
		m.removeSinks(req.Sinks)
		return nil, err
	}
	defer unlock()

	tmpPath := req.OutputPath + ".tmp"
	f, err := m.fs.Create(tmpPath)
	if err != nil {
		m.removeSinks(req.Sinks)
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	copyErr := m.copySinks(ctx, req.Sinks, bw, result)
	if copyErr == nil {
		copyErr = bw.Flush()
	}
	if cerr := f.Close(); copyErr == nil && cerr != nil {
		copyErr = cerr
	}
	if copyErr != nil {
		_ = m.fs.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write output: %w", copyErr)
	}

	if err := m.fs.Rename(tmpPath, req.OutputPath); err != nil {
		_ = m.fs.Remove(tmpPath)
		return nil, fmt.Errorf("failed to move output into place: %w", err)
	}

	if info, err := m.fs.Stat(req.OutputPath); err == nil {
		result.OutputBytes = info.Size()
	}
	result.Elapsed = m.timeFunc().Sub(started)

	m.logger.Info("merged output",
		"path", req.OutputPath,
		"records", result.Count,
		"bytes", result.OutputBytes,
		"warnings", len(result.Warnings))

	return result, nil
}

// writeError marks a failure writing to the destination, which aborts the merge
type writeError struct {
	err error
}

func (e *writeError) Error() string { return e.err.Error() }

func (e *writeError) Unwrap() error { return e.err }

// copySinks drains every sink into dst. Sinks are always removed, including
// the ones left unread after a fatal write error.
func (m *Merger) copySinks(ctx context.Context, sinks []generator.Sink, dst io.Writer, result *Result) error {
	var fatal error
	for _, sink := range sinks {
		if fatal == nil {
			fatal = ctx.Err()
		}
		if fatal == nil {
			err := m.copySink(sink, dst, result)
			var we *writeError
			switch {
			case errors.As(err, &we):
				fatal = we.err
			case err != nil:
				m.logger.Warn("skipping unreadable worker output", "sink", sink.Name(), "error", err)
				result.Warnings = append(result.Warnings, &SinkReadError{Sink: sink.Name(), Err: err})
			}
		}

		if err := sink.Remove(); err != nil {
			m.logger.Warn("failed to remove worker output", "sink", sink.Name(), "error", err)
		}
	}
	return fatal
}

func (m *Merger) copySink(sink generator.Sink, dst io.Writer, result *Result) error {
	r, err := sink.Open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	// Records have no length limit: a combination of long wordlist lines is
	// still one record.
	br := bufio.NewReaderSize(r, readBufferSize)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if record := bytes.TrimSuffix(line, []byte{'\n'}); len(record) > 0 {
			if werr := m.writeRecord(record, dst); werr != nil {
				return werr
			}
			result.Count++
		}
		if err != nil {
			return nil
		}
	}
}

func (m *Merger) writeRecord(record []byte, dst io.Writer) error {
	if m.echo != nil {
		if _, err := fmt.Fprintf(m.echo, "%s\n", record); err != nil {
			return &writeError{err: err}
		}
	}
	if _, err := dst.Write(record); err != nil {
		return &writeError{err: err}
	}
	if _, err := dst.Write([]byte{'\n'}); err != nil {
		return &writeError{err: err}
	}
	return nil
}

func (m *Merger) removeSinks(sinks []generator.Sink) {
	for _, sink := range sinks {
		if err := sink.Remove(); err != nil {
			m.logger.Warn("failed to remove worker output", "sink", sink.Name(), "error", err)
		}
	}
}

// lock takes the flock on the output's lock file. The lock file is never
// removed, so every run contends on the same inode.
func (m *Merger) lock(ctx context.Context, outputPath string) (func(), error) {
	lockPath := storage.LockPath(outputPath)
	lock := m.locks.New(lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("failed to lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, outputPath)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release output lock", "path", lockPath, "error", err)
		}
	}, nil
}
