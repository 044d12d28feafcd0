package passgen

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/arthur-debert/passgen/passgen/storage"
)

// Option configures an Engine
type Option func(*Engine)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs storage.FileSystem) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory storage.FileLockFactory) Option {
	return func(e *Engine) {
		e.locks = factory
	}
}

// WithLogger sets the logger passed to every stage
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEcho sets where records are shown when ShowPasswords is on
func WithEcho(w io.Writer) Option {
	return func(e *Engine) {
		e.echo = w
	}
}

// WithRand sets the random source used for size sampling
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rand = r
	}
}

// WithConfirmer sets the confirmation step run between Prepare and Execute
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) {
		e.confirmer = c
	}
}

// WithTimeFunc sets a custom time function for testing
func WithTimeFunc(fn func() time.Time) Option {
	return func(e *Engine) {
		e.timeFunc = fn
	}
}

// WithInstallDir overrides the last wordlist search location
func WithInstallDir(dir string) Option {
	return func(e *Engine) {
		e.installDir = dir
	}
}

// WithTempDir sets the parent directory for worker sink files
func WithTempDir(dir string) Option {
	return func(e *Engine) {
		e.tempDir = dir
	}
}
