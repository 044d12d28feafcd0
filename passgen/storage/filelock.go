package storage

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to an output path to form its lock file
const LockSuffix = ".lock"

// FileLock guards an output file against concurrent passgen runs
type FileLock interface {
	// TryLockContext attempts to acquire an exclusive lock, retrying until ctx is done
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)

	// Unlock releases the lock
	Unlock() error
}

// FileLockFactory creates FileLock instances
type FileLockFactory interface {
	// New creates a new FileLock for the given path
	New(path string) FileLock
}

// FlockWrapper adapts github.com/gofrs/flock to FileLock
type FlockWrapper struct {
	flock *flock.Flock
}

// TryLockContext implements FileLock.TryLockContext
func (f *FlockWrapper) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	return f.flock.TryLockContext(ctx, retryInterval)
}

// Unlock implements FileLock.Unlock
func (f *FlockWrapper) Unlock() error {
	return f.flock.Unlock()
}

// FlockFactory is the default factory, backed by flock
type FlockFactory struct{}

// New implements FileLockFactory.New
func (f *FlockFactory) New(path string) FileLock {
	return &FlockWrapper{
		flock: flock.New(path),
	}
}

// LockPath returns the lock file path used for an output file
func LockPath(outputPath string) string {
	return outputPath + LockSuffix
}
