package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMockFileSystemRoundTrip(t *testing.T) {
	mfs := NewMockFileSystem()

	w, err := mfs.Create("/out/a.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := io.WriteString(w, "hello\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := mfs.Stat("/out/a.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 6 {
		t.Errorf("size: got %d, want 6", info.Size())
	}

	if err := mfs.Rename("/out/a.txt", "/out/b.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	r, err := mfs.Open("/out/b.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(r)
	if string(data) != "hello\n" {
		t.Errorf("content: got %q", data)
	}
	if mfs.FileExists("/out/a.txt") {
		t.Error("old path still exists after rename")
	}
}

func TestMockFileSystemTempDirs(t *testing.T) {
	mfs := NewMockFileSystem()

	dir, err := mfs.MkdirTemp("/tmp", "passgen-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	if _, err := mfs.Stat(dir); err != nil {
		t.Fatalf("Stat temp dir: %v", err)
	}

	mfs.AddFile(filepath.Join(dir, "worker-00.txt"), "a\n")
	mfs.AddFile("/tmp/keep.txt", "b\n")

	if err := mfs.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if mfs.FileExists(filepath.Join(dir, "worker-00.txt")) {
		t.Error("file inside removed dir still exists")
	}
	if !mfs.FileExists("/tmp/keep.txt") {
		t.Error("sibling file was removed")
	}
}

func TestMockFileSystemOpenErrors(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/a", "x")
	boom := errors.New("boom")
	mfs.OpenErrors["/a"] = boom

	if _, err := mfs.Open("/a"); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if _, err := mfs.Open("/missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestFlockFactory(t *testing.T) {
	path := LockPath(filepath.Join(t.TempDir(), "out.txt"))

	factory := &FlockFactory{}
	first := factory.New(path)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	locked, err := first.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil || !locked {
		t.Fatalf("expected lock, got locked=%v err=%v", locked, err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
}

func TestMockFileLock(t *testing.T) {
	factory := NewMockFileLockFactory()
	lock := factory.New("/out.txt.lock")

	ok, err := lock.TryLockContext(context.Background(), time.Millisecond)
	if err != nil || !ok {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	ok, _ = factory.New("/out.txt.lock").TryLockContext(context.Background(), time.Millisecond)
	if ok {
		t.Error("second lock on the same path should fail")
	}
	if err := lock.Unlock(); err != nil {
		t.Fatal(err)
	}
	if factory.GetLock("/out.txt.lock").IsLocked() {
		t.Error("lock still held after Unlock")
	}
}
