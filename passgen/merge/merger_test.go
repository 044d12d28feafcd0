package merge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/passgen/passgen/generator"
	"github.com/arthur-debert/passgen/passgen/storage"
	"github.com/arthur-debert/passgen/types"
)

type stubSink struct {
	name    string
	data    string
	openErr error
	removed bool
}

func (s *stubSink) Write(p []byte) (int, error) { s.data += string(p); return len(p), nil }
func (s *stubSink) Close() error                { return nil }
func (s *stubSink) Name() string                { return s.name }
func (s *stubSink) Remove() error               { s.removed = true; return nil }
func (s *stubSink) Open() (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(strings.NewReader(s.data)), nil
}

func sinks(stubs ...*stubSink) []generator.Sink {
	out := make([]generator.Sink, len(stubs))
	for i, s := range stubs {
		out[i] = s
	}
	return out
}

func newMockMerger(opts ...Option) (*Merger, *storage.MockFileSystem, *storage.MockFileLockFactory) {
	mfs := storage.NewMockFileSystem()
	locks := storage.NewMockFileLockFactory()
	base := []Option{WithFileSystem(mfs), WithFileLockFactory(locks)}
	return New(append(base, opts...)...), mfs, locks
}

func TestMergeWritesInWorkerOrder(t *testing.T) {
	m, mfs, locks := newMockMerger()
	s0 := &stubSink{name: "w0", data: "a0\na1\n"}
	s1 := &stubSink{name: "w1", data: "b0\nb1\n"}

	res, err := m.Merge(context.Background(), Request{Sinks: sinks(s0, s1), OutputPath: "/out/list.txt"})
	require.NoError(t, err)

	content, ok := mfs.GetFileContent("/out/list.txt")
	require.True(t, ok)
	assert.Equal(t, "a0\na1\nb0\nb1\n", string(content))
	assert.Equal(t, int64(4), res.Count)
	assert.Equal(t, int64(12), res.OutputBytes)
	assert.Empty(t, res.Warnings)
	assert.True(t, s0.removed)
	assert.True(t, s1.removed)
	assert.False(t, mfs.FileExists("/out/list.txt.tmp"))
	assert.False(t, locks.GetLock("/out/list.txt.lock").IsLocked())
}

func TestMergeSkipsBlankRecords(t *testing.T) {
	m, mfs, _ := newMockMerger()
	s0 := &stubSink{name: "w0", data: "\na\n\n"}
	s1 := &stubSink{name: "w1", data: " \nb\n"}

	res, err := m.Merge(context.Background(), Request{Sinks: sinks(s0, s1), OutputPath: "/out.txt"})
	require.NoError(t, err)

	content, _ := mfs.GetFileContent("/out.txt")
	assert.Equal(t, "a\n \nb\n", string(content))
	assert.Equal(t, int64(3), res.Count)
}

func TestMergeEcho(t *testing.T) {
	var echo bytes.Buffer
	m, _, _ := newMockMerger(WithEcho(&echo))

	res, err := m.Merge(context.Background(), Request{Sinks: sinks(&stubSink{name: "w0", data: "x\ny\n"})})
	require.NoError(t, err)

	assert.Equal(t, "x\ny\n", echo.String())
	assert.Equal(t, int64(2), res.Count)
	assert.Zero(t, res.OutputBytes)
}

func TestMergeUnreadableSinkIsWarning(t *testing.T) {
	m, mfs, _ := newMockMerger()
	broken := &stubSink{name: "w1", openErr: errors.New("permission denied")}
	s0 := &stubSink{name: "w0", data: "a\n"}
	s2 := &stubSink{name: "w2", data: "c\n"}

	res, err := m.Merge(context.Background(), Request{Sinks: sinks(s0, broken, s2), OutputPath: "/out.txt"})
	require.NoError(t, err)

	content, _ := mfs.GetFileContent("/out.txt")
	assert.Equal(t, "a\nc\n", string(content))
	require.Len(t, res.Warnings, 1)

	var readErr *SinkReadError
	require.ErrorAs(t, res.Warnings[0], &readErr)
	assert.Equal(t, "w1", readErr.Sink)
	assert.True(t, broken.removed, "unreadable sink must still be cleaned up")
}

func TestMergeLockedOutput(t *testing.T) {
	m, mfs, locks := newMockMerger()
	held := locks.New("/out.txt.lock")
	ok, err := held.TryLockContext(context.Background(), time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	s0 := &stubSink{name: "w0", data: "a\n"}
	_, err = m.Merge(context.Background(), Request{Sinks: sinks(s0), OutputPath: "/out.txt"})

	require.ErrorIs(t, err, ErrOutputLocked)
	assert.True(t, s0.removed)
	assert.False(t, mfs.FileExists("/out.txt"))
}

func TestMergeCreateFailure(t *testing.T) {
	m, mfs, _ := newMockMerger()
	mfs.CreateError = errors.New("read-only file system")
	s0 := &stubSink{name: "w0", data: "a\n"}

	_, err := m.Merge(context.Background(), Request{Sinks: sinks(s0), OutputPath: "/out.txt"})

	require.Error(t, err)
	assert.True(t, s0.removed)
}

func TestMergeRenameFailureLeavesNoOutput(t *testing.T) {
	m, mfs, _ := newMockMerger()
	mfs.RenameError = errors.New("cross-device link")

	_, err := m.Merge(context.Background(), Request{Sinks: sinks(&stubSink{name: "w0", data: "a\n"}), OutputPath: "/out.txt"})

	require.Error(t, err)
	assert.Empty(t, mfs.Paths())
}

func TestMergeElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m, _, _ := newMockMerger(WithTimeFunc(func() time.Time { return start.Add(1500 * time.Millisecond) }))

	res, err := m.Merge(context.Background(), Request{Sinks: sinks(&stubSink{name: "w0", data: "a\n"}), StartedAt: start})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, res.Elapsed)
}

func TestMergeGeneratedFileSinksOnDisk(t *testing.T) {
	dir := t.TempDir()
	fs := &storage.OSFileSystem{}
	rs := types.MustRuleSet([]string{"a", "b", "c"}, []string{"1", "2"}, []string{"!", "?"})

	gen := generator.New(generator.WithSinkFactory(&generator.FileSinkFactory{FS: fs, Dir: dir, RunID: "run"}))
	out, err := gen.Run(context.Background(), rs, 5)
	require.NoError(t, err)

	outputPath := filepath.Join(dir, "out.txt")
	res, err := New().Merge(context.Background(), Request{Sinks: out.Sinks, OutputPath: outputPath})
	require.NoError(t, err)

	var want strings.Builder
	for i := uint64(0); i < 12; i++ {
		want.WriteString(rs.Render(i) + "\n")
	}
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, want.String(), string(data))
	assert.Equal(t, int64(12), res.Count)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.ElementsMatch(t, []string{"out.txt", "out.txt.lock"}, names, "worker files and the temp file must be gone, the lock file stays")
}

func TestMergeReleasedLockCanBeRetaken(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.txt")

	for range 2 {
		_, err := New().Merge(context.Background(), Request{
			Sinks:      sinks(&stubSink{name: "w0", data: "a\n"}),
			OutputPath: outputPath,
		})
		require.NoError(t, err)
	}

	_, err := os.Stat(storage.LockPath(outputPath))
	assert.NoError(t, err)
}

func TestMergeRecordsLongerThanOneMiB(t *testing.T) {
	long := strings.Repeat("x", 700*1024)
	rs := types.MustRuleSet([]string{long}, []string{long, "y"})

	out, err := generator.New().Run(context.Background(), rs, 1)
	require.NoError(t, err)

	var echo bytes.Buffer
	res, err := New(WithEcho(&echo)).Merge(context.Background(), Request{Sinks: out.Sinks})
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, int64(2), res.Count)
	assert.Equal(t, long+long+"\n"+long+"y\n", echo.String())
}

func TestMergeLastRecordWithoutNewline(t *testing.T) {
	m, mfs, _ := newMockMerger()

	res, err := m.Merge(context.Background(), Request{Sinks: sinks(&stubSink{name: "w0", data: "a\nb"}), OutputPath: "/out.txt"})
	require.NoError(t, err)

	content, _ := mfs.GetFileContent("/out.txt")
	assert.Equal(t, "a\nb\n", string(content))
	assert.Equal(t, int64(2), res.Count)
}
