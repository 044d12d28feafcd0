package storage

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem provides an in-memory implementation of FileSystem for testing
type MockFileSystem struct {
	mu      sync.RWMutex
	files   map[string]*mockFile
	dirs    map[string]bool
	tempSeq int

	// Optional errors for simulating failures
	StatError   error
	OpenError   error
	CreateError error
	RenameError error
	RemoveError error

	// OpenErrors fails Open for specific paths only
	OpenErrors map[string]error
}

type mockFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return fi.size }
func (fi mockFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi mockFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi mockFileInfo) Sys() interface{}   { return nil }

// NewMockFileSystem creates a new mock file system
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:      make(map[string]*mockFile),
		dirs:       make(map[string]bool),
		OpenErrors: make(map[string]error),
	}
}

// AddFile stores content under name, replacing any existing file
func (m *MockFileSystem) AddFile(name string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(name)] = &mockFile{
		content: []byte(content),
		mode:    0644,
		modTime: time.Now(),
	}
}

// AddDir marks name as an existing directory
func (m *MockFileSystem) AddDir(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[filepath.Clean(name)] = true
}

// Stat implements FileSystem.Stat
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatError != nil {
		return nil, m.StatError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if m.dirs[name] {
		return mockFileInfo{name: filepath.Base(name), mode: fs.ModeDir | 0755}, nil
	}

	file, exists := m.files[name]
	if !exists {
		return nil, os.ErrNotExist
	}

	return mockFileInfo{
		name:    filepath.Base(name),
		size:    int64(len(file.content)),
		mode:    file.mode,
		modTime: file.modTime,
	}, nil
}

// Open implements FileSystem.Open
func (m *MockFileSystem) Open(name string) (io.ReadCloser, error) {
	if m.OpenError != nil {
		return nil, m.OpenError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if err, ok := m.OpenErrors[name]; ok {
		return nil, err
	}

	file, exists := m.files[name]
	if !exists {
		return nil, os.ErrNotExist
	}

	// Read from a copy so later writes do not race with the reader
	content := make([]byte, len(file.content))
	copy(content, file.content)
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Create implements FileSystem.Create
func (m *MockFileSystem) Create(name string) (io.WriteCloser, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name = filepath.Clean(name)
	m.files[name] = &mockFile{mode: 0644, modTime: time.Now()}
	return &mockWriter{fs: m, name: name}, nil
}

// Rename implements FileSystem.Rename
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameError != nil {
		return m.RenameError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath, newpath = filepath.Clean(oldpath), filepath.Clean(newpath)
	file, exists := m.files[oldpath]
	if !exists {
		return os.ErrNotExist
	}

	// Move file to new location (overwrites if exists, like os.Rename)
	m.files[newpath] = file
	delete(m.files, oldpath)

	return nil
}

// Remove implements FileSystem.Remove
func (m *MockFileSystem) Remove(name string) error {
	if m.RemoveError != nil {
		return m.RemoveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name = filepath.Clean(name)
	if _, exists := m.files[name]; !exists {
		return os.ErrNotExist
	}

	delete(m.files, name)
	return nil
}

// MkdirTemp implements FileSystem.MkdirTemp
func (m *MockFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir == "" {
		dir = os.TempDir()
	}
	m.tempSeq++
	suffix := fmt.Sprintf("%d", m.tempSeq)
	var name string
	if strings.Contains(pattern, "*") {
		name = strings.Replace(pattern, "*", suffix, 1)
	} else {
		name = pattern + suffix
	}

	path := filepath.Join(dir, name)
	m.dirs[path] = true
	return path, nil
}

// RemoveAll implements FileSystem.RemoveAll
func (m *MockFileSystem) RemoveAll(path string) error {
	if m.RemoveError != nil {
		return m.RemoveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)
	for name := range m.files {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(m.files, name)
		}
	}
	for name := range m.dirs {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(m.dirs, name)
		}
	}
	return nil
}

// FileExists is a helper method for testing
func (m *MockFileSystem) FileExists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[filepath.Clean(name)]
	return exists
}

// GetFileContent is a helper method for testing
func (m *MockFileSystem) GetFileContent(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[filepath.Clean(name)]
	if !exists {
		return nil, false
	}

	content := make([]byte, len(file.content))
	copy(content, file.content)
	return content, true
}

// Paths returns every stored file path, sorted
func (m *MockFileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for name := range m.files {
		paths = append(paths, name)
	}
	sort.Strings(paths)
	return paths
}

// mockWriter buffers writes and publishes them to the mock file on every Write
type mockWriter struct {
	fs     *MockFileSystem
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *mockWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	n, _ := w.buf.Write(p)

	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	if file, ok := w.fs.files[w.name]; ok {
		file.content = append(file.content[:0], w.buf.Bytes()...)
		file.modTime = time.Now()
	}
	return n, nil
}

func (w *mockWriter) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true
	return nil
}
