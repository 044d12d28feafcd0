// Package wordlist resolves wordlist names used by [wordlist:NAME] rule groups
// to the ordered, non-blank lines of a file.
//
// Names are searched in this order:
//
//   - the name itself, when it is an absolute path (nothing else is tried)
//   - the configured wordlist directory
//   - the current working directory
//   - the directory of the running executable
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/passgen/passgen/storage"
)

var (
	// ErrNotFound is returned when no search location holds the wordlist
	ErrNotFound = errors.New("wordlist not found")

	// ErrEmpty is returned when the wordlist has no non-blank lines
	ErrEmpty = errors.New("no words found in wordlist")
)

// maxLineBytes bounds a single wordlist line
const maxLineBytes = 1024 * 1024

// LookupError carries the locations searched for a wordlist
type LookupError struct {
	Name     string
	Searched []string
	Err      error
}

func (e *LookupError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v (searched: %s)", e.Name, e.Err, strings.Join(e.Searched, ", "))
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Loader reads wordlists through a storage.FileSystem
type Loader struct {
	fs         storage.FileSystem
	dir        string
	installDir string
	logger     *slog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs storage.FileSystem) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithInstallDir overrides the executable directory used as the last search location
func WithInstallDir(dir string) Option {
	return func(l *Loader) {
		l.installDir = dir
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader that searches dir (may be empty) before the defaults
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{
		fs:         &storage.OSFileSystem{},
		dir:        dir,
		installDir: executableDir(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns the paths tried for name, in search order
func (l *Loader) Candidates(name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}

	var paths []string
	if l.dir != "" {
		paths = append(paths, filepath.Join(l.dir, name))
	}
	paths = append(paths, name)
	if l.installDir != "" {
		paths = append(paths, filepath.Join(l.installDir, name))
	}
	return paths
}

// Resolve returns the first existing candidate path for name
func (l *Loader) Resolve(name string) (string, error) {
	candidates := l.Candidates(name)
	for _, path := range candidates {
		info, err := l.fs.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", &LookupError{Name: name, Searched: candidates, Err: err}
		}
		if info.IsDir() {
			continue
		}
		return path, nil
	}
	return "", &LookupError{Name: name, Searched: candidates, Err: ErrNotFound}
}

// Load returns the trimmed, non-blank lines of the named wordlist in file order
func (l *Loader) Load(name string) ([]string, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("reading wordlist", "name", name, "path", path)

	words, err := l.read(path)
	if err != nil {
		return nil, &LookupError{Name: name, Searched: []string{path}, Err: err}
	}
	if len(words) == 0 {
		return nil, &LookupError{Name: name, Searched: []string{path}, Err: ErrEmpty}
	}

	l.logger.Debug("loaded wordlist", "name", name, "words", len(words))
	return words, nil
}

func (l *Loader) read(path string) ([]string, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var words []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		// Undecodable bytes are dropped rather than failing the whole list
		word := strings.TrimSpace(strings.ToValidUTF8(scanner.Text(), ""))
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return words, nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
