package capgen

import (
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultExtensions are the file extensions recognized as script files.
var DefaultExtensions = []string{".txt", ".state", ".script"}

// Source lists, reads and writes script files.
type Source interface {
	// ListFiles returns all script file paths known to this source,
	// in a stable order.
	ListFiles() ([]string, error)

	// ReadFile returns the content of a listed file.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of a listed file.
	WriteFile(path string, data []byte) error
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		extensions: DefaultExtensions,
	}
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- DirTree Source (recursive directory) ---

type treeSource struct {
	root   string
	config sourceConfig
}

// DirTree creates a Source over every matching file below root.
// The tree is walked on each ListFiles call, in lexical order.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}

	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &treeSource{root: root, config: cfg}, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *treeSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *treeSource) WriteFile(path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}

// --- Memory Source (tests, embedding) ---

// MemorySource is an in-memory Source. It is safe for concurrent use.
type MemorySource struct {
	mu     sync.Mutex
	files  map[string]string
	config sourceConfig
}

// Memory creates a Source holding files keyed by path.
func Memory(files map[string]string, opts ...SourceOption) *MemorySource {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	m := maps.Clone(files)
	if m == nil {
		m = make(map[string]string)
	}
	return &MemorySource{files: m, config: cfg}
}

func (s *MemorySource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	s.mu.Lock()
	defer s.mu.Unlock()

	var files []string
	for path := range s.files {
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

func (s *MemorySource) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(text), nil
}

func (s *MemorySource) WriteFile(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = string(data)
	return nil
}

// Files returns a snapshot of the current contents.
func (s *MemorySource) Files() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.files)
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
