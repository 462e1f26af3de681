package artifact

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Sink creates named artifacts.
type Sink interface {
	// Label identifies the sink in manifests, e.g. "sql" or "redis".
	Label() string
	Create(name string) (Artifact, error)
}

// Artifact is an artifact being written. Nothing is visible under the
// artifact's name until Commit succeeds; Discard drops a partial write.
type Artifact interface {
	io.Writer
	Commit() (Entry, error)
	Discard() error
}

// Pruner is implemented by sinks that can drop generated artifacts left
// over from an earlier run.
type Pruner interface {
	// Prune removes generated artifacts whose names are not in keep and
	// returns what it removed.
	Prune(keep []string) ([]string, error)
}

// generatedName matches artifact names produced by the generator, e.g.
// "04_insert_orders_part03.sql". Staged temp files start with a dot.
var generatedName = regexp.MustCompile(`^[0-9]{2}_[a-z0-9_]+\.[a-z0-9]+$`)

// DirSink writes artifacts as files in a directory, creating the directory
// on first use. Each artifact is staged in a temporary file and renamed into
// place on commit.
type DirSink struct {
	label string
	dir   string
}

// NewDirSink returns a sink writing into dir.
func NewDirSink(label, dir string) *DirSink {
	return &DirSink{label: label, dir: dir}
}

// Label implements Sink.
func (s *DirSink) Label() string { return s.label }

// Dir returns the target directory.
func (s *DirSink) Dir() string { return s.dir }

// Create implements Sink.
func (s *DirSink) Create(name string) (Artifact, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("artifact: invalid name %q", name)
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return nil, fmt.Errorf("artifact: creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("artifact: staging %s: %w", name, err)
	}
	f := &fileArtifact{
		sink: s,
		name: name,
		tmp:  tmp,
	}
	f.buf = bufio.NewWriterSize(&countingWriter{w: tmp, n: &f.size}, 64*1024)
	return f, nil
}

// Existing lists the regular files currently in the directory, sorted. A
// missing directory has no files.
func (s *DirSink) Existing() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: reading %s: %w", s.dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Prune implements Pruner. Only files that look like generated artifacts are
// considered; anything else in the directory is left alone.
func (s *DirSink) Prune(keep []string) ([]string, error) {
	names, err := s.Existing()
	if err != nil {
		return nil, err
	}
	kept := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		kept[name] = struct{}{}
	}

	var removed []string
	for _, name := range names {
		if _, ok := kept[name]; ok || !generatedName.MatchString(name) {
			continue
		}
		path := filepath.Join(s.dir, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("artifact: pruning %s: %w", name, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

type fileArtifact struct {
	sink *DirSink
	name string
	tmp  *os.File
	buf  *bufio.Writer
	size int64
	done bool
}

func (f *fileArtifact) Write(p []byte) (int, error) {
	if f.done {
		return 0, fmt.Errorf("artifact: %s already closed", f.name)
	}
	return f.buf.Write(p)
}

func (f *fileArtifact) Commit() (Entry, error) {
	if f.done {
		return Entry{}, fmt.Errorf("artifact: %s already closed", f.name)
	}
	f.done = true

	if err := f.buf.Flush(); err != nil {
		f.cleanup()
		return Entry{}, fmt.Errorf("artifact: writing %s: %w", f.name, err)
	}
	if err := f.tmp.Chmod(filePerm); err != nil {
		f.cleanup()
		return Entry{}, fmt.Errorf("artifact: writing %s: %w", f.name, err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return Entry{}, fmt.Errorf("artifact: writing %s: %w", f.name, err)
	}

	path := filepath.Join(f.sink.dir, f.name)
	if err := os.Rename(f.tmp.Name(), path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return Entry{}, fmt.Errorf("artifact: writing %s: %w", f.name, err)
	}
	return Entry{Sink: f.sink.label, Name: f.name, Path: path, Bytes: f.size}, nil
}

func (f *fileArtifact) Discard() error {
	if f.done {
		return nil
	}
	f.done = true
	return f.cleanup()
}

func (f *fileArtifact) cleanup() error {
	_ = f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("artifact: removing staged %s: %w", f.name, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n *int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	*c.n += int64(n)
	return n, err
}

// MemorySink keeps committed artifacts in memory.
type MemorySink struct {
	label string

	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink(label string) *MemorySink {
	return &MemorySink{label: label, files: make(map[string][]byte)}
}

// Label implements Sink.
func (s *MemorySink) Label() string { return s.label }

// Create implements Sink.
func (s *MemorySink) Create(name string) (Artifact, error) {
	if name == "" {
		return nil, fmt.Errorf("artifact: invalid name %q", name)
	}
	return &memoryArtifact{sink: s, name: name}, nil
}

// Names returns committed artifact names in commit order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Get returns the content of a committed artifact.
func (s *MemorySink) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return string(data), ok
}

// Len returns the number of committed artifacts.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

type memoryArtifact struct {
	sink *MemorySink
	name string
	buf  bytes.Buffer
	done bool
}

func (m *memoryArtifact) Write(p []byte) (int, error) {
	if m.done {
		return 0, fmt.Errorf("artifact: %s already closed", m.name)
	}
	return m.buf.Write(p)
}

func (m *memoryArtifact) Commit() (Entry, error) {
	if m.done {
		return Entry{}, fmt.Errorf("artifact: %s already closed", m.name)
	}
	m.done = true

	s := m.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.files[m.name]; !exists {
		s.order = append(s.order, m.name)
	}
	s.files[m.name] = append([]byte(nil), m.buf.Bytes()...)
	return Entry{Sink: s.label, Name: m.name, Path: m.name, Bytes: int64(m.buf.Len())}, nil
}

func (m *memoryArtifact) Discard() error {
	m.done = true
	m.buf.Reset()
	return nil
}
