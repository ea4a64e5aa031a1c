package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Sink receives rendered documents under slash-separated relative names such as "TCX/123.tcx".
type Sink interface {
	WriteDocument(name string, data []byte) error
}

// DirSink writes documents below Root, creating directories on demand.
type DirSink struct {
	Root string
}

// Path returns the file path a document name maps to.
func (s DirSink) Path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

// WriteDocument implements Sink.
func (s DirSink) WriteDocument(name string, data []byte) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// MemorySink keeps documents in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// WriteDocument implements Sink.
func (s *MemorySink) WriteDocument(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[name] = append([]byte(nil), data...)
	return nil
}

// File returns the document stored under name.
func (s *MemorySink) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Names returns the stored document names, sorted.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
