package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/maurobossio/portfolio/internal/models"
)

// JSONFile implements Provider backed by a single JSON document on disk.
//
// The document is cached in memory; reads serve the snapshot and every
// append rewrites the whole file atomically. A process-wide mutex makes the
// store single-writer, so concurrent requests inside one server cannot lose
// an append. Two processes sharing the file can still race each other on the
// read-modify-write cycle, a known limitation of the single-file contract,
// acceptable for a low-traffic single-instance deployment.
type JSONFile struct {
	path string // absolute path to the document

	mu  sync.RWMutex
	doc models.Document
}

// NewJSONFile opens the document at path, creating an empty one when the
// file does not exist yet.
func NewJSONFile(path string) (*JSONFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	s := &JSONFile{path: abs}

	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		if err := s.write(models.Document{}); err != nil {
			return nil, err
		}
		return s, nil
	}

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return s, nil
}

// Path returns the absolute document path. The watcher uses it to match
// file-system events.
func (s *JSONFile) Path() string { return s.path }

// Projects returns the cached project list in stored order.
func (s *JSONFile) Projects(_ context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Projects, nil
}

// Messages returns the cached message list in stored order.
func (s *JSONFile) Messages(_ context.Context) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Messages, nil
}

// AppendMessage appends msg and durably rewrites the whole document. The
// mutex covers the full read-modify-write cycle.
func (s *JSONFile) AppendMessage(_ context.Context, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc
	next.Messages = append(append([]models.Message(nil), s.doc.Messages...), msg)
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Reload re-reads the document from disk, picking up out-of-band edits.
func (s *JSONFile) Reload() error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Checksum returns a content hash of the document on disk. The watcher uses
// it to skip reloads for writes that did not change content.
func (s *JSONFile) Checksum() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("storage: checksum: %w", err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

// Close is a no-op; the file is only held open during reads and writes.
func (s *JSONFile) Close() error { return nil }

func (s *JSONFile) read() (models.Document, error) {
	return ReadDocument(s.path)
}

// ReadDocument decodes a whole document from path. Missing top-level keys
// decode as nil slices, which callers treat as empty.
func ReadDocument(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("storage: read document: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Document{}, fmt.Errorf("storage: decode document: %w", err)
	}
	return doc, nil
}

func (s *JSONFile) write(doc models.Document) error {
	return WriteDocument(s.path, doc)
}

// WriteDocument atomically persists a document to path: tmp file, fsync,
// rename. Exposed for seeding data files outside a running store.
func WriteDocument(path string, doc models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".portfolio-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
