// Package filestate persists per-watch state as a small versioned JSON
// file. The runner is the sole writer; every Put rewrites the file so
// partial progress survives an abrupt termination mid-pass.
package filestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"coursewatch/internal/watch"
)

const schemaVersion = 1

type document struct {
	Version int                    `json:"version"`
	Watches map[string]watch.State `json:"watches"`
}

// Store reads and writes the state file. Reads go to disk on every
// call so the freshest state is seen at the start of each watch's
// processing.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store backed by the file at path. The file is created
// on first Put.
func New(path string) *Store {
	return &Store{path: path}
}

// Get returns the state for label and whether it exists yet.
func (s *Store) Get(label string) (watch.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return watch.State{}, false, err
	}
	st, ok := doc.Watches[label]
	return st, ok, nil
}

// Put persists the state for label immediately. Entries for labels no
// longer in the watchlist are kept so a re-added watch resumes from
// its old baseline.
func (s *Store) Put(label string, st watch.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if doc.Watches == nil {
		doc.Watches = make(map[string]watch.State)
	}
	doc.Watches[label] = st
	return s.write(doc)
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{Version: schemaVersion}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read state file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("decode state file %s: %w", s.path, err)
	}
	if doc.Version > schemaVersion {
		return document{}, fmt.Errorf("state file %s has version %d, newest supported is %d", s.path, doc.Version, schemaVersion)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	doc.Version = schemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
