// Package watchlist loads and persists the user-authored watch list.
// The file is the user's to edit; the runner only writes back to flip
// enabled flags (mode=once auto-disable).
package watchlist

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"coursewatch/internal/watch"
)

// entry wraps watch.Config so omitted fields get sensible defaults:
// a watch is enabled unless it says otherwise, and mode defaults to
// once.
type entry watch.Config

func (e *entry) UnmarshalYAML(value *yaml.Node) error {
	type raw entry
	tmp := raw{Enabled: true, Mode: watch.ModeOnce}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*e = entry(tmp)
	return nil
}

type document struct {
	Watches []entry `yaml:"watches"`
}

// Store reads and writes the watchlist YAML file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and validates the watchlist. A missing or malformed file
// is a setup-level failure that aborts the run.
func (s *Store) Load() ([]watch.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SetEnabled flips the enabled flag for the watch with the given label
// and rewrites the file.
func (s *Store) SetEnabled(label string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	watches, err := s.load()
	if err != nil {
		return err
	}
	for i := range watches {
		if watches[i].Label == label {
			watches[i].Enabled = enabled
			return s.save(watches)
		}
	}
	return fmt.Errorf("watchlist: no watch with label %q", label)
}

// Add appends a new watch, creating the file if needed.
func (s *Store) Add(cfg watch.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	watches, err := s.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	watches = append(watches, cfg)
	if err := validate(watches); err != nil {
		return err
	}
	return s.save(watches)
}

func (s *Store) load() ([]watch.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", s.path, err)
	}

	watches := make([]watch.Config, len(doc.Watches))
	for i, e := range doc.Watches {
		watches[i] = watch.Config(e)
	}
	if err := validate(watches); err != nil {
		return nil, err
	}
	return watches, nil
}

func (s *Store) save(watches []watch.Config) error {
	entries := make([]entry, len(watches))
	for i, w := range watches {
		entries[i] = entry(w)
	}
	data, err := yaml.Marshal(document{Watches: entries})
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// validate enforces required fields and the unique-label invariant
// (labels key both the state store and notification de-duplication).
func validate(watches []watch.Config) error {
	seen := make(map[string]bool, len(watches))
	for _, w := range watches {
		if w.Label == "" {
			return fmt.Errorf("watchlist: watch with url %q has no label", w.URL)
		}
		if seen[w.Label] {
			return fmt.Errorf("watchlist: duplicate label %q", w.Label)
		}
		seen[w.Label] = true
		if w.URL == "" {
			return fmt.Errorf("watchlist: watch %q has no url", w.Label)
		}
		if w.Keyword == "" {
			return fmt.Errorf("watchlist: watch %q has no keyword", w.Label)
		}
		if w.Mode != watch.ModeOnce && w.Mode != watch.ModeRepeat {
			return fmt.Errorf("watchlist: watch %q has unknown mode %q", w.Label, w.Mode)
		}
	}
	return nil
}
