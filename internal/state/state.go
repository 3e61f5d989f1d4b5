package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"PatternScout/internal/model"
	"PatternScout/pkg/errors"
)

// File is the on-disk notify state.
type File struct {
	Watches   map[string][]model.Signal `json:"watches"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Store remembers which signals were already notified, per watch.
type Store struct {
	mu   sync.Mutex
	path string
	file File
}

// Load reads the state from a JSON file. A missing file gives an empty store.
// An empty path keeps the state in memory only.
func Load(path string) (*Store, error) {
	s := &Store{path: path, file: File{Watches: map[string][]model.Signal{}}}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "read state")
	}
	if err := json.Unmarshal(data, &s.file); err != nil {
		return nil, errors.Wrapf(err, "parse state %s", path)
	}
	if s.file.Watches == nil {
		s.file.Watches = map[string][]model.Signal{}
	}
	return s, nil
}

// Known reports whether anything was ever recorded for watch.
func (s *Store) Known(watch string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.file.Watches[watch]
	return ok
}

// Unseen returns the signals not yet recorded for watch, in input order.
func (s *Store) Unseen(watch string, signals []model.Signal) []model.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.file.Watches[watch]))
	for _, sig := range s.file.Watches[watch] {
		seen[key(sig)] = struct{}{}
	}
	var out []model.Signal
	for _, sig := range signals {
		if _, ok := seen[key(sig)]; !ok {
			out = append(out, sig)
		}
	}
	return out
}

// Mark records signals for watch and forgets those older than horizon, then
// persists the store.
func (s *Store) Mark(watch string, signals []model.Signal, horizon int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := map[string]model.Signal{}
	for _, sig := range s.file.Watches[watch] {
		merged[key(sig)] = sig
	}
	for _, sig := range signals {
		merged[key(sig)] = sig
	}

	kept := make([]model.Signal, 0, len(merged))
	for _, sig := range merged {
		if sig.Timestamp >= horizon {
			kept = append(kept, sig)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Timestamp != kept[j].Timestamp {
			return kept[i].Timestamp < kept[j].Timestamp
		}
		return kept[i].Direction < kept[j].Direction
	})
	s.file.Watches[watch] = kept
	return s.save()
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	s.file.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create state dir")
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write state")
	}
	return os.Rename(tmp, s.path)
}

func key(sig model.Signal) string {
	return fmt.Sprintf("%d:%s", sig.Timestamp, sig.Direction)
}
