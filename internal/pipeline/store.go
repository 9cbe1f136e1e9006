package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// Store persists custom presets. The pipeline treats it as an external
// collaborator; FileStore is the local-disk implementation used by the CLI.
type Store interface {
	CustomPresets() ([]Preset, error)
	AddCustomPreset(p Preset) error
}

// FileStore keeps custom presets in a single gzip-compressed JSON file.
// Writes go through a temp file and rename so a crash never leaves a
// truncated store behind.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path. The file is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// CustomPresets loads all stored presets. A missing file is an empty
// store, not an error.
func (s *FileStore) CustomPresets() ([]Preset, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open preset store: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read preset store %s: %w", s.path, err)
	}
	defer zr.Close()

	var presets []Preset
	if err := json.NewDecoder(zr).Decode(&presets); err != nil {
		return nil, fmt.Errorf("decode preset store %s: %w", s.path, err)
	}
	return presets, nil
}

// AddCustomPreset validates the preset, checks its ID against both the
// default catalog and the stored presets, and appends it to the store.
func (s *FileStore) AddCustomPreset(p Preset) error {
	if err := ValidatePreset(p); err != nil {
		return err
	}

	existing, err := s.CustomPresets()
	if err != nil {
		return err
	}
	for _, d := range DefaultPresets() {
		if d.ID == p.ID {
			return fmt.Errorf("preset id %q collides with a default preset", p.ID)
		}
	}
	for _, e := range existing {
		if e.ID == p.ID {
			return fmt.Errorf("preset id %q already stored", p.ID)
		}
	}

	if err := s.write(append(existing, p)); err != nil {
		return err
	}

	log.Info().Str("id", p.ID).Str("name", p.Name).Msg("Custom preset saved")
	return nil
}

func (s *FileStore) write(presets []Preset) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preset store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "presets-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp preset store: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(presets); err != nil {
		tmp.Close()
		return fmt.Errorf("encode preset store: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compress preset store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flush preset store: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace preset store: %w", err)
	}
	return nil
}
