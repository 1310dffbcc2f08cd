package json

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/brief"
)

// Save writes a Snapshot to a JSON file, creating parent directories as needed.
func Save(path string, s brief.Snapshot) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Snapshot from a JSON file.
func Load(path string) (brief.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return brief.Snapshot{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSnapshot(data)
}
