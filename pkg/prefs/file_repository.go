package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the preferences file inside the directory.
const FileName = "prefs.json"

// FileRepository implements Repository using a JSON file.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a new FileRepository for the given directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Load reads the preferences from disk.
func (r *FileRepository) Load(ctx context.Context) (Prefs, error) {
	if err := ctx.Err(); err != nil {
		return Prefs{}, err
	}

	data, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, fmt.Errorf("prefs: read: %w", err)
	}

	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("prefs: decode %s: %w", r.Path(), err)
	}
	return p, nil
}

// Save writes p to a temp file and renames it over prefs.json.
func (r *FileRepository) Save(ctx context.Context, p Prefs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("prefs: create dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("prefs: write: %w", err)
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the preferences file.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, FileName)
}
