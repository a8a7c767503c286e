package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// FileStore keeps the family in a single JSON file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// DefaultFilePath returns $XDG_DATA_HOME/familytree/family.json, falling
// back to ~/.local/share when XDG_DATA_HOME is unset.
func DefaultFilePath() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", apperr.Wrap(apperr.ErrCodeStorage, err, "get home dir")
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "familytree", "family.json"), nil
}

// NewFileStore creates a store backed by path. If path is empty,
// [DefaultFilePath] is used. The file itself is created on first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := apperr.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "create data dir")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) (*family.FamilyData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "read %s", s.path)
	}
	d, err := UnmarshalJSON(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.GetCode(err), err, "load %s", s.path)
	}
	return d, nil
}

func (s *FileStore) Save(ctx context.Context, d *family.FamilyData) error {
	data, err := MarshalJSON(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, data)
}

func (s *FileStore) Close() error { return nil }

// Path returns the JSON file backing the store.
func (s *FileStore) Path() string { return s.path }

var _ Store = (*FileStore)(nil)

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.Wrap(apperr.ErrCodeStorage, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}
