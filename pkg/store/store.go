package store

import (
	"context"
	"slices"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Store persists one family.
type Store interface {
	// Load returns the saved family, or nil and no error if nothing was saved.
	Load(ctx context.Context) (*family.FamilyData, error)
	// Save replaces the saved family with d.
	Save(ctx context.Context, d *family.FamilyData) error
	// Close releases any connections held by the store.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every backend name accepted by [Open].
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// DefaultName is the family name used when a backend holds more than one.
const DefaultName = "default"

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Path is the JSON file (file) or database file (sqlite).
	Path string
	// URL is the Redis address URL ("redis://host:6379/0") or Mongo URI.
	URL string
	// Database is the Mongo database name.
	Database string
	// Name distinguishes families sharing a Redis server or Mongo collection.
	Name string
}

// Open returns the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, cfg.URL, cfg.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := OpenMongo(ctx, cfg.URL, cfg.Database, cfg.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidConfig,
			"unknown store backend %q (want one of %v)", cfg.Backend, Backends)
	}
}

// ValidBackend reports whether name is accepted by [Open].
func ValidBackend(name string) bool {
	return name == "" || slices.Contains(Backends, name)
}

// LoadOrEmpty loads from s, returning an empty family when nothing was
// saved or the saved family has no people.
func LoadOrEmpty(ctx context.Context, s Store) (*family.FamilyData, error) {
	d, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if d.IsEmpty() {
		return family.New(), nil
	}
	return d, nil
}
