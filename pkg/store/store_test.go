package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// exerciseStore checks the contract every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	d, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load before Save: %v", err)
	}
	if d != nil {
		t.Fatalf("Load before Save = %+v, want nil", d)
	}

	demo := family.Demo()
	demo.SpouseEdges[0].StartDate = "1972-06-01"
	if err := s.Save(ctx, demo); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, demo) {
		t.Errorf("Load after Save differs:\n got %+v\nwant %+v", got, demo)
	}

	smaller := family.RemovePerson(demo, "p1")
	if err := s.Save(ctx, smaller); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !reflect.DeepEqual(got, smaller) {
		t.Error("second Save did not replace the family")
	}

	// Imported data may carry duplicate ids; stores keep it verbatim.
	dup := &family.FamilyData{People: []family.Person{{ID: "x", FirstName: "A"}, {ID: "x", FirstName: "B"}}}
	if err := s.Save(ctx, dup); err != nil {
		t.Fatalf("Save duplicates: %v", err)
	}
	got, _ = s.Load(ctx)
	if len(got.People) != 2 || got.People[1].FirstName != "B" {
		t.Errorf("duplicates not preserved: %+v", got.People)
	}

	empty, err := LoadOrEmpty(ctx, s)
	if err != nil {
		t.Fatalf("LoadOrEmpty: %v", err)
	}
	if len(empty.People) != 2 {
		t.Error("LoadOrEmpty dropped a non-empty family")
	}
	if err := s.Save(ctx, family.New()); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	empty, err = LoadOrEmpty(ctx, s)
	if err != nil || empty == nil || !empty.IsEmpty() {
		t.Errorf("LoadOrEmpty on empty family = %+v, %v", empty, err)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	exerciseStore(t, m)
	if m.Saves() != 4 {
		t.Errorf("Saves() = %d, want 4", m.Saves())
	}

	// Saved data is a copy.
	d := family.Demo()
	_ = m.Save(context.Background(), d)
	d.People[0].FirstName = "Changed"
	got, _ := m.Load(context.Background())
	if got.People[0].FirstName != "John" {
		t.Error("MemoryStore shares memory with the caller")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "family.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("data dir holds %d entries, want only the family file", len(entries))
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(path)
	if _, err := s.Load(context.Background()); !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Errorf("Load corrupt file error = %v, want INVALID_FORMAT", err)
	}
}

func TestDefaultFilePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	got, err := DefaultFilePath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/data", "familytree", "family.json"); got != want {
		t.Errorf("DefaultFilePath() = %q, want %q", got, want)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "family.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseStore(t, s)
	if err := s.Save(ctx, family.Demo()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if !reflect.DeepEqual(got, family.Demo()) {
		t.Error("data did not survive reopening the database")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open(ctx, Config{Path: filepath.Join(t.TempDir(), "f.json")})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend = %T, want *FileStore", s)
	}

	if _, err := Open(ctx, Config{Backend: "etcd"}); !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend error = %v, want INVALID_CONFIG", err)
	}
	if !ValidBackend("sqlite") || ValidBackend("etcd") {
		t.Error("ValidBackend mismatch")
	}
}

func TestRedisStore(t *testing.T) {
	if got := redisKey(""); got != "familytree:default:data" {
		t.Errorf("redisKey(\"\") = %q", got)
	}
	if _, err := OpenRedis(context.Background(), "not a url", "x"); !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
		t.Errorf("bad url error = %v, want INVALID_CONFIG", err)
	}

	addr := os.Getenv("FAMILYTREE_REDIS_ADDR")
	if addr == "" {
		t.Skip("FAMILYTREE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := OpenRedis(ctx, "redis://"+addr+"/15", "test-"+time.Now().Format("150405.000"))
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	defer func() {
		s.client.Del(ctx, s.Key())
		s.Close()
	}()
	exerciseStore(t, s)
}

func TestMongoDocument(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := toMongo("smiths", nil, now)
	if doc.Name != "smiths" || doc.People == nil || !doc.UpdatedAt.Equal(now) {
		t.Errorf("toMongo(nil) = %+v", doc)
	}

	demo := family.Demo()
	if back := fromMongo(toMongo("smiths", demo, now)); !reflect.DeepEqual(back, demo) {
		t.Error("mongo document conversion lost data")
	}
	if back := fromMongo(mongoFamily{}); back.People == nil || back.SpouseEdges == nil {
		t.Error("fromMongo should fill empty collections")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FAMILYTREE_MONGO_URI")
	if uri == "" {
		t.Skip("FAMILYTREE_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := OpenMongo(ctx, uri, "familytree_test", "test-"+time.Now().Format("150405.000"))
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer func() {
		s.coll.Drop(ctx)
		s.Close()
	}()
	exerciseStore(t, s)
}
