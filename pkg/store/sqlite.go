package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Rows carry an explicit position so a load returns people and edges in
// the order they were saved. Ids are not keys: imported files may hold
// duplicates or dangling edges, and the store keeps them as given.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS people (
	position   INTEGER PRIMARY KEY,
	id         TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	sex        TEXT NOT NULL DEFAULT '',
	birth_date TEXT NOT NULL DEFAULT '',
	death_date TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	photo_url  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS parent_child_edges (
	position  INTEGER PRIMARY KEY,
	parent_id TEXT NOT NULL,
	child_id  TEXT NOT NULL,
	type      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS spouse_edges (
	position   INTEGER PRIMARY KEY,
	a_id       TEXT NOT NULL,
	b_id       TEXT NOT NULL,
	start_date TEXT NOT NULL DEFAULT '',
	end_date   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLiteStore keeps the family in an embedded SQLite database.
type SQLiteStore struct {
	conn *sql.DB
	Path string
}

// OpenSQLite opens (creating if needed) the database at path with WAL mode
// enabled and the schema applied. If path is empty, family.db next to
// [DefaultFilePath] is used.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		p, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(p), "family.db")
	}
	if err := apperr.ValidatePath(path); err != nil {
		return nil, err
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "create data dir")
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "opening database")
	}
	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "setting WAL mode")
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "applying schema")
	}
	return &SQLiteStore{conn: conn, Path: path}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*family.FamilyData, error) {
	var savedAt string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'saved_at'`).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "read meta")
	}

	d := family.New()

	rows, err := s.conn.QueryContext(ctx, `SELECT id, first_name, last_name, sex, birth_date, death_date, notes, photo_url
		FROM people ORDER BY position`)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "query people")
	}
	for rows.Next() {
		var p family.Person
		var sex string
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &sex, &p.BirthDate, &p.DeathDate, &p.Notes, &p.PhotoURL); err != nil {
			rows.Close()
			return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "scan person")
		}
		p.Sex = family.Sex(sex)
		d.People = append(d.People, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.conn.QueryContext(ctx, `SELECT parent_id, child_id, type FROM parent_child_edges ORDER BY position`)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "query parent-child edges")
	}
	for rows.Next() {
		var e family.ParentChildEdge
		var kind string
		if err := rows.Scan(&e.ParentID, &e.ChildID, &kind); err != nil {
			rows.Close()
			return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "scan parent-child edge")
		}
		e.Kind = family.EdgeKind(kind)
		d.ParentChildEdges = append(d.ParentChildEdges, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.conn.QueryContext(ctx, `SELECT a_id, b_id, start_date, end_date FROM spouse_edges ORDER BY position`)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "query spouse edges")
	}
	for rows.Next() {
		var e family.SpouseEdge
		if err := rows.Scan(&e.AID, &e.BID, &e.StartDate, &e.EndDate); err != nil {
			rows.Close()
			return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "scan spouse edge")
		}
		d.SpouseEdges = append(d.SpouseEdges, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return d, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return apperr.Wrap(apperr.ErrCodeStorage, err, "iterate rows")
	}
	return rows.Close()
}

// Save replaces all rows in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, d *family.FamilyData) error {
	d = d.Clone()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "begin")
	}
	defer tx.Rollback()

	for _, table := range []string{"people", "parent_child_edges", "spouse_edges"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return apperr.Wrap(apperr.ErrCodeStorage, err, "clear %s", table)
		}
	}

	for i, p := range d.People {
		if _, err := tx.ExecContext(ctx, `INSERT INTO people
			(position, id, first_name, last_name, sex, birth_date, death_date, notes, photo_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, p.ID, p.FirstName, p.LastName, string(p.Sex), p.BirthDate, p.DeathDate, p.Notes, p.PhotoURL); err != nil {
			return apperr.Wrap(apperr.ErrCodeStorage, err, "insert person %s", p.ID)
		}
	}
	for i, e := range d.ParentChildEdges {
		if _, err := tx.ExecContext(ctx, `INSERT INTO parent_child_edges (position, parent_id, child_id, type)
			VALUES (?, ?, ?, ?)`, i, e.ParentID, e.ChildID, string(e.Kind)); err != nil {
			return apperr.Wrap(apperr.ErrCodeStorage, err, "insert edge %s->%s", e.ParentID, e.ChildID)
		}
	}
	for i, e := range d.SpouseEdges {
		if _, err := tx.ExecContext(ctx, `INSERT INTO spouse_edges (position, a_id, b_id, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`, i, e.AID, e.BID, e.StartDate, e.EndDate); err != nil {
			return apperr.Wrap(apperr.ErrCodeStorage, err, "insert spouse %s-%s", e.AID, e.BID)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('saved_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "update meta")
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "commit")
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

var _ Store = (*SQLiteStore)(nil)
