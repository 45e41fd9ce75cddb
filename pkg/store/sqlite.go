package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/observability"
)

// SQLiteStore keeps layouts in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at path. Use ":memory:"
// for a throwaway store. An empty path means nodevis.db.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "nodevis.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, persistence(err, "open", path)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, persistence(err, "migrate", path)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS layouts (
			id         TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, id string, l *layout.Layout) (err error) {
	data, err := encode(id, l)
	defer func() { observability.Store().OnSave(ctx, BackendSQLite, id, len(data), err) }()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layouts (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data), time.Now().UnixMilli())
	if err != nil {
		return persistence(err, "write", id)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (l *layout.Layout, err error) {
	defer func() { observability.Store().OnLoad(ctx, BackendSQLite, id, err) }()
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	var data string
	err = s.db.QueryRowContext(ctx, `SELECT data FROM layouts WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, persistence(err, "read", id)
	}
	return decode(id, []byte(data))
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, BackendSQLite, id, err) }()
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id); err != nil {
		return persistence(err, "remove", id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, updated_at FROM layouts ORDER BY id`)
	if err != nil {
		return nil, persistence(err, "list", "layouts")
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			id string
			ms int64
		)
		if err := rows.Scan(&id, &ms); err != nil {
			return nil, persistence(err, "list", "layouts")
		}
		out = append(out, Info{ID: id, UpdatedAt: time.UnixMilli(ms)})
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(err, "list", "layouts")
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
