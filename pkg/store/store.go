// Package store persists layout documents by id.
//
// Backends:
//   - [FileStore]: one JSON file per layout, the CLI default
//   - [SQLiteStore]: a single database file (pure-Go driver)
//   - [RedisStore]: shared storage for multi-instance servers
//   - [MongoStore]: layouts as BSON documents
//
// Every backend validates the id and the document before writing, wraps
// storage failures as PERSISTENCE errors and reports missing layouts as
// NOT_FOUND. A failed write leaves the caller's layout untouched.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// Store persists layouts.
type Store interface {
	Save(ctx context.Context, id string, l *layout.Layout) error
	Load(ctx context.Context, id string) (*layout.Layout, error)
	Delete(ctx context.Context, id string) error
	// List returns the stored layouts ordered by id.
	List(ctx context.Context) ([]Info, error)
	Close() error
}

// Info describes a stored layout.
type Info struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Open creates the backend named by cfg.Backend. An empty backend means
// the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path)
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisAddr)
	case BackendMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
}

// encode validates id and l and returns the stored form of l.
func encode(id string, l *layout.Layout) ([]byte, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	if err := layout.Validate(l); err != nil {
		return nil, err
	}
	return layout.Marshal(l)
}

func decode(id string, data []byte) (*layout.Layout, error) {
	l, err := layout.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout %s", id)
	}
	return l, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
}

func persistence(err error, op, id string) error {
	return errors.Wrap(errors.ErrCodePersistence, err, "%s layout %s", op, id)
}
