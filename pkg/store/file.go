package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/observability"
)

// FileStore keeps each layout in <dir>/<id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a store in dir. An empty dir means
// ~/.config/nodevis/layouts.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, persistence(err, "locate", "directory")
		}
		dir = filepath.Join(home, ".config", "nodevis", "layouts")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, persistence(err, "create", "directory")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, id string, l *layout.Layout) (err error) {
	data, err := encode(id, l)
	defer func() { observability.Store().OnSave(ctx, BackendFile, id, len(data), err) }()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := s.path(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return persistence(err, "write", id)
	}
	if err := os.Rename(tmp, s.path(id)); err != nil {
		os.Remove(tmp)
		return persistence(err, "write", id)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (l *layout.Layout, err error) {
	defer func() { observability.Store().OnLoad(ctx, BackendFile, id, err) }()
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, persistence(err, "read", id)
	}
	return decode(id, data)
}

func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, BackendFile, id, err) }()
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return persistence(err, "remove", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, persistence(err, "list", s.dir)
	}
	var out []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{ID: strings.TrimSuffix(name, ".json"), UpdatedAt: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Dir returns the directory holding the layout files.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)
