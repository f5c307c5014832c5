package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/abdidvp/hexagonal/internal/domain"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "users.json"

// Store implements domain.UserRepository as a JSON array on disk. The whole
// file is rewritten on every change via a temp file and rename, so readers of
// the file never see a partial write.
type Store struct {
	mu    sync.RWMutex
	path  string
	users map[domain.UserID]domain.User
}

// Open loads path if it exists. A missing file starts an empty store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, users: make(map[domain.UserID]domain.User)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) FindByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// Save upserts user and rewrites the file. On write failure the in-memory
// state is rolled back.
func (s *Store) Save(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.users[user.ID]
	s.users[user.ID] = user
	if err := s.persist(); err != nil {
		if existed {
			s.users[user.ID] = prev
		} else {
			delete(s.users, user.ID)
		}
		return domain.Infrastructure("saving user", err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.users[id]
	if !existed {
		return nil
	}
	delete(s.users, id)
	if err := s.persist(); err != nil {
		s.users[id] = prev
		return domain.Infrastructure("deleting user", err)
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *Store) snapshot() []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	domain.SortUsers(out)
	return out
}

// persist must be called with the write lock held.
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
