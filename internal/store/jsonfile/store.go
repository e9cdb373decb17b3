// Package jsonfile provides JSON file-based stores for server sessions and
// visit history.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alastify/vufind/internal/core/session"
)

// SessionFile is the root JSON structure stored on disk.
type SessionFile struct {
	Sessions []session.Session `json:"sessions"`
}

// Store implements session.Store using a JSON file for persistence.
type Store struct {
	path string
	mu   sync.RWMutex
}

// New creates a new JSON file store at the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// List returns all stored sessions.
func (s *Store) List(ctx context.Context) ([]session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	return file.Sessions, nil
}

// Get returns the session for a host. Returns ErrNotFound if not found.
func (s *Store) Get(ctx context.Context, host string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return session.Session{}, err
	}

	for _, sess := range file.Sessions {
		if sess.Host == host {
			return sess, nil
		}
	}

	return session.Session{}, session.ErrNotFound
}

// Save creates or updates a session, keyed by host.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	// Update existing or append new
	found := false
	for i, existing := range file.Sessions {
		if existing.Host == sess.Host {
			sess.CreatedAt = existing.CreatedAt
			file.Sessions[i] = sess
			found = true
			break
		}
	}
	if !found {
		file.Sessions = append(file.Sessions, sess)
	}

	return s.save(file)
}

// Delete removes the session for a host. Returns ErrNotFound if not found.
func (s *Store) Delete(ctx context.Context, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	for i, sess := range file.Sessions {
		if sess.Host == host {
			file.Sessions = append(file.Sessions[:i], file.Sessions[i+1:]...)
			return s.save(file)
		}
	}

	return session.ErrNotFound
}

// load reads the session file from disk.
// Returns empty SessionFile if file doesn't exist.
func (s *Store) load() (SessionFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return SessionFile{}, nil
		}
		return SessionFile{}, fmt.Errorf("read session file: %w", err)
	}

	if len(data) == 0 {
		return SessionFile{}, nil
	}

	var file SessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return SessionFile{}, fmt.Errorf("session file corrupted: %w", err)
	}

	return file, nil
}

// save writes the session file to disk atomically.
func (s *Store) save(file SessionFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename session file: %w", err)
	}

	return nil
}
