// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the signed-in user's credentials. A session
// is the single piece of local state the app keeps between runs: one
// JSON file under the config directory holding the bearer token and
// user id.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kagmin23/aiapp-tui/internal/config"
	"github.com/kagmin23/aiapp-tui/internal/util"
)

// ErrNotFound indicates no session is stored on disk.
var ErrNotFound = errors.New("no stored session")

// Session is the persisted credential set.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the session carries usable credentials.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.UserID != ""
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a store rooted at the default config directory.
func NewStore() (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return NewStoreAt(filepath.Join(dir, "session.json")), nil
}

// NewStoreAt creates a store using the given file path. Used by tests.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored session. Returns ErrNotFound when no session
// file exists or the file holds no usable credentials.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if !session.Valid() {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Save writes the session atomically. The file holds a bearer token, so
// it is written owner-only.
func (s *Store) Save(session *Session) error {
	if !session.Valid() {
		return errors.New("refusing to save session without credentials")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
