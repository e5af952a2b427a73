// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_LoadMissing(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Load()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load on missing file = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStoreAt(path)

	s := &Session{
		Token:  "tok-123",
		UserID: "user-1",
		Email:  "a@example.com",
		Name:   "Alice",
	}
	if err := store.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if s.CreatedAt.IsZero() {
		t.Error("Save should stamp CreatedAt")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Token != "tok-123" {
		t.Errorf("Token = %q, want %q", loaded.Token, "tok-123")
	}
	if loaded.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", loaded.UserID, "user-1")
	}
	if loaded.Email != "a@example.com" {
		t.Errorf("Email = %q, want %q", loaded.Email, "a@example.com")
	}
	if !loaded.Valid() {
		t.Error("Loaded session should be valid")
	}
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	store := NewStoreAt(path)

	s := &Session{Token: "tok", UserID: "u"}
	if err := store.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Session file not created: %v", err)
	}
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix permission bits")
	}

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStoreAt(path)

	if err := store.Save(&Session{Token: "tok", UserID: "u"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("File mode = %o, want 0600", perm)
	}
}

func TestStore_RefusesInvalidSession(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "session.json"))

	tests := []struct {
		name    string
		session *Session
	}{
		{"no token", &Session{UserID: "u"}},
		{"no user id", &Session{Token: "tok"}},
		{"empty", &Session{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Save(tc.session); err == nil {
				t.Error("Save should refuse a session without credentials")
			}
		})
	}
}

func TestStore_LoadInvalidContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStoreAt(path)

	// Corrupt JSON
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Error("Load should fail on corrupt JSON")
	}

	// Valid JSON but no credentials
	if err := os.WriteFile(path, []byte(`{"email":"a@example.com"}`), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load on credential-less file = %v, want ErrNotFound", err)
	}
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStoreAt(path)

	if err := store.Save(&Session{Token: "tok", UserID: "u"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Clear = %v, want ErrNotFound", err)
	}

	// Clearing again is not an error
	if err := store.Clear(); err != nil {
		t.Errorf("Second Clear failed: %v", err)
	}
}

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		want    bool
	}{
		{"nil", nil, false},
		{"complete", &Session{Token: "t", UserID: "u"}, true},
		{"no token", &Session{UserID: "u"}, false},
		{"no user id", &Session{Token: "t"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.session.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
