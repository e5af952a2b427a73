// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed maintains the unified chat transcript: settled history
// merged from the backend plus optimistic entries for in-flight
// submissions.
package feed

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind routes an entry to the text or image generation path. It
// determines which response field is authoritative once settled.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// =============================================================================
// TEMPORARY IDS
// =============================================================================

// TempIDPrefix marks ids synthesized client-side for entries the backend
// has not confirmed yet. The backend issues MongoDB object ids and never
// produces this prefix.
const TempIDPrefix = "temp_"

// NewTempID returns a fresh client-side id for an optimistic entry.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether the id was synthesized client-side. Edit and
// delete use this to recognize "not yet persisted" entries and skip the
// network path.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is one unit in the unified chat feed, either a text exchange or
// an image exchange.
type Entry struct {
	// Identity
	ID        string
	Kind      Kind
	CreatedAt time.Time

	// The user's input. Mutable while editing.
	Prompt string

	// Exactly one of these is set once the entry settles.
	Response string // text reply
	ImageRef string // data URI or remote URL

	// Local edit state, never sent to the server
	Editing bool
	Draft   string // uncommitted edit text
}

// NewTempEntry synthesizes an optimistic entry for a just-submitted
// prompt. CreatedAt is "now" since the entry represents the present
// moment, not a history record.
func NewTempEntry(prompt string, kind Kind) *Entry {
	return &Entry{
		ID:        NewTempID(),
		Kind:      kind,
		Prompt:    prompt,
		CreatedAt: time.Now(),
	}
}

// Pending reports whether the entry is still waiting for its remote
// result. Derived, not stored: an entry is pending while neither
// response field is populated.
func (e *Entry) Pending() bool {
	return e.Response == "" && e.ImageRef == ""
}

// Temp reports whether the entry has never been confirmed by the backend.
func (e *Entry) Temp() bool {
	return IsTempID(e.ID)
}
