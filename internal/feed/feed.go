// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed maintains the unified chat transcript: settled history
// merged from the backend plus optimistic entries for in-flight
// submissions.
package feed

// =============================================================================
// FEED STATE MACHINE
// =============================================================================

// Feed is the ordered entry list for one chat screen session, owned
// exclusively by that screen's controller. All methods are plain
// synchronous mutations: the controller sequences them around network
// commands on the single UI event loop, so no method takes a lock.
//
// Submitted entries are appended at the end (they represent "now"); the
// feed is re-sorted only by a full history refresh via Replace, never on
// optimistic mutations.
type Feed struct {
	entries []*Entry
}

// New returns an empty feed.
func New() *Feed {
	return &Feed{}
}

// Entries returns the feed's entries in transcript order. The slice is
// shared, not copied; callers must not reorder it.
func (f *Feed) Entries() []*Entry {
	return f.entries
}

// Len returns the number of entries in the feed.
func (f *Feed) Len() int {
	return len(f.entries)
}

// Get returns the entry with the given id, or nil.
func (f *Feed) Get(id string) *Entry {
	for _, e := range f.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// index returns the position of the entry with the given id, or -1.
func (f *Feed) index(id string) int {
	for i, e := range f.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Replace swaps the whole feed for a freshly merged history. Used only
// at full-refresh time; any optimistic entries still pending are dropped
// with the old feed (their late responses are matched by id and simply
// miss).
func (f *Feed) Replace(entries []*Entry) {
	f.entries = entries
}

// =============================================================================
// SUBMISSION LIFECYCLE
// =============================================================================

// Submit classifies the prompt, appends an optimistic temp entry for it,
// and returns the entry so the caller can issue the matching remote call
// keyed by the temp id. Concurrent submissions each get their own id and
// settle independently in any order.
//
// The prompt must be non-empty after trimming; the composer enforces
// that before calling.
func (f *Feed) Submit(prompt string) *Entry {
	entry := NewTempEntry(prompt, ClassifyPrompt(prompt))
	f.entries = append(f.entries, entry)
	return entry
}

// Settle populates the response field of the pending entry with the
// given id, in place. Text entries receive the result as Response, image
// entries as ImageRef. The temp id is NOT rewritten to any server id
// returned alongside the result; the entry keeps its temp id until the
// next full history refresh replaces it with the server-backed record.
//
// Returns false when no entry carries the id (the feed was replaced or
// the entry deleted while the call was in flight); the late result is
// dropped.
func (f *Feed) Settle(id, result string) bool {
	entry := f.Get(id)
	if entry == nil {
		return false
	}
	switch entry.Kind {
	case KindImage:
		entry.ImageRef = result
	default:
		entry.Response = result
	}
	return true
}

// Rollback removes the entry with the given id after a failed
// submission and returns its prompt so the caller can restore it into
// the composer for retry. Returns ok=false when the entry is gone.
func (f *Feed) Rollback(id string) (prompt string, ok bool) {
	i := f.index(id)
	if i < 0 {
		return "", false
	}
	prompt = f.entries[i].Prompt
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return prompt, true
}

// =============================================================================
// EDIT LIFECYCLE
// =============================================================================

// StartEdit marks the entry as editing and seeds its draft with the
// current prompt. Editing is per-entry; several entries may be in edit
// mode at once.
func (f *Feed) StartEdit(id string) bool {
	entry := f.Get(id)
	if entry == nil {
		return false
	}
	entry.Editing = true
	entry.Draft = entry.Prompt
	return true
}

// CancelEdit leaves edit mode and discards the uncommitted draft. The
// settled response fields are untouched.
func (f *Feed) CancelEdit(id string) bool {
	entry := f.Get(id)
	if entry == nil {
		return false
	}
	entry.Editing = false
	entry.Draft = ""
	return true
}

// SetDraft updates the uncommitted edit text on an editing entry.
func (f *Feed) SetDraft(id, draft string) bool {
	entry := f.Get(id)
	if entry == nil || !entry.Editing {
		return false
	}
	entry.Draft = draft
	return true
}

// ApplyUpdate replaces the entry's prompt and regenerated result with
// the values the update call returned, and clears edit mode. The result
// lands in Response or ImageRef per the entry's kind. Called only on
// update success; on failure the entry keeps its editing state and draft
// so the user can retry the save without retyping.
func (f *Feed) ApplyUpdate(id, prompt, result string) bool {
	entry := f.Get(id)
	if entry == nil {
		return false
	}
	entry.Prompt = prompt
	switch entry.Kind {
	case KindImage:
		entry.ImageRef = result
	default:
		entry.Response = result
	}
	entry.Editing = false
	entry.Draft = ""
	return true
}

// =============================================================================
// DELETION
// =============================================================================

// Remove deletes the entry with the given id from the feed. For temp
// ids the caller removes immediately with no network call; for server
// ids it calls Remove only after the kind-scoped delete succeeded.
func (f *Feed) Remove(id string) bool {
	i := f.index(id)
	if i < 0 {
		return false
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return true
}
