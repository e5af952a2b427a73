// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen: the merged transcript of
// text and image history with optimistic submissions, inline edit, and
// confirmed delete.
package chat

// Results for submissions are keyed by the temp id they were issued
// under, so out-of-order completion across concurrent submissions lands
// on the right entry.

import "github.com/kagmin23/aiapp-tui/internal/feed"

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg delivers a freshly merged history. Sent only when
// both fetches succeeded.
type HistoryLoadedMsg struct {
	Entries []*feed.Entry
}

// HistoryFailedMsg signals that either history fetch failed. The
// previous feed stays untouched.
type HistoryFailedMsg struct {
	Err error
}

// =============================================================================
// SUBMISSION MESSAGES
// =============================================================================

// SettledMsg delivers the result of a successful submission. Result is
// the text reply or the image reference, per the entry's kind. Kind is
// carried from the originating call so the notice copy stays right even
// when the entry is gone by the time the result lands.
type SettledMsg struct {
	TempID string
	Kind   feed.Kind
	Result string
}

// SubmitFailedMsg signals a rejected submission. The entry is rolled
// back and its prompt restored to the composer.
type SubmitFailedMsg struct {
	TempID string
	Kind   feed.Kind
	Err    error
}

// =============================================================================
// EDIT MESSAGES
// =============================================================================

// UpdateDoneMsg delivers the regenerated record after a successful
// update call.
type UpdateDoneMsg struct {
	ID     string
	Prompt string
	Result string
}

// UpdateFailedMsg signals a rejected update. The entry keeps its editing
// state and draft so the user can retry without retyping.
type UpdateFailedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// DELETE MESSAGES
// =============================================================================

// DeleteDoneMsg signals a confirmed remote delete.
type DeleteDoneMsg struct {
	ID string
}

// DeleteFailedMsg signals a rejected delete. The entry stays in the
// feed.
type DeleteFailedMsg struct {
	ID  string
	Err error
}
