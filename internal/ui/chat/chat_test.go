// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagmin23/aiapp-tui/internal/api"
	"github.com/kagmin23/aiapp-tui/internal/feed"
	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// =============================================================================
// STUB BACKEND
// =============================================================================

// stubBackend records calls and returns canned results.
type stubBackend struct {
	texts  []api.TextMessage
	images []api.GeneratedImage

	textHistoryErr  error
	imageHistoryErr error
	sendErr         error
	generateErr     error
	updateErr       error
	deleteErr       error

	reply    string
	imageRef string

	sendCalls     int
	generateCalls int
	updateCalls   int
	deleteTextIDs []string
	deleteImgIDs  []string
}

func (s *stubBackend) TextHistory(ctx context.Context) ([]api.TextMessage, error) {
	return s.texts, s.textHistoryErr
}

func (s *stubBackend) ImageHistory(ctx context.Context) ([]api.GeneratedImage, error) {
	return s.images, s.imageHistoryErr
}

func (s *stubBackend) SendText(ctx context.Context, prompt string) (string, error) {
	s.sendCalls++
	if s.sendErr != nil {
		return "", s.sendErr
	}
	return s.reply, nil
}

func (s *stubBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	s.generateCalls++
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.imageRef, nil
}

func (s *stubBackend) UpdateText(ctx context.Context, id, prompt string) (*api.TextMessage, error) {
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &api.TextMessage{ID: id, Prompt: prompt, Response: "regenerated"}, nil
}

func (s *stubBackend) UpdateImage(ctx context.Context, id, prompt string) (*api.GeneratedImage, error) {
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &api.GeneratedImage{ID: id, Prompt: prompt, ImageURL: "https://x/new.png"}, nil
}

func (s *stubBackend) DeleteText(ctx context.Context, id string) error {
	s.deleteTextIDs = append(s.deleteTextIDs, id)
	return s.deleteErr
}

func (s *stubBackend) DeleteImage(ctx context.Context, id string) error {
	s.deleteImgIDs = append(s.deleteImgIDs, id)
	return s.deleteErr
}

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(backend Backend) Model {
	m := New(styles.NewTheme(), backend, 1000)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// runCmd executes a tea.Cmd synchronously and feeds its message back.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = m.Update(msg)
	return m
}

// =============================================================================
// HISTORY LOAD TESTS
// =============================================================================

func TestLoadHistory_MergesBothSources(t *testing.T) {
	backend := &stubBackend{
		texts: []api.TextMessage{
			{ID: "m1", Prompt: "hi", Response: "hello", CreatedAt: time.Unix(1, 0)},
			{ID: "m2", Prompt: "bye", Response: "later", CreatedAt: time.Unix(3, 0)},
		},
		images: []api.GeneratedImage{
			{ID: "i1", Prompt: "a cat", ImageURL: "https://x/cat.png", CreatedAt: time.Unix(2, 0)},
		},
	}
	m := newTestModel(backend)

	m = runCmd(t, m, loadHistoryCmd(backend))

	require.Equal(t, 3, m.Feed().Len())
	entries := m.Feed().Entries()
	assert.Equal(t, []string{"m1", "i1", "m2"},
		[]string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestLoadHistory_EitherFailureLeavesFeedUntouched(t *testing.T) {
	backend := &stubBackend{
		texts: []api.TextMessage{{ID: "m1", CreatedAt: time.Unix(1, 0)}},
	}
	m := newTestModel(backend)
	m = runCmd(t, m, loadHistoryCmd(backend))
	require.Equal(t, 1, m.Feed().Len())

	// Now one source starts failing; the refresh must not clear the feed
	backend.imageHistoryErr = errors.New("boom")
	m = runCmd(t, m, loadHistoryCmd(backend))

	assert.Equal(t, 1, m.Feed().Len())
	assert.True(t, m.notices.HasNotices(), "a load failure notice should show")
}

// =============================================================================
// SUBMISSION TESTS
// =============================================================================

func TestSubmit_TextSuccess(t *testing.T) {
	backend := &stubBackend{reply: "hi there"}
	m := newTestModel(backend)

	m.composer.SetValue("hello")
	m, cmd := m.submit()

	// Exactly one temp entry appended, composer cleared
	require.Equal(t, 1, m.Feed().Len())
	entry := m.Feed().Entries()[0]
	assert.True(t, entry.Temp())
	assert.Equal(t, feed.KindText, entry.Kind)
	assert.Empty(t, m.ComposerValue())

	// Settlement populates the response in place; count unchanged
	m = runCmd(t, m, cmd)
	require.Equal(t, 1, m.Feed().Len())
	assert.Equal(t, "hi there", m.Feed().Get(entry.ID).Response)
	assert.Equal(t, 1, backend.sendCalls)
	assert.Equal(t, 0, backend.generateCalls)
	assert.False(t, m.notices.HasNotices())
}

func TestSubmit_ImagePrompt(t *testing.T) {
	backend := &stubBackend{imageRef: "data:image/jpeg;base64,abc"}
	m := newTestModel(backend)

	m.composer.SetValue("draw a cat")
	m, cmd := m.submit()

	entry := m.Feed().Entries()[0]
	assert.Equal(t, feed.KindImage, entry.Kind)

	m = runCmd(t, m, cmd)
	require.Equal(t, 1, m.Feed().Len())
	assert.Equal(t, "data:image/jpeg;base64,abc", m.Feed().Get(entry.ID).ImageRef)
	assert.Equal(t, 1, backend.generateCalls)
	assert.Equal(t, 0, backend.sendCalls)

	// A generated image gets an explicit success notice
	notices := m.notices.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Image generated successfully", notices[0].Detail)
}

func TestSubmit_FailureRollsBackAndRestoresInput(t *testing.T) {
	backend := &stubBackend{sendErr: errors.New("network down")}
	m := newTestModel(backend)

	m.composer.SetValue("hello")
	m, cmd := m.submit()
	require.Equal(t, 1, m.Feed().Len())

	m = runCmd(t, m, cmd)

	// Feed back at pre-submission length, the exact prompt restored
	assert.Equal(t, 0, m.Feed().Len())
	assert.Equal(t, "hello", m.ComposerValue())
	notices := m.notices.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Failed to send message", notices[0].Title)
}

func TestSubmit_ImageFailureNotice(t *testing.T) {
	backend := &stubBackend{generateErr: errors.New("model overloaded")}
	m := newTestModel(backend)

	m.composer.SetValue("draw a cat")
	m, cmd := m.submit()
	m = runCmd(t, m, cmd)

	assert.Equal(t, 0, m.Feed().Len())
	assert.Equal(t, "draw a cat", m.ComposerValue())
	notices := m.notices.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Failed to generate image", notices[0].Title)
}

func TestSubmit_EmptyInputRejectedLocally(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend)

	m.composer.SetValue("   ")
	m, cmd := m.submit()

	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Feed().Len())
	assert.Equal(t, 0, backend.sendCalls)
	assert.True(t, m.notices.HasNotices())
}

func TestSubmit_OutOfOrderSettlement(t *testing.T) {
	backend := &stubBackend{reply: "r"}
	m := newTestModel(backend)

	m.composer.SetValue("first")
	m, _ = m.submit()
	first := m.Feed().Entries()[0]

	m.composer.SetValue("second")
	m, _ = m.submit()
	second := m.Feed().Entries()[1]

	// The second response arrives before the first
	m, _ = m.Update(SettledMsg{TempID: second.ID, Kind: feed.KindText, Result: "reply-2"})
	m, _ = m.Update(SettledMsg{TempID: first.ID, Kind: feed.KindText, Result: "reply-1"})

	assert.Equal(t, "reply-1", m.Feed().Get(first.ID).Response)
	assert.Equal(t, "reply-2", m.Feed().Get(second.ID).Response)
}

// =============================================================================
// EDIT TESTS
// =============================================================================

func seedFeed(m Model, entries ...*feed.Entry) Model {
	m.feed.Replace(entries)
	return m
}

func TestEdit_TempIDRejectedLocally(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend)

	m.composer.SetValue("hello")
	m, _ = m.submit() // still pending, temp id

	entry := m.Feed().Entries()[0]
	m.mode = ModeEdit
	m.editID = entry.ID
	m.editInput.SetValue("edited")

	m, cmd := m.saveEdit()

	assert.Nil(t, cmd, "temp-id edits must not issue a network call")
	assert.Equal(t, 0, backend.updateCalls)
	assert.True(t, m.notices.HasNotices())
}

func TestEdit_SaveText(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend)
	m = seedFeed(m, &feed.Entry{ID: "m1", Kind: feed.KindText, Prompt: "hi", Response: "hello", CreatedAt: time.Unix(1, 0)})

	m.feed.StartEdit("m1")
	m.mode = ModeEdit
	m.editID = "m1"
	m.editInput.SetValue("hi there")

	m, cmd := m.saveEdit()
	m = runCmd(t, m, cmd)

	entry := m.Feed().Get("m1")
	assert.Equal(t, "hi there", entry.Prompt)
	assert.Equal(t, "regenerated", entry.Response)
	assert.False(t, entry.Editing)
	assert.Equal(t, 1, backend.updateCalls)
}

func TestEdit_FailureKeepsEditingState(t *testing.T) {
	backend := &stubBackend{updateErr: errors.New("rejected")}
	m := newTestModel(backend)
	m = seedFeed(m, &feed.Entry{ID: "m1", Kind: feed.KindText, Prompt: "hi", Response: "hello", CreatedAt: time.Unix(1, 0)})

	m.feed.StartEdit("m1")
	m.feed.SetDraft("m1", "hi there")
	m.mode = ModeEdit
	m.editID = "m1"
	m.editInput.SetValue("hi there")

	m, cmd := m.saveEdit()
	m = runCmd(t, m, cmd)

	// No rollback of the in-progress edit; the user can retry
	entry := m.Feed().Get("m1")
	assert.True(t, entry.Editing)
	assert.Equal(t, "hi there", entry.Draft)
	assert.Equal(t, "hi", entry.Prompt)
	assert.True(t, m.notices.HasNotices())
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDelete_TempEntryLocalOnly(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend)

	m.composer.SetValue("hello")
	m, _ = m.submit()
	entry := m.Feed().Entries()[0]

	m.deleteID = entry.ID
	m, cmd := m.confirmDelete()

	assert.Nil(t, cmd, "temp-id deletes must not issue a network call")
	assert.Equal(t, 0, m.Feed().Len())
	assert.Empty(t, backend.deleteTextIDs)
	assert.Empty(t, backend.deleteImgIDs)
}

func TestDelete_PersistedTextEntry(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend)
	m = seedFeed(m, &feed.Entry{ID: "m1", Kind: feed.KindText, Prompt: "hi", Response: "hello", CreatedAt: time.Unix(1, 0)})

	m.deleteID = "m1"
	m, cmd := m.confirmDelete()
	m = runCmd(t, m, cmd)

	assert.Equal(t, 0, m.Feed().Len())
	assert.Equal(t, []string{"m1"}, backend.deleteTextIDs)
	assert.Empty(t, backend.deleteImgIDs, "delete must be scoped to the entry's kind")
}

func TestDelete_PersistedImageEntry(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend)
	m = seedFeed(m, &feed.Entry{ID: "i1", Kind: feed.KindImage, Prompt: "a cat", ImageRef: "https://x/1.png", CreatedAt: time.Unix(1, 0)})

	m.deleteID = "i1"
	m, cmd := m.confirmDelete()
	m = runCmd(t, m, cmd)

	assert.Equal(t, 0, m.Feed().Len())
	assert.Equal(t, []string{"i1"}, backend.deleteImgIDs)
	assert.Empty(t, backend.deleteTextIDs)
}

func TestDelete_FailureLeavesEntryInPlace(t *testing.T) {
	backend := &stubBackend{deleteErr: errors.New("rejected")}
	m := newTestModel(backend)
	m = seedFeed(m, &feed.Entry{ID: "m1", Kind: feed.KindText, Prompt: "hi", Response: "hello", CreatedAt: time.Unix(1, 0)})

	m.deleteID = "m1"
	m, cmd := m.confirmDelete()
	m = runCmd(t, m, cmd)

	assert.Equal(t, 1, m.Feed().Len())
	assert.True(t, m.notices.HasNotices())
}
