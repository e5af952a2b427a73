// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen: the merged transcript of
// text and image history with optimistic submissions, inline edit, and
// confirmed delete.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kagmin23/aiapp-tui/internal/api"
	"github.com/kagmin23/aiapp-tui/internal/feed"
	"github.com/kagmin23/aiapp-tui/internal/ui/components"
	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// =============================================================================
// MODEL STATE
// =============================================================================

// Mode is the screen's interaction mode.
type Mode int

const (
	// ModeCompose has the composer focused; typing goes to the input.
	ModeCompose Mode = iota
	// ModeSelect moves a selection cursor over the transcript.
	ModeSelect
	// ModeEdit has the edit input focused on the selected entry.
	ModeEdit
	// ModeConfirmDelete shows the delete confirmation overlay.
	ModeConfirmDelete
)

// Model is the chat screen controller. It owns the feed for this screen
// session and sequences its state machine around the network commands.
type Model struct {
	theme   *styles.Theme
	backend Backend

	feed    *feed.Feed
	notices *components.NoticeManager

	viewport  viewport.Model
	composer  textinput.Model
	editInput textinput.Model
	spinner   spinner.Model

	mode     Mode
	selected int    // Transcript cursor, index into feed entries
	editID   string // Entry being edited in ModeEdit
	deleteID string // Entry awaiting confirmation in ModeConfirmDelete

	loading  bool // History fetch outstanding
	inflight int  // Submissions outstanding

	width  int
	height int
	ready  bool
}

// New creates the chat screen.
func New(theme *styles.Theme, backend Backend, maxInputLength int) Model {
	composer := textinput.New()
	composer.Placeholder = "Type a message, or ask for an image..."
	composer.CharLimit = maxInputLength
	composer.Focus()

	editInput := textinput.New()
	editInput.CharLimit = maxInputLength

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:     theme,
		backend:   backend,
		feed:      feed.New(),
		notices:   components.NewNoticeManager(),
		composer:  composer,
		editInput: editInput,
		spinner:   sp,
		selected:  -1,
		loading:   true,
	}
}

// Init starts the first history load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadHistoryCmd(m.backend),
		m.spinner.Tick,
		components.NoticeTickCmd(),
		textinput.Blink,
	)
}

// Feed exposes the feed for tests.
func (m Model) Feed() *feed.Feed {
	return m.feed
}

// ComposerValue exposes the composer text for tests.
func (m Model) ComposerValue() string {
	return m.composer.Value()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the state machine.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HistoryLoadedMsg:
		m.loading = false
		m.feed.Replace(msg.Entries)
		m.clampSelection()
		m.refreshTranscript(true)
		return m, nil

	case HistoryFailedMsg:
		m.loading = false
		m.notices.Error("Error loading history", api.ErrorMessage(msg.Err))
		return m, nil

	case SettledMsg:
		m.inflight--
		if m.feed.Settle(msg.TempID, msg.Result) {
			m.refreshTranscript(true)
		}
		if msg.Kind == feed.KindImage {
			m.notices.Success("Success", "Image generated successfully")
		}
		return m, nil

	case SubmitFailedMsg:
		m.inflight--
		if prompt, ok := m.feed.Rollback(msg.TempID); ok {
			// Restore the prompt so the user can retry without retyping
			m.composer.SetValue(prompt)
			m.composer.CursorEnd()
			m.clampSelection()
			m.refreshTranscript(false)
		}
		title := "Failed to send message"
		if msg.Kind == feed.KindImage {
			title = "Failed to generate image"
		}
		m.notices.Error(title, api.ErrorMessage(msg.Err))
		return m, nil

	case UpdateDoneMsg:
		if m.feed.ApplyUpdate(msg.ID, msg.Prompt, msg.Result) {
			m.refreshTranscript(false)
		}
		if m.mode == ModeEdit && m.editID == msg.ID {
			m.exitEdit()
		}
		m.notices.Success("Success", "Message updated")
		return m, nil

	case UpdateFailedMsg:
		// Editing state stays; the draft is not rolled back
		m.notices.Error("Error", api.ErrorMessage(msg.Err))
		return m, nil

	case DeleteDoneMsg:
		if m.feed.Remove(msg.ID) {
			m.clampSelection()
			m.refreshTranscript(false)
		}
		m.notices.Success("Deleted", "Message removed")
		return m, nil

	case DeleteFailedMsg:
		// Entry stays in the feed
		m.notices.Error("Error", api.ErrorMessage(msg.Err))
		return m, nil

	case components.NoticeTickMsg:
		m.notices.Tick()
		return m, components.NoticeTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards remaining messages to whichever input is
// focused.
func (m Model) updateFocusedInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case ModeCompose:
		m.composer, cmd = m.composer.Update(msg)
	case ModeEdit:
		m.editInput, cmd = m.editInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 1
	inputHeight := 3
	vpHeight := msg.Height - headerHeight - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.composer.Width = msg.Width - 6
	m.editInput.Width = msg.Width - 10

	m.refreshTranscript(false)
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeSelect:
		return m.handleSelectKey(msg)
	default:
		return m.handleComposeKey(msg)
	}
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()

	case "ctrl+r":
		m.loading = true
		return m, loadHistoryCmd(m.backend)

	case "esc":
		// Move focus to the transcript
		if m.feed.Len() > 0 {
			m.mode = ModeSelect
			m.selected = m.feed.Len() - 1
			m.composer.Blur()
			m.refreshTranscript(false)
		}
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) handleSelectKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "i":
		m.mode = ModeCompose
		m.selected = -1
		m.composer.Focus()
		m.refreshTranscript(false)
		return m, textinput.Blink

	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.refreshTranscript(false)
		}
		return m, nil

	case "down", "j":
		if m.selected < m.feed.Len()-1 {
			m.selected++
			m.refreshTranscript(false)
		}
		return m, nil

	case "e":
		return m.startEdit()

	case "d":
		return m.requestDelete()

	case "ctrl+r":
		m.loading = true
		return m, loadHistoryCmd(m.backend)
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.saveEdit()

	case "esc":
		m.feed.CancelEdit(m.editID)
		m.exitEdit()
		m.refreshTranscript(false)
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.feed.SetDraft(m.editID, m.editInput.Value())
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m.confirmDelete()

	case "n", "esc":
		m.deleteID = ""
		m.mode = ModeSelect
		return m, nil
	}
	return m, nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// submit runs the Submit transition: classify, append a temp entry,
// clear the composer, and issue the matching generation call.
func (m Model) submit() (Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.composer.Value())
	if prompt == "" {
		m.notices.Info("Notification", "Please enter a message")
		return m, nil
	}

	entry := m.feed.Submit(prompt)
	m.composer.SetValue("")
	m.inflight++
	m.refreshTranscript(true)

	return m, submitCmd(m.backend, entry)
}

// startEdit enters edit mode on the selected entry.
func (m Model) startEdit() (Model, tea.Cmd) {
	entry := m.selectedEntry()
	if entry == nil {
		return m, nil
	}
	if entry.Pending() {
		m.notices.Info("Notification", "Message is still generating")
		return m, nil
	}

	m.feed.StartEdit(entry.ID)
	m.mode = ModeEdit
	m.editID = entry.ID
	m.editInput.SetValue(entry.Prompt)
	m.editInput.CursorEnd()
	m.editInput.Focus()
	m.refreshTranscript(false)
	return m, textinput.Blink
}

// saveEdit runs the Edit save transition. Temp ids are rejected locally
// with no network call: the entry was never persisted, so there is
// nothing to update on the server.
func (m Model) saveEdit() (Model, tea.Cmd) {
	entry := m.feed.Get(m.editID)
	if entry == nil {
		m.exitEdit()
		return m, nil
	}

	if feed.IsTempID(entry.ID) {
		m.notices.Error("Error", "Cannot edit an unsent message")
		return m, nil
	}

	prompt := strings.TrimSpace(m.editInput.Value())
	if prompt == "" {
		m.notices.Info("Notification", "Please enter a message")
		return m, nil
	}

	return m, updateCmd(m.backend, entry.ID, entry.Kind, prompt)
}

func (m *Model) exitEdit() {
	m.editID = ""
	m.editInput.Blur()
	m.editInput.SetValue("")
	m.mode = ModeSelect
}

// requestDelete opens the confirmation overlay. The actual transition
// runs only after the user confirms.
func (m Model) requestDelete() (Model, tea.Cmd) {
	entry := m.selectedEntry()
	if entry == nil {
		return m, nil
	}
	m.deleteID = entry.ID
	m.mode = ModeConfirmDelete
	return m, nil
}

// confirmDelete runs the Delete transition. Temp entries are removed
// locally with zero network calls; persisted entries get the
// kind-scoped delete call and are removed only on success.
func (m Model) confirmDelete() (Model, tea.Cmd) {
	id := m.deleteID
	m.deleteID = ""
	m.mode = ModeSelect

	entry := m.feed.Get(id)
	if entry == nil {
		return m, nil
	}

	if feed.IsTempID(id) {
		m.feed.Remove(id)
		m.clampSelection()
		m.refreshTranscript(false)
		m.notices.Success("Deleted", "Message removed")
		return m, nil
	}

	return m, deleteCmd(m.backend, id, entry.Kind)
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) selectedEntry() *feed.Entry {
	entries := m.feed.Entries()
	if m.selected < 0 || m.selected >= len(entries) {
		return nil
	}
	return entries[m.selected]
}

func (m *Model) clampSelection() {
	if m.selected >= m.feed.Len() {
		m.selected = m.feed.Len() - 1
	}
	if m.feed.Len() == 0 {
		m.selected = -1
		if m.mode == ModeSelect {
			m.mode = ModeCompose
			m.composer.Focus()
		}
	}
}

// refreshTranscript re-renders the viewport content. gotoBottom scrolls
// to the newest entry, used when something was appended.
func (m *Model) refreshTranscript(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
