// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package camera implements the captures screen: local files from the
// watched captures directory on one side, uploaded photos on the other.
package camera

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kagmin23/aiapp-tui/internal/api"
	"github.com/kagmin23/aiapp-tui/internal/camera"
	"github.com/kagmin23/aiapp-tui/internal/ui/components"
	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
	"github.com/kagmin23/aiapp-tui/internal/util"
)

// Backend is the photo API surface. *api.Client satisfies it.
type Backend interface {
	UploadPhoto(ctx context.Context, base64Data string) (*api.Photo, error)
	Photos(ctx context.Context) ([]api.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// CaptureAppearedMsg announces a new file from the directory watcher.
type CaptureAppearedMsg struct {
	Capture camera.Capture
}

// photosLoadedMsg delivers the uploaded photo list.
type photosLoadedMsg struct {
	Photos []api.Photo
}

// uploadDoneMsg reports a finished upload.
type uploadDoneMsg struct {
	Photo *api.Photo
}

// photoDeletedMsg reports a finished remote delete.
type photoDeletedMsg struct {
	ID string
}

// opFailedMsg reports any failed camera operation.
type opFailedMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// pane selects which list has focus.
type pane int

const (
	paneLocal pane = iota
	paneUploaded
)

// Model is the captures screen controller.
type Model struct {
	theme   *styles.Theme
	backend Backend
	notices *components.NoticeManager

	capturesDir string
	local       []camera.Capture
	uploaded    []api.Photo

	focus    pane
	selected int
	busy     bool

	width  int
	height int
}

// New creates the captures screen.
func New(theme *styles.Theme, backend Backend, capturesDir string) Model {
	return Model{
		theme:       theme,
		backend:     backend,
		notices:     components.NewNoticeManager(),
		capturesDir: capturesDir,
	}
}

// Init scans the captures directory and loads the uploaded photos.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanCmd(),
		m.loadPhotosCmd(),
		components.NoticeTickCmd(),
	)
}

func (m Model) scanCmd() tea.Cmd {
	dir := m.capturesDir
	return func() tea.Msg {
		captures, err := camera.List(dir)
		if err != nil {
			return opFailedMsg{Err: err}
		}
		return localScannedMsg{Captures: captures}
	}
}

// localScannedMsg delivers a fresh directory scan.
type localScannedMsg struct {
	Captures []camera.Capture
}

func (m Model) loadPhotosCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		photos, err := backend.Photos(context.Background())
		if err != nil {
			return opFailedMsg{Err: err}
		}
		return photosLoadedMsg{Photos: photos}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages for the captures screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CaptureAppearedMsg:
		// Prepend; the watcher announces newest captures as they settle
		m.local = append([]camera.Capture{msg.Capture}, m.local...)
		m.notices.Info("New capture", msg.Capture.Name)
		return m, nil

	case localScannedMsg:
		m.local = msg.Captures
		m.clampSelection()
		return m, nil

	case photosLoadedMsg:
		m.uploaded = msg.Photos
		m.clampSelection()
		return m, nil

	case uploadDoneMsg:
		m.busy = false
		m.notices.Success("Uploaded", "Photo saved to your library")
		return m, m.loadPhotosCmd()

	case photoDeletedMsg:
		m.busy = false
		for i, p := range m.uploaded {
			if p.ID == msg.ID {
				m.uploaded = append(m.uploaded[:i], m.uploaded[i+1:]...)
				break
			}
		}
		m.clampSelection()
		m.notices.Success("Deleted", "Photo removed")
		return m, nil

	case opFailedMsg:
		m.busy = false
		m.notices.Error("Error", api.ErrorMessage(msg.Err))
		return m, nil

	case components.NoticeTickMsg:
		m.notices.Tick()
		return m, components.NoticeTickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "left", "right", "h", "l":
		if m.focus == paneLocal {
			m.focus = paneUploaded
		} else {
			m.focus = paneLocal
		}
		m.selected = 0
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < m.listLen()-1 {
			m.selected++
		}
		return m, nil

	case "enter", "u":
		if m.focus == paneLocal {
			return m.upload()
		}
		return m, nil

	case "d":
		if m.focus == paneUploaded {
			return m.deletePhoto()
		}
		return m, nil

	case "r":
		return m, tea.Batch(m.scanCmd(), m.loadPhotosCmd())
	}

	return m, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// upload encodes the selected capture and sends it.
func (m Model) upload() (Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.local) {
		return m, nil
	}
	capture := m.local[m.selected]

	m.busy = true
	backend := m.backend
	return m, func() tea.Msg {
		data, err := camera.Encode(capture.Path)
		if err != nil {
			return opFailedMsg{Err: err}
		}
		photo, err := backend.UploadPhoto(context.Background(), data)
		if err != nil {
			return opFailedMsg{Err: err}
		}
		return uploadDoneMsg{Photo: photo}
	}
}

// deletePhoto removes the selected uploaded photo.
func (m Model) deletePhoto() (Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.uploaded) {
		return m, nil
	}
	photo := m.uploaded[m.selected]

	m.busy = true
	backend := m.backend
	return m, func() tea.Msg {
		if err := backend.DeletePhoto(context.Background(), photo.ID); err != nil {
			return opFailedMsg{Err: err}
		}
		return photoDeletedMsg{ID: photo.ID}
	}
}

func (m *Model) listLen() int {
	if m.focus == paneLocal {
		return len(m.local)
	}
	return len(m.uploaded)
}

func (m *Model) clampSelection() {
	if m.selected >= m.listLen() {
		m.selected = m.listLen() - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the two panes side by side.
func (m Model) View() string {
	paneWidth := m.width/2 - 4
	if paneWidth < 24 {
		paneWidth = 24
	}

	localLines := []string{m.theme.FormTitle.Render("Captures")}
	if len(m.local) == 0 {
		localLines = append(localLines,
			m.theme.FormHint.Render("Drop images into "+m.capturesDir))
	}
	for i, c := range m.local {
		line := fmt.Sprintf("%s  %s", c.Name, formatSize(c.Size))
		localLines = append(localLines, m.renderItem(line, paneWidth, m.focus == paneLocal && i == m.selected))
	}

	uploadedLines := []string{m.theme.FormTitle.Render("Uploaded")}
	if len(m.uploaded) == 0 {
		uploadedLines = append(uploadedLines, m.theme.FormHint.Render("Nothing uploaded yet"))
	}
	for i, p := range m.uploaded {
		label := p.CreatedAt.Format("2006-01-02 15:04")
		if p.ImageURL != "" {
			label += "  " + util.TruncateRunes(p.ImageURL, paneWidth-20)
		}
		uploadedLines = append(uploadedLines, m.renderItem(label, paneWidth, m.focus == paneUploaded && i == m.selected))
	}

	left := lipgloss.NewStyle().Width(paneWidth).Render(strings.Join(localLines, "\n"))
	right := lipgloss.NewStyle().Width(paneWidth).Render(strings.Join(uploadedLines, "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	hint := " " + m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" switch pane  ") +
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" upload  ") +
		m.theme.ShortcutKey.Render("d") + m.theme.ShortcutDesc.Render(" delete  ") +
		m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh")

	out := body + "\n\n" + hint

	if m.notices.HasNotices() {
		toast := components.RenderNoticeStack(m.notices.Notices(), m.width, m.height)
		if toast != "" {
			out += "\n" + toast
		}
	}
	return out
}

func (m *Model) renderItem(label string, width int, selected bool) string {
	label = util.TruncateWidth(label, width)
	if selected {
		return m.theme.EntrySelected.Render("> " + label)
	}
	return "  " + label
}

// formatSize renders a byte count compactly.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
