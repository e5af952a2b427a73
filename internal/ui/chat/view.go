// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen: the merged transcript of
// text and image history with optimistic submissions, inline edit, and
// confirmed delete.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kagmin23/aiapp-tui/internal/config"
	"github.com/kagmin23/aiapp-tui/internal/feed"
	"github.com/kagmin23/aiapp-tui/internal/ui/components"
	"github.com/kagmin23/aiapp-tui/internal/util"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderInputArea())

	base := b.String()

	if m.mode == ModeConfirmDelete {
		return m.overlayCentered(base, m.renderDeleteConfirm())
	}

	if m.notices.HasNotices() {
		toast := components.RenderNoticeStack(m.notices.Notices(), m.width, m.height)
		if toast != "" {
			return base + "\n" + toast
		}
	}

	return base
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the whole feed, oldest first.
func (m *Model) renderTranscript() string {
	entries := m.feed.Entries()
	if len(entries) == 0 {
		if m.loading {
			return m.theme.ThinkingText.Render("\n  Loading history...")
		}
		return m.theme.ThinkingText.Render("\n  No messages yet. Say hello, or ask for an image.")
	}

	var b strings.Builder
	for i, entry := range entries {
		b.WriteString(m.renderEntry(entry, i == m.selected && m.mode != ModeCompose))
		b.WriteString("\n")
	}
	return b.String()
}

// renderEntry renders one prompt/response pair.
func (m *Model) renderEntry(entry *feed.Entry, selected bool) string {
	width := m.width - 8
	if width < 20 {
		width = 20
	}

	var b strings.Builder

	// The user's prompt, right-aligned like a sent message
	prompt := entry.Prompt
	if entry.Editing && m.mode == ModeEdit && m.editID == entry.ID {
		prompt = m.editInput.View()
	}
	userLine := m.theme.UserBubble.MaxWidth(width).Render(prompt)
	if selected {
		marker := m.theme.EntrySelected.Render("> ")
		userLine = marker + userLine
	}
	b.WriteString(lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(userLine))
	b.WriteString("\n")

	if cfg := config.Global(); cfg != nil && cfg.UI.ShowTimestamps && !entry.CreatedAt.IsZero() {
		ts := m.theme.EntryTimestamp.Render(entry.CreatedAt.Local().Format("Jan 2 15:04"))
		b.WriteString(lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(ts))
		b.WriteString("\n")
	}

	// The response side
	switch {
	case entry.Pending():
		label := "thinking"
		if entry.Kind == feed.KindImage {
			label = "generating image"
		}
		b.WriteString(m.theme.PendingEntry.Render("  " + m.spinner.View() + " " + label + "..."))

	case entry.Kind == feed.KindImage:
		b.WriteString(m.theme.ImageBubble.MaxWidth(width).Render(describeImageRef(entry.ImageRef)))

	default:
		b.WriteString(m.theme.AssistantBubble.MaxWidth(width).Render(m.renderMarkdown(entry.Response)))
	}
	b.WriteString("\n")

	return b.String()
}

// renderMarkdown renders an assistant reply through glamour, falling
// back to the raw text when rendering fails.
func (m *Model) renderMarkdown(text string) string {
	width := m.width - 16
	if width < 20 {
		width = 20
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// describeImageRef summarizes an image reference for the transcript.
// Terminals don't draw bitmaps, so data URIs collapse to a size label
// and URLs are shown for opening elsewhere.
func describeImageRef(ref string) string {
	if strings.HasPrefix(ref, "data:image/") {
		return fmt.Sprintf("[image] inline, %d KB encoded", len(ref)/1024)
	}
	return "[image] " + util.TruncateRunes(ref, 120)
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m *Model) renderInputArea() string {
	var hint string
	switch m.mode {
	case ModeSelect:
		hint = m.renderShortcuts("j/k", "navigate", "e", "edit", "d", "delete", "esc", "compose")
	case ModeEdit:
		hint = m.renderShortcuts("enter", "save", "esc", "cancel")
	default:
		hint = m.renderShortcuts("enter", "send", "esc", "select", "ctrl+r", "refresh")
	}

	line := m.theme.InputPrompt.Render("> ") + m.composer.View()
	if m.inflight > 0 {
		line += "  " + m.theme.ThinkingText.Render(m.spinner.View())
	}

	return m.theme.InputContainer.Width(m.width).Render(line) + "\n" + hint
}

// renderShortcuts renders key/description pairs for the status line.
func (m *Model) renderShortcuts(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts,
			m.theme.ShortcutKey.Render(pairs[i])+" "+m.theme.ShortcutDesc.Render(pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// =============================================================================
// DELETE CONFIRMATION OVERLAY
// =============================================================================

func (m *Model) renderDeleteConfirm() string {
	entry := m.feed.Get(m.deleteID)
	subject := "this message"
	if entry != nil && entry.Kind == feed.KindImage {
		subject = "this image"
	}

	title := m.theme.OverlayTitle.Render("Delete " + subject + "?")
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.OverlayButtonDanger.Render("[y] Delete"),
		"  ",
		m.theme.OverlayButton.Render("[n] Cancel"),
	)

	return m.theme.OverlayBox.Render(title + "\n\n" + buttons)
}

// overlayCentered places the overlay in the middle of the screen.
func (m *Model) overlayCentered(base, overlay string) string {
	_ = base
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		overlay,
	)
}
