// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the aiapp TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar shown on every screen.
type Header struct {
	Title   string // Main title (default: "aiapp")
	Screen  string // Current screen name
	Account string // Signed-in account email, empty when signed out
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "aiapp",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetScreen updates the current screen name.
func (h *Header) SetScreen(screen string) {
	h.Screen = screen
}

// SetAccount updates the signed-in account display.
func (h *Header) SetAccount(account string) {
	h.Account = account
}

// Render draws the header bar: brand and screen on the left, account on
// the right, padded to the full width.
func (h *Header) Render() string {
	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Screen != "" {
		left += h.theme.HeaderSubtitle.Render(" " + h.Screen)
	}

	right := ""
	if h.Account != "" {
		right = h.theme.HeaderSubtitle.Render(h.Account)
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(h.Width).Render(bar)
}
