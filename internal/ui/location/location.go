// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package location implements the location screen: approximate position
// resolved by IP lookup (or a config override) with an ASCII coordinate
// readout instead of a map tile.
package location

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kagmin23/aiapp-tui/internal/location"
	"github.com/kagmin23/aiapp-tui/internal/ui/components"
	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// resolvedMsg delivers the position.
type resolvedMsg struct {
	Position *location.Position
}

// resolveFailedMsg reports a failed lookup.
type resolveFailedMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the location screen controller.
type Model struct {
	theme    *styles.Theme
	resolver *location.Resolver
	notices  *components.NoticeManager

	position *location.Position
	loading  bool

	width  int
	height int
}

// New creates the location screen.
func New(theme *styles.Theme, resolver *location.Resolver) Model {
	return Model{
		theme:    theme,
		resolver: resolver,
		notices:  components.NewNoticeManager(),
		loading:  true,
	}
}

// Init starts the first lookup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.resolveCmd(), components.NoticeTickCmd())
}

func (m Model) resolveCmd() tea.Cmd {
	resolver := m.resolver
	return func() tea.Msg {
		pos, err := resolver.Resolve(context.Background())
		if err != nil {
			return resolveFailedMsg{Err: err}
		}
		return resolvedMsg{Position: pos}
	}
}

// Update routes messages for the location screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.resolveCmd()
		}
		return m, nil

	case resolvedMsg:
		m.loading = false
		m.position = msg.Position
		return m, nil

	case resolveFailedMsg:
		m.loading = false
		m.notices.Error("Error", msg.Err.Error())
		return m, nil

	case components.NoticeTickMsg:
		m.notices.Tick()
		return m, components.NoticeTickCmd()
	}

	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the position readout.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Your location"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.ThinkingText.Render("Resolving..."))

	case m.position == nil:
		b.WriteString(m.theme.FormHint.Render("Location unavailable. Press r to retry."))

	default:
		b.WriteString(m.theme.FormLabel.Render("Place      "))
		b.WriteString(m.position.Place())
		b.WriteString("\n")
		b.WriteString(m.theme.FormLabel.Render("Latitude   "))
		b.WriteString(fmt.Sprintf("%.4f", m.position.Latitude))
		b.WriteString("\n")
		b.WriteString(m.theme.FormLabel.Render("Longitude  "))
		b.WriteString(fmt.Sprintf("%.4f", m.position.Longitude))
		b.WriteString("\n")
		b.WriteString(m.theme.FormLabel.Render("Source     "))
		b.WriteString(m.position.Source)
	}

	b.WriteString("\n\n")
	b.WriteString(" " + m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh"))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		box = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	if m.notices.HasNotices() {
		toast := components.RenderNoticeStack(m.notices.Notices(), m.width, m.height)
		if toast != "" {
			return box + "\n" + toast
		}
	}
	return box
}
