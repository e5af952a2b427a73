// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the aiapp TUI.
//
// This file implements non-blocking notice toasts. Unlike modal dialogs,
// toasts appear in the bottom-right corner and auto-dismiss, so the user
// keeps typing while success and failure notices come and go.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// =============================================================================
// NOTICE TYPES
// =============================================================================

// Severity classifies a notice.
type Severity int

const (
	// SeverityInfo is an informational notice (cyan)
	SeverityInfo Severity = iota
	// SeverityError is a failure notice (rose)
	SeverityError
	// SeverityWarning is a caution notice (amber)
	SeverityWarning
	// SeveritySuccess is a confirmation notice (emerald)
	SeveritySuccess
)

// InfoDuration is the auto-dismiss duration for info and success notices.
const InfoDuration = 4 * time.Second

// ErrorDuration is the auto-dismiss duration for error notices (longer to read).
const ErrorDuration = 8 * time.Second

// WarningDuration is the auto-dismiss duration for warning notices.
const WarningDuration = 6 * time.Second

// Notice is one user-visible (severity, title, detail) notification.
type Notice struct {
	ID        int
	Severity  Severity
	Title     string
	Detail    string
	CreatedAt time.Time
	Duration  time.Duration
}

// NewNotice creates a notice with the duration implied by its severity.
func NewNotice(severity Severity, title, detail string) Notice {
	duration := InfoDuration
	switch severity {
	case SeverityError:
		duration = ErrorDuration
	case SeverityWarning:
		duration = WarningDuration
	}
	return Notice{
		Severity:  severity,
		Title:     title,
		Detail:    detail,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
}

// Expired reports whether the notice should be dismissed.
func (n *Notice) Expired() bool {
	return time.Since(n.CreatedAt) >= n.Duration
}

// =============================================================================
// NOTICE MANAGER
// =============================================================================

// NoticeManager holds the active notices for one screen.
type NoticeManager struct {
	mu         sync.Mutex
	notices    []Notice
	nextID     int
	maxNotices int
}

// NewNoticeManager creates an empty manager.
func NewNoticeManager() *NoticeManager {
	return &NoticeManager{
		nextID:     1,
		maxNotices: 5, // Maximum visible at once
	}
}

// Add inserts a notice, newest first, and returns its id.
func (m *NoticeManager) Add(notice Notice) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if notice.ID == 0 {
		notice.ID = m.nextID
		m.nextID++
	}

	m.notices = append([]Notice{notice}, m.notices...)
	if len(m.notices) > m.maxNotices {
		m.notices = m.notices[:m.maxNotices]
	}
	return notice.ID
}

// Info adds an informational notice.
func (m *NoticeManager) Info(title, detail string) int {
	return m.Add(NewNotice(SeverityInfo, title, detail))
}

// Error adds a failure notice.
func (m *NoticeManager) Error(title, detail string) int {
	return m.Add(NewNotice(SeverityError, title, detail))
}

// Warning adds a caution notice.
func (m *NoticeManager) Warning(title, detail string) int {
	return m.Add(NewNotice(SeverityWarning, title, detail))
}

// Success adds a confirmation notice.
func (m *NoticeManager) Success(title, detail string) int {
	return m.Add(NewNotice(SeveritySuccess, title, detail))
}

// Remove dismisses a notice by id.
func (m *NoticeManager) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.notices {
		if n.ID == id {
			m.notices = append(m.notices[:i], m.notices[i+1:]...)
			return
		}
	}
}

// Tick drops expired notices and returns the remaining ones. Called on
// every NoticeTickMsg.
func (m *NoticeManager) Tick() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.notices[:0]
	for _, n := range m.notices {
		if !n.Expired() {
			active = append(active, n)
		}
	}
	m.notices = active

	result := make([]Notice, len(m.notices))
	copy(result, m.notices)
	return result
}

// Notices returns a copy of the active notices.
func (m *NoticeManager) Notices() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Notice, len(m.notices))
	copy(result, m.notices)
	return result
}

// HasNotices reports whether anything is showing.
func (m *NoticeManager) HasNotices() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notices) > 0
}

// Clear removes all notices.
func (m *NoticeManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = nil
}

// =============================================================================
// NOTICE MESSAGES
// =============================================================================

// NoticeTickMsg is sent periodically to expire notices.
type NoticeTickMsg struct {
	Time time.Time
}

// NoticeTickCmd returns a command that ticks notices every 100ms.
func NoticeTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return NoticeTickMsg{Time: t}
	})
}

// =============================================================================
// NOTICE RENDERING
// =============================================================================

// RenderNotice renders a single notice box.
func RenderNotice(notice Notice, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var accent lipgloss.AdaptiveColor
	var icon string
	switch notice.Severity {
	case SeverityError:
		accent = styles.Rose
		icon = styles.StatusIndicators.Error
	case SeverityWarning:
		accent = styles.Amber
		icon = styles.StatusIndicators.Warning
	case SeveritySuccess:
		accent = styles.Emerald
		icon = styles.StatusIndicators.Success
	default:
		accent = styles.Cyan
		icon = styles.StatusIndicators.Info
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	content := titleStyle.Render(icon + " " + notice.Title)
	if notice.Detail != "" {
		detailStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimary)
		content += "\n" + detailStyle.Render(wrapText(notice.Detail, maxWidth-6))
	}

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return box.Render(content)
}

// RenderNoticeStack renders the active notices stacked in the
// bottom-right corner, newest at the bottom.
func RenderNoticeStack(notices []Notice, width, height int) string {
	if len(notices) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(notices))
	for _, n := range notices {
		rendered = append(rendered, RenderNotice(n, width))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	positioned := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(stack)

	if width > 0 && height > 0 {
		return lipgloss.Place(
			width, height,
			lipgloss.Right, lipgloss.Bottom,
			positioned,
		)
	}
	return positioned
}

// wrapText performs simple word wrapping.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case line.Len()+1+len(word) <= maxWidth:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
