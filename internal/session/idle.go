// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultIdleTimeout is how long without input before the app signs the
// user out. Zero disables the timer.
const DefaultIdleTimeout = 30 * time.Minute

// TimeoutMsg signals that the session idled out. The root model signs
// the user out and returns to the sign-in form.
type TimeoutMsg struct {
	Idle time.Duration
}

// IdleTimer tracks user activity for the auto-sign-out.
type IdleTimer struct {
	mu           sync.Mutex
	timeout      time.Duration
	lastActivity time.Time
}

// NewIdleTimer creates a timer. A zero or negative timeout disables it.
func NewIdleTimer(timeout time.Duration) *IdleTimer {
	return &IdleTimer{
		timeout:      timeout,
		lastActivity: time.Now(),
	}
}

// Touch records user activity.
func (t *IdleTimer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = time.Now()
}

// Idle returns how long since the last activity.
func (t *IdleTimer) Idle() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.lastActivity)
}

// Expired reports whether the idle timeout has elapsed.
func (t *IdleTimer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeout > 0 && time.Since(t.lastActivity) >= t.timeout
}

// TickCmd returns a command that checks the timer once per minute and
// emits TimeoutMsg when it expires. The root model re-arms it on every
// tick that does not expire.
func (t *IdleTimer) TickCmd() tea.Cmd {
	if t.timeout <= 0 {
		return nil
	}
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		if t.Expired() {
			return TimeoutMsg{Idle: t.Idle()}
		}
		return IdleTickMsg{}
	})
}

// IdleTickMsg is the non-expired tick; the root model re-arms on it.
type IdleTickMsg struct{}
