// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the sign-in, registration, and forgot-password
// screens. These are plain forms over the auth endpoints; a successful
// login or registration hands the credentials to the root model.
package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kagmin23/aiapp-tui/internal/api"
	"github.com/kagmin23/aiapp-tui/internal/ui/components"
	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS AND MESSAGES
// =============================================================================

// Screen selects which auth form is showing.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenForgot
)

// Backend is the auth API surface. *api.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*api.AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
}

// SignedInMsg reports a successful login or registration to the root
// model, which stores the session and switches to the chat screen.
type SignedInMsg struct {
	Result *api.AuthResult
}

// authFailedMsg reports a rejected auth call.
type authFailedMsg struct {
	Err error
}

// resetSentMsg reports a successful forgot-password request.
type resetSentMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the auth screen controller. Field layout per screen:
// login is email, password; register is name, email, password, confirm;
// forgot is email only.
type Model struct {
	theme   *styles.Theme
	backend Backend
	notices *components.NoticeManager

	screen  Screen
	fields  []textinput.Model
	focused int
	busy    bool

	width  int
	height int
}

// New creates the auth controller showing the login form.
func New(theme *styles.Theme, backend Backend) Model {
	m := Model{
		theme:   theme,
		backend: backend,
		notices: components.NewNoticeManager(),
	}
	m.setScreen(ScreenLogin)
	return m
}

// Init starts the notice ticker and cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(components.NoticeTickCmd(), textinput.Blink)
}

// Screen returns the current form.
func (m Model) Screen() Screen {
	return m.screen
}

// setScreen rebuilds the form fields for the given screen.
func (m *Model) setScreen(screen Screen) {
	m.screen = screen
	m.focused = 0
	m.busy = false

	newField := func(placeholder string, secret bool) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 200
		if secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		return ti
	}

	switch screen {
	case ScreenRegister:
		m.fields = []textinput.Model{
			newField("Name", false),
			newField("Email", false),
			newField("Password", true),
			newField("Confirm password", true),
		}
	case ScreenForgot:
		m.fields = []textinput.Model{
			newField("Email", false),
		}
	default:
		m.fields = []textinput.Model{
			newField("Email", false),
			newField("Password", true),
		}
	}
	m.fields[0].Focus()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages for the auth screens.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case authFailedMsg:
		m.busy = false
		m.notices.Error("Error", api.ErrorMessage(msg.Err))
		return m, nil

	case resetSentMsg:
		m.busy = false
		m.notices.Success("Email sent", "Check your inbox for the reset link")
		m.setScreen(ScreenLogin)
		return m, nil

	case components.NoticeTickMsg:
		m.notices.Tick()
		return m, components.NoticeTickCmd()
	}

	return m.updateFields(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.focusField(m.focused + 1)
		return m, nil

	case "shift+tab", "up":
		m.focusField(m.focused - 1)
		return m, nil

	case "enter":
		if m.focused < len(m.fields)-1 {
			m.focusField(m.focused + 1)
			return m, nil
		}
		return m.submit()

	case "ctrl+n":
		// Cycle login -> register -> forgot -> login
		m.setScreen((m.screen + 1) % 3)
		return m, nil
	}

	return m.updateFields(msg)
}

func (m *Model) focusField(i int) {
	if i < 0 {
		i = len(m.fields) - 1
	}
	if i >= len(m.fields) {
		i = 0
	}
	m.fields[m.focused].Blur()
	m.focused = i
	m.fields[m.focused].Focus()
}

func (m Model) updateFields(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.fields[m.focused], cmd = m.fields[m.focused].Update(msg)
	return m, cmd
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	switch m.screen {
	case ScreenRegister:
		return m.submitRegister()
	case ScreenForgot:
		return m.submitForgot()
	default:
		return m.submitLogin()
	}
}

func (m Model) submitLogin() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.fields[0].Value())
	password := m.fields[1].Value()
	if email == "" || password == "" {
		m.notices.Info("Notification", "Please enter email and password")
		return m, nil
	}

	m.busy = true
	backend := m.backend
	return m, func() tea.Msg {
		result, err := backend.Login(context.Background(), email, password)
		if err != nil {
			return authFailedMsg{Err: err}
		}
		return SignedInMsg{Result: result}
	}
}

func (m Model) submitRegister() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.fields[0].Value())
	email := strings.TrimSpace(m.fields[1].Value())
	password := m.fields[2].Value()
	confirm := m.fields[3].Value()

	if name == "" || email == "" || password == "" {
		m.notices.Info("Notification", "Please fill in all fields")
		return m, nil
	}
	if password != confirm {
		m.notices.Error("Error", "Passwords do not match")
		return m, nil
	}

	m.busy = true
	backend := m.backend
	return m, func() tea.Msg {
		result, err := backend.Register(context.Background(), name, email, password)
		if err != nil {
			return authFailedMsg{Err: err}
		}
		return SignedInMsg{Result: result}
	}
}

func (m Model) submitForgot() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.fields[0].Value())
	if email == "" {
		m.notices.Info("Notification", "Please enter your email")
		return m, nil
	}

	m.busy = true
	backend := m.backend
	return m, func() tea.Msg {
		if err := backend.ForgotPassword(context.Background(), email); err != nil {
			return authFailedMsg{Err: err}
		}
		return resetSentMsg{}
	}
}

// =============================================================================
// VIEW
// =============================================================================

var screenTitles = map[Screen]string{
	ScreenLogin:    "Sign in",
	ScreenRegister: "Create account",
	ScreenForgot:   "Reset password",
}

var screenHints = map[Screen]string{
	ScreenLogin:    "enter submit  tab next field  ctrl+n create account",
	ScreenRegister: "enter submit  tab next field  ctrl+n reset password",
	ScreenForgot:   "enter submit  ctrl+n back to sign in",
}

// View renders the current form centered on screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render(screenTitles[m.screen]))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		line := f.View()
		if i == m.focused {
			line = m.theme.FormFieldFocus.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString("\n")
		b.WriteString(m.theme.FormHint.Render("Working..."))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.FormHint.Render(screenHints[m.screen]))

	form := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		form = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
	}

	if m.notices.HasNotices() {
		toast := components.RenderNoticeStack(m.notices.Notices(), m.width, m.height)
		if toast != "" {
			return form + "\n" + toast
		}
	}
	return form
}
