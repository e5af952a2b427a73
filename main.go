// aiapp TUI - a terminal client for the aiapp chat and image backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/kagmin23/aiapp-tui/internal/api"
	"github.com/kagmin23/aiapp-tui/internal/camera"
	"github.com/kagmin23/aiapp-tui/internal/config"
	"github.com/kagmin23/aiapp-tui/internal/location"
	"github.com/kagmin23/aiapp-tui/internal/logging"
	"github.com/kagmin23/aiapp-tui/internal/session"
	"github.com/kagmin23/aiapp-tui/internal/ui/auth"
	uicamera "github.com/kagmin23/aiapp-tui/internal/ui/camera"
	"github.com/kagmin23/aiapp-tui/internal/ui/chat"
	"github.com/kagmin23/aiapp-tui/internal/ui/components"
	uilocation "github.com/kagmin23/aiapp-tui/internal/ui/location"
	"github.com/kagmin23/aiapp-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	// .env before config so AIAPP_* overrides land
	_ = godotenv.Load()

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Printf("aiapp %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "aiapp is an interactive application and needs a terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log := logging.Default()

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout(),
		ImageTimeout:      cfg.API.ImageTimeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})

	sessions, err := session.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Resume a stored session when one exists
	var stored *session.Session
	if s, err := sessions.Load(); err == nil {
		stored = s
		client.SetCredentials(s.Token, s.UserID)
		log.Info("resumed session", "user", s.UserID)
	} else if !errors.Is(err, session.ErrNotFound) {
		log.Warn("failed to load session", "error", err)
	}

	watcher, err := camera.NewWatcher(cfg.Camera.CapturesDir, 300*time.Millisecond)
	if err != nil {
		log.Warn("captures watcher disabled", "error", err)
	} else if err := watcher.Watch(); err != nil {
		log.Warn("captures watcher disabled", "error", err)
		watcher.Close()
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	m := newModel(cfg, client, sessions, stored, watcher)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running aiapp: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the active screen.
type State int

const (
	StateAuth State = iota
	StateChat
	StateCamera
	StateLocation
)

var stateNames = map[State]string{
	StateAuth:     "Sign in",
	StateChat:     "Chat",
	StateCamera:   "Camera",
	StateLocation: "Location",
}

// Model is the root Bubble Tea model: it routes between screens and
// owns the session.
type Model struct {
	state State

	theme  *styles.Theme
	header *components.Header

	config   *config.Config
	client   *api.Client
	sessions *session.Store
	account  string

	watcher *camera.Watcher
	idle    *session.IdleTimer

	authModel     auth.Model
	chatModel     chat.Model
	cameraModel   uicamera.Model
	locationModel uilocation.Model

	width  int
	height int
}

func newModel(cfg *config.Config, client *api.Client, sessions *session.Store, stored *session.Session, watcher *camera.Watcher) Model {
	theme := styles.NewTheme()

	resolver := location.NewResolver(cfg.Location.LookupURL, cfg.Location.Override)

	m := Model{
		state:         StateAuth,
		theme:         theme,
		header:        components.NewHeader(theme),
		config:        cfg,
		client:        client,
		sessions:      sessions,
		watcher:       watcher,
		idle:          session.NewIdleTimer(cfg.UI.IdleTimeout()),
		authModel:     auth.New(theme, client),
		chatModel:     chat.New(theme, client, cfg.UI.MaxInputLength),
		cameraModel:   uicamera.New(theme, client, cfg.Camera.CapturesDir),
		locationModel: uilocation.New(theme, resolver),
	}

	if stored != nil {
		m.state = StateChat
		m.account = stored.Email
	}
	return m
}

// Init starts the active screen and the capture listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenForCaptures()}
	if m.state == StateChat {
		cmds = append(cmds, m.chatModel.Init(), m.idle.TickCmd())
	} else {
		cmds = append(cmds, m.authModel.Init())
	}
	return tea.Batch(cmds...)
}

// listenForCaptures waits for the next capture announcement. The
// returned command re-arms itself from Update.
func (m Model) listenForCaptures() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	captures := m.watcher.Captures()
	return func() tea.Msg {
		capture, ok := <-captures
		if !ok {
			return nil
		}
		return uicamera.CaptureAppearedMsg{Capture: capture}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the active screen after handling the
// global concerns: quit, screen switching, sign-in, sign-out.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		return m.broadcastResize(msg)

	case tea.KeyMsg:
		m.idle.Touch()
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+p":
			if m.state != StateAuth {
				return m.cycleScreen()
			}

		case "ctrl+l":
			if m.state != StateAuth {
				return m.signOut()
			}
		}

	case auth.SignedInMsg:
		return m.signIn(msg)

	case session.IdleTickMsg:
		if m.state != StateAuth {
			return m, m.idle.TickCmd()
		}
		return m, nil

	case session.TimeoutMsg:
		if m.state != StateAuth {
			logging.Default().Info("session idled out", "idle", msg.Idle)
			return m.signOut()
		}
		return m, nil

	case uicamera.CaptureAppearedMsg:
		var cmd tea.Cmd
		m.cameraModel, cmd = m.cameraModel.Update(msg)
		return m, tea.Batch(cmd, m.listenForCaptures())
	}

	return m.updateActive(msg)
}

// broadcastResize sizes every screen so switching needs no reflow.
func (m Model) broadcastResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	// The header takes the top line on every screen
	inner := msg
	inner.Height = msg.Height - 1
	if inner.Height < 1 {
		inner.Height = 1
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.authModel, cmd = m.authModel.Update(inner)
	cmds = append(cmds, cmd)
	m.chatModel, cmd = m.chatModel.Update(inner)
	cmds = append(cmds, cmd)
	m.cameraModel, cmd = m.cameraModel.Update(inner)
	cmds = append(cmds, cmd)
	m.locationModel, cmd = m.locationModel.Update(inner)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateAuth:
		m.authModel, cmd = m.authModel.Update(msg)
	case StateChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	case StateCamera:
		m.cameraModel, cmd = m.cameraModel.Update(msg)
	case StateLocation:
		m.locationModel, cmd = m.locationModel.Update(msg)
	}
	return m, cmd
}

// cycleScreen rotates chat -> camera -> location -> chat.
func (m Model) cycleScreen() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateChat:
		m.state = StateCamera
		return m, m.cameraModel.Init()
	case StateCamera:
		m.state = StateLocation
		return m, m.locationModel.Init()
	default:
		m.state = StateChat
		return m, nil
	}
}

// signIn stores the session and switches to the chat screen.
func (m Model) signIn(msg auth.SignedInMsg) (tea.Model, tea.Cmd) {
	user := msg.Result.User
	s := &session.Session{
		Token:  msg.Result.Token,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}
	if err := m.sessions.Save(s); err != nil {
		logging.Default().Warn("failed to persist session", "error", err)
	}

	m.account = user.Email
	m.state = StateChat
	m.idle.Touch()

	// Fresh feed for the new session
	m.chatModel = chat.New(m.theme, m.client, m.config.UI.MaxInputLength)
	cmds := []tea.Cmd{m.chatModel.Init(), m.idle.TickCmd()}
	if m.width > 0 {
		resized, cmd := m.broadcastResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m = resized.(Model)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// signOut clears the session and returns to the sign-in form.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	if err := m.sessions.Clear(); err != nil {
		logging.Default().Warn("failed to clear session", "error", err)
	}
	m.client.Logout()
	m.account = ""
	m.state = StateAuth
	m.authModel = auth.New(m.theme, m.client)

	cmds := []tea.Cmd{m.authModel.Init()}
	if m.width > 0 {
		resized, cmd := m.broadcastResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m = resized.(Model)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header plus the active screen.
func (m Model) View() string {
	m.header.SetScreen(stateNames[m.state])
	m.header.SetAccount(m.account)

	var body string
	switch m.state {
	case StateAuth:
		body = m.authModel.View()
	case StateChat:
		body = m.chatModel.View()
	case StateCamera:
		body = m.cameraModel.View()
	case StateLocation:
		body = m.locationModel.View()
	}

	return m.header.Render() + "\n" + body
}
