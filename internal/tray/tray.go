// Package tray renders the menu-bar UI and user notifications.
package tray

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/getlantern/systray"

	"github.com/theianchan/talk-local/internal/models"
)

// Actions is the subset of session control the menu drives.
type Actions interface {
	TogglePressed()
	CancelPressed()
}

// Config carries the static labels the menu is built from, plus the logging
// hook the debug checkbox drives.
type Config struct {
	AppName      string
	Version      string
	LogPath      string
	ToggleLabel  string
	CancelLabel  string
	DebugEnabled bool
	SetDebug     func(bool)
}

// Menu is the systray-backed status display. It satisfies the session status
// contract, so controller updates land here as title and menu changes.
type Menu struct {
	cfg     Config
	logger  *slog.Logger
	store   *models.Store
	actions Actions

	ready chan struct{}
	done  chan struct{}

	mu      sync.Mutex
	label   string
	debugOn bool

	statusItem *systray.MenuItem
	toggleItem *systray.MenuItem
	cancelItem *systray.MenuItem
	modelItems map[string]*systray.MenuItem
}

func New(cfg Config, store *models.Store, logger *slog.Logger) *Menu {
	return &Menu{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
		label:      "Ready",
		debugOn:    cfg.DebugEnabled,
		modelItems: make(map[string]*systray.MenuItem),
	}
}

// Attach binds the session controls the menu items drive. Must be called
// before Run; the menu and the controller reference each other.
func (m *Menu) Attach(actions Actions) {
	m.actions = actions
}

// Run blocks on the systray main loop until Quit is clicked or ctx is done.
// On macOS this must be called from the main goroutine.
func (m *Menu) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(m.onReady, func() {})
	close(m.done)
}

func (m *Menu) onReady() {
	systray.SetTitle(m.cfg.AppName)
	systray.SetTooltip(m.cfg.AppName + " — push-to-talk dictation")

	m.statusItem = systray.AddMenuItem("Status: Ready", "")
	m.statusItem.Disable()
	systray.AddSeparator()

	m.toggleItem = systray.AddMenuItem(fmt.Sprintf("Start Recording (%s)", m.cfg.ToggleLabel), "Toggle recording")
	m.cancelItem = systray.AddMenuItem(fmt.Sprintf("Cancel Recording (%s)", m.cfg.CancelLabel), "Discard the active recording")
	m.cancelItem.Disable()
	systray.AddSeparator()

	modelMenu := systray.AddMenuItem("Model", "")
	current := m.store.Current()
	for _, desc := range m.store.List() {
		item := modelMenu.AddSubMenuItemCheckbox(desc.DisplayName, desc.Path, desc.ID == current.ID)
		m.modelItems[desc.ID] = item
		go m.watchModelClicks(desc, item)
	}
	systray.AddSeparator()

	debugMenu := systray.AddMenuItem("Debug", "")
	toggleDebug := debugMenu.AddSubMenuItemCheckbox("Toggle Debug Mode", "Log debug-level detail", m.cfg.DebugEnabled)
	viewLogs := debugMenu.AddSubMenuItem("View Logs", "Open the log file")
	clearLogs := debugMenu.AddSubMenuItem("Clear Logs", "Truncate the log file")
	systray.AddSeparator()

	about := systray.AddMenuItem("About", "")
	quit := systray.AddMenuItem("Quit", "Quit "+m.cfg.AppName)

	go m.watchClicks(toggleDebug, viewLogs, clearLogs, about, quit)

	close(m.ready)
	m.applyStatus(m.currentLabel())
}

func (m *Menu) watchClicks(toggleDebug, viewLogs, clearLogs, about, quit *systray.MenuItem) {
	for {
		select {
		case <-m.toggleItem.ClickedCh:
			m.actions.TogglePressed()
		case <-m.cancelItem.ClickedCh:
			m.actions.CancelPressed()
		case <-toggleDebug.ClickedCh:
			if m.flipDebug() {
				toggleDebug.Check()
			} else {
				toggleDebug.Uncheck()
			}
		case <-viewLogs.ClickedCh:
			m.viewLogs()
		case <-clearLogs.ClickedCh:
			m.clearLogs()
		case <-about.ClickedCh:
			m.Notify(m.cfg.AppName, fmt.Sprintf("Version %s. Menu-bar dictation: hotkey, whisper.cpp, typed at the cursor.", m.cfg.Version))
		case <-quit.ClickedCh:
			systray.Quit()
			return
		case <-m.done:
			return
		}
	}
}

func (m *Menu) watchModelClicks(desc models.Descriptor, item *systray.MenuItem) {
	for {
		select {
		case <-item.ClickedCh:
			m.selectModel(desc)
		case <-m.done:
			return
		}
	}
}

// flipDebug inverts debug logging and reports the new setting.
func (m *Menu) flipDebug() bool {
	m.mu.Lock()
	m.debugOn = !m.debugOn
	enabled := m.debugOn
	m.mu.Unlock()

	if m.cfg.SetDebug != nil {
		m.cfg.SetDebug(enabled)
	}
	if m.logger != nil {
		m.logger.Info("debug mode changed", "enabled", enabled)
	}
	if enabled {
		m.Notify("Debug Mode", "Debug logging enabled")
	} else {
		m.Notify("Debug Mode", "Debug logging disabled")
	}
	return enabled
}

// selectModel switches the registry selection. Active sessions keep the model
// they started with, so this only affects the next recording.
func (m *Menu) selectModel(desc models.Descriptor) {
	if _, err := m.store.Select(desc.ID); err != nil {
		m.logError("model selection failed", err)
		return
	}

	m.mu.Lock()
	for id, item := range m.modelItems {
		if id == desc.ID {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	m.mu.Unlock()

	m.Notify("Model Changed", fmt.Sprintf("Now using %s", desc.DisplayName))
	if m.logger != nil {
		m.logger.Info("model selected", "model", desc.ID)
	}
}

// SetStatus updates the status line and recording affordances. Safe to call
// before the systray loop is up; the latest label is applied once it is.
func (m *Menu) SetStatus(label string) {
	m.mu.Lock()
	m.label = label
	m.mu.Unlock()

	select {
	case <-m.ready:
	default:
		return
	}
	m.applyStatus(label)
}

func (m *Menu) applyStatus(label string) {
	m.statusItem.SetTitle("Status: " + label)
	systray.SetTitle(titleFor(m.cfg.AppName, label))

	if label == "Recording" {
		m.toggleItem.SetTitle(fmt.Sprintf("Stop Recording (%s)", m.cfg.ToggleLabel))
		m.cancelItem.Enable()
		return
	}
	m.toggleItem.SetTitle(fmt.Sprintf("Start Recording (%s)", m.cfg.ToggleLabel))
	m.cancelItem.Disable()
}

func (m *Menu) currentLabel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.label
}

// Notify posts a user-facing macOS notification without blocking the caller.
func (m *Menu) Notify(title, body string) {
	go func() {
		if err := notify(context.Background(), title, body); err != nil {
			m.logError("notification failed", err)
		}
	}()
}

// ReportError surfaces a failure as a notification and a log line.
func (m *Menu) ReportError(message string) {
	if m.logger != nil {
		m.logger.Error("session error", "message", message)
	}
	m.Notify(m.cfg.AppName, message)
}

func (m *Menu) viewLogs() {
	if err := openPath(context.Background(), m.cfg.LogPath); err != nil {
		m.logError("open logs failed", err)
	}
}

func (m *Menu) clearLogs() {
	if err := os.Truncate(m.cfg.LogPath, 0); err != nil {
		m.logError("clear logs failed", err)
		return
	}
	if m.logger != nil {
		m.logger.Info("logs cleared")
	}
	m.Notify("Logs Cleared", "Log file has been cleared")
}

func (m *Menu) logError(msg string, err error) {
	if m.logger == nil {
		return
	}
	m.logger.Error(msg, "error", err)
}

// titleFor mirrors recording state in the menu-bar title.
func titleFor(appName, label string) string {
	if label == "Recording" {
		return "🔴 " + appName
	}
	return appName
}
