package tray

import (
	"fmt"

	"worktimer/internal/core/model"
	"worktimer/internal/core/view"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow   func()
	OnAction func(model.Action)
	OnQuit   func()
}

// Manager mirrors the main window buttons in the system tray menu.
type Manager struct {
	app           MenuHost
	title         string
	statusItem    *fyne.MenuItem
	startStopItem *fyne.MenuItem
	modifyItem    *fyne.MenuItem
	callbacks     Callbacks
	current       view.View
	statusLabel   string
}

// New creates a tray manager with the provided callbacks.
func New(app MenuHost, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.startStopItem = fyne.NewMenuItem("", func() {
		manager.trigger(manager.current.StartStop.Action)
	})
	manager.modifyItem = fyne.NewMenuItem("", func() {
		manager.trigger(manager.current.Modify.Action)
	})

	manager.SetView(view.Ready())
	return manager
}

// SetView updates the action items from the view record.
func (manager *Manager) SetView(current view.View) {
	manager.current = current
	manager.startStopItem.Label = current.StartStop.Text
	manager.startStopItem.Disabled = current.StartStop.Disabled
	manager.modifyItem.Label = current.Modify.Text
	manager.modifyItem.Disabled = current.Modify.Disabled
	manager.refreshStatus()
}

// SetStatus updates the detail shown after the phase name.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	if manager.statusLabel == "" {
		manager.statusItem.Label = manager.current.Status
	} else {
		manager.statusItem.Label = fmt.Sprintf("%s: %s", manager.current.Status, manager.statusLabel)
	}
	manager.refreshMenu()
}

func (manager *Manager) trigger(action model.Action) {
	if action != model.ActionNone && manager.callbacks.OnAction != nil {
		manager.callbacks.OnAction(action)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItem("Show", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItemSeparator(),
		manager.startStopItem,
		manager.modifyItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
