package tray

import (
	"testing"

	"worktimer/internal/core/model"
	"worktimer/internal/core/view"

	"fyne.io/fyne/v2"
)

type fakeDesktop struct {
	menu *fyne.Menu
}

func (desktop *fakeDesktop) SetSystemTrayMenu(menu *fyne.Menu) { desktop.menu = menu }

func TestManagerFollowsView(t *testing.T) {
	fake := &fakeDesktop{}
	var actions []model.Action
	manager := New(fake, "WorkTimer", Callbacks{OnAction: func(action model.Action) {
		actions = append(actions, action)
	}})

	if fake.menu == nil {
		t.Fatal("tray menu was not installed")
	}
	if manager.startStopItem.Label != "Start" || manager.modifyItem.Label != "New Target" {
		t.Errorf("ready labels = %q %q", manager.startStopItem.Label, manager.modifyItem.Label)
	}

	manager.SetView(view.Paused())
	if !manager.startStopItem.Disabled || manager.modifyItem.Label != "Unpause" {
		t.Errorf("paused items = %+v %+v", manager.startStopItem, manager.modifyItem)
	}
	manager.modifyItem.Action()
	if len(actions) != 1 || actions[0] != model.ActionUnpause {
		t.Errorf("actions = %v", actions)
	}

	manager.SetStatus("12:00 left")
	if manager.statusItem.Label != "Paused: 12:00 left" {
		t.Errorf("status = %q", manager.statusItem.Label)
	}
}
