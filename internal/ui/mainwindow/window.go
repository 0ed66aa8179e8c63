// Package mainwindow renders the timer window. Every widget state comes from a
// view.View; the window itself holds no timer logic.
package mainwindow

import (
	"io"
	"time"

	"worktimer/internal/core/clock"
	"worktimer/internal/core/model"
	"worktimer/internal/core/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	windowWidth  = 360
	windowHeight = 320
)

// Handlers receives user commands from the window.
type Handlers struct {
	OnAction      func(model.Action)
	OnOpen        func()
	OnSave        func()
	OnHistory     func()
	OnPreferences func()
	OnQuit        func()
}

// Inputs holds the raw text of the entry fields.
type Inputs struct {
	Name   string
	Target string
	Work   string
	Rest   string
}

// Window is the main timer window.
type Window struct {
	window     fyne.Window
	handlers   Handlers
	background *canvas.Rectangle
	status     *widget.Label
	countdown  *canvas.Text
	targetLeft *widget.Label
	progress   *widget.ProgressBar
	nameEntry  *widget.Entry
	target     *widget.Entry
	work       *widget.Entry
	rest       *widget.Entry
	startStop  *widget.Button
	modify     *widget.Button
	openItem   *fyne.MenuItem
	saveItem   *fyne.MenuItem
	mainMenu   *fyne.MainMenu
	current    view.View
}

// New builds the window with the Ready view applied.
func New(app fyne.App, title string, handlers Handlers) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	win := &Window{
		window:     window,
		handlers:   handlers,
		background: canvas.NewRectangle(model.ColourWhite.NRGBA()),
		status:     widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		countdown:  canvas.NewText(clock.Format(0), theme.Color(theme.ColorNameForeground)),
		targetLeft: widget.NewLabel(""),
		progress:   widget.NewProgressBar(),
		nameEntry:  widget.NewEntry(),
		target:     widget.NewEntry(),
		work:       widget.NewEntry(),
		rest:       widget.NewEntry(),
	}
	win.countdown.Alignment = fyne.TextAlignCenter
	win.countdown.TextSize = 42
	win.countdown.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	win.nameEntry.SetPlaceHolder("Session name")

	win.startStop = widget.NewButton("", func() { win.trigger(win.current.StartStop.Action) })
	win.modify = widget.NewButton("", func() { win.trigger(win.current.Modify.Action) })

	win.openItem = fyne.NewMenuItem("Open…", func() { call(win.handlers.OnOpen) })
	win.saveItem = fyne.NewMenuItem("Save…", func() { call(win.handlers.OnSave) })
	history := fyne.NewMenuItem("History", func() { call(win.handlers.OnHistory) })
	prefs := fyne.NewMenuItem("Preferences", func() { call(win.handlers.OnPreferences) })
	quit := fyne.NewMenuItem("Quit", func() { call(win.handlers.OnQuit) })
	quit.IsQuit = true
	win.mainMenu = fyne.NewMainMenu(fyne.NewMenu("File",
		win.openItem, win.saveItem, fyne.NewMenuItemSeparator(), history, prefs, fyne.NewMenuItemSeparator(), quit,
	))
	window.SetMainMenu(win.mainMenu)

	form := widget.NewForm(
		widget.NewFormItem("Name", win.nameEntry),
		widget.NewFormItem("Target", win.target),
		widget.NewFormItem("Work", win.work),
		widget.NewFormItem("Rest", win.rest),
	)
	buttons := container.NewGridWithColumns(2, win.startStop, win.modify)
	content := container.NewVBox(
		win.status,
		win.countdown,
		win.progress,
		win.targetLeft,
		form,
		layout.NewSpacer(),
		buttons,
	)
	window.SetContent(container.NewStack(win.background, container.NewPadded(content)))
	window.Resize(fyne.NewSize(windowWidth, windowHeight))

	win.Apply(view.Ready())
	return win
}

// SetMenuHandlers replaces the File menu handlers. Nil entries keep the
// current handler.
func (win *Window) SetMenuHandlers(handlers Handlers) {
	if handlers.OnOpen != nil {
		win.handlers.OnOpen = handlers.OnOpen
	}
	if handlers.OnSave != nil {
		win.handlers.OnSave = handlers.OnSave
	}
	if handlers.OnHistory != nil {
		win.handlers.OnHistory = handlers.OnHistory
	}
	if handlers.OnPreferences != nil {
		win.handlers.OnPreferences = handlers.OnPreferences
	}
	if handlers.OnQuit != nil {
		win.handlers.OnQuit = handlers.OnQuit
	}
}

// Apply sets every widget from the view record.
func (win *Window) Apply(current view.View) {
	win.current = current

	win.status.SetText(current.Status)
	win.background.FillColor = current.Background.NRGBA()
	win.background.Refresh()

	setEnabled(win.nameEntry, !current.NameBox.Disabled)
	setEnabled(win.target, !current.TargetInput.Disabled)
	setEnabled(win.work, !current.WorkInput.Disabled)
	setEnabled(win.rest, !current.RestInput.Disabled)

	applyButton(win.startStop, current.StartStop)
	applyButton(win.modify, current.Modify)

	win.openItem.Disabled = current.OpenAction.Disabled
	win.saveItem.Disabled = current.SaveAction.Disabled
	win.mainMenu.Refresh()
}

// Current returns the view last applied.
func (win *Window) Current() view.View {
	return win.current
}

// SetCountdown updates the period countdown and the progress toward the target.
func (win *Window) SetCountdown(remaining, targetRemaining time.Duration, progress float64) {
	win.countdown.Text = clock.Format(remaining)
	win.countdown.Refresh()
	win.targetLeft.SetText("Target left: " + clock.Format(targetRemaining))
	win.progress.SetValue(progress)
}

// Inputs returns the raw entry texts.
func (win *Window) Inputs() Inputs {
	return Inputs{
		Name:   win.nameEntry.Text,
		Target: win.target.Text,
		Work:   win.work.Text,
		Rest:   win.rest.Text,
	}
}

// SetInputs fills the entry fields.
func (win *Window) SetInputs(inputs Inputs) {
	win.nameEntry.SetText(inputs.Name)
	win.target.SetText(inputs.Target)
	win.work.SetText(inputs.Work)
	win.rest.SetText(inputs.Rest)
}

// ShowError reports an error in a dialog.
func (win *Window) ShowError(err error) {
	dialog.ShowError(err, win.window)
}

// ShowHistory lists finished sessions.
func (win *Window) ShowHistory(lines []string) {
	if len(lines) == 0 {
		dialog.ShowInformation("History", "No sessions saved yet.", win.window)
		return
	}
	list := widget.NewList(
		func() int { return len(lines) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			item.(*widget.Label).SetText(lines[id])
		},
	)
	scroll := container.NewVScroll(list)
	scroll.SetMinSize(fyne.NewSize(320, 240))
	dialog.ShowCustom("History", "Close", scroll, win.window)
}

// ShowOpenDialog asks for a session file and passes it to onOpen.
func (win *Window) ShowOpenDialog(extension string, onOpen func(io.ReadCloser)) {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			win.ShowError(err)
			return
		}
		if reader == nil {
			return
		}
		onOpen(reader)
	}, win.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{extension}))
	open.Show()
}

// ShowSaveDialog asks for a destination and passes it to onSave.
func (win *Window) ShowSaveDialog(fileName string, onSave func(io.WriteCloser)) {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			win.ShowError(err)
			return
		}
		if writer == nil {
			return
		}
		onSave(writer)
	}, win.window)
	save.SetFileName(fileName)
	save.Show()
}

// Show displays the window and brings it to the front.
func (win *Window) Show() {
	win.window.Show()
	win.window.RequestFocus()
}

// ShowAndRun displays the window and runs the application loop.
func (win *Window) ShowAndRun() {
	win.window.ShowAndRun()
}

// SetCloseIntercept replaces the default close behaviour.
func (win *Window) SetCloseIntercept(intercept func()) {
	win.window.SetCloseIntercept(intercept)
}

// Hide hides the window.
func (win *Window) Hide() {
	win.window.Hide()
}

func (win *Window) trigger(action model.Action) {
	if action == model.ActionNone || win.handlers.OnAction == nil {
		return
	}
	win.handlers.OnAction(action)
}

func applyButton(button *widget.Button, config view.Button) {
	button.SetText(config.Text)
	if config.Disabled {
		button.Disable()
	} else {
		button.Enable()
	}
}

func setEnabled(entry *widget.Entry, enabled bool) {
	if enabled {
		entry.Enable()
	} else {
		entry.Disable()
	}
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
