package preferences

import (
	"strconv"
	"time"

	"worktimer/internal/core/clock"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	work      *widget.Entry
	rest      *widget.Entry
	target    *widget.Entry
	sound     *widget.Check
	volume    *widget.Slider
	idlePause *widget.Check
	idleAfter *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, title string, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow(title + " Preferences")

	prefs := &Window{
		window:    window,
		onSave:    onSave,
		work:      widget.NewEntry(),
		rest:      widget.NewEntry(),
		target:    widget.NewEntry(),
		sound:     widget.NewCheck("Play alerts", nil),
		volume:    widget.NewSlider(MinVolume, MaxVolume),
		idlePause: widget.NewCheck("Pause work when idle", nil),
		idleAfter: widget.NewEntry(),
	}
	prefs.volume.Step = 0.05

	form := container.NewVBox(
		widget.NewLabelWithStyle("Defaults", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Work", prefs.work),
			widget.NewFormItem("Rest", prefs.rest),
			widget.NewFormItem("Target", prefs.target),
		),
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.sound,
		widget.NewLabel("Volume"),
		prefs.volume,
		widget.NewLabelWithStyle("Idle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.idlePause,
		container.NewHBox(widget.NewLabel("after"), prefs.idleAfter, widget.NewLabel("min")),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 420))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.work.SetText(clock.Format(settings.WorkTime))
	prefs.rest.SetText(clock.Format(settings.RestTime))
	prefs.target.SetText(clock.Format(settings.TargetTime))
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.volume.SetValue(settings.Volume)
	prefs.idlePause.SetChecked(settings.IdlePause)
	prefs.idleAfter.SetText(strconv.Itoa(int(settings.IdlePauseAfter / time.Minute)))
}

// Settings returns the last saved or applied settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if duration, err := clock.Parse(prefs.work.Text); err == nil {
		settings.WorkTime = duration
	}
	if duration, err := clock.Parse(prefs.rest.Text); err == nil {
		settings.RestTime = duration
	}
	if duration, err := clock.Parse(prefs.target.Text); err == nil {
		settings.TargetTime = duration
	}
	if minutes, ok := parsePositiveInt(prefs.idleAfter.Text); ok {
		settings.IdlePauseAfter = time.Duration(minutes) * time.Minute
	}

	settings.SoundEnabled = prefs.sound.Checked
	settings.Volume = prefs.volume.Value
	settings.IdlePause = prefs.idlePause.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
