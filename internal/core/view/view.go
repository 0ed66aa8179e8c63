// Package view holds the static widget configuration for each timer phase.
package view

import (
	"fmt"

	"worktimer/internal/core/model"
)

// TimeInput describes an entry field.
type TimeInput struct {
	Disabled bool
}

// Button describes a push button and the command it triggers.
type Button struct {
	Disabled bool
	Text     string
	Action   model.Action
}

// MenuItem describes a File menu entry.
type MenuItem struct {
	Disabled bool
}

// View is the complete widget configuration of the main window for one phase.
type View struct {
	Status string

	NameBox     TimeInput
	TargetInput TimeInput
	WorkInput   TimeInput
	RestInput   TimeInput

	StartStop Button
	Modify    Button

	Background model.Colour

	OpenAction MenuItem
	SaveAction MenuItem
}

// Override changes one field of a view under construction.
type Override func(*View)

// Derive returns a copy of base with the overrides applied. base is not modified.
func Derive(base View, overrides ...Override) View {
	derived := base
	for _, override := range overrides {
		override(&derived)
	}
	return derived
}

func WithStatus(status string) Override {
	return func(view *View) { view.Status = status }
}

func WithNameBox(input TimeInput) Override {
	return func(view *View) { view.NameBox = input }
}

func WithTargetInput(input TimeInput) Override {
	return func(view *View) { view.TargetInput = input }
}

func WithWorkInput(input TimeInput) Override {
	return func(view *View) { view.WorkInput = input }
}

func WithRestInput(input TimeInput) Override {
	return func(view *View) { view.RestInput = input }
}

func WithStartStop(button Button) Override {
	return func(view *View) { view.StartStop = button }
}

func WithModify(button Button) Override {
	return func(view *View) { view.Modify = button }
}

func WithBackground(colour model.Colour) Override {
	return func(view *View) { view.Background = colour }
}

func WithOpenAction(item MenuItem) Override {
	return func(view *View) { view.OpenAction = item }
}

func WithSaveAction(item MenuItem) Override {
	return func(view *View) { view.SaveAction = item }
}

var (
	ready = View{
		Status:      "Ready",
		NameBox:     TimeInput{Disabled: false},
		TargetInput: TimeInput{Disabled: true},
		WorkInput:   TimeInput{Disabled: false},
		RestInput:   TimeInput{Disabled: false},
		StartStop:   Button{Disabled: false, Text: "Start", Action: model.ActionStart},
		Modify:      Button{Disabled: false, Text: "New Target", Action: model.ActionNewTarget},
		Background:  model.ColourWhite,
		OpenAction:  MenuItem{Disabled: false},
		SaveAction:  MenuItem{Disabled: false},
	}

	working = View{
		Status:      "Working",
		NameBox:     TimeInput{Disabled: true},
		TargetInput: TimeInput{Disabled: true},
		WorkInput:   TimeInput{Disabled: true},
		RestInput:   TimeInput{Disabled: true},
		StartStop:   Button{Disabled: false, Text: "Stop", Action: model.ActionStop},
		Modify:      Button{Disabled: false, Text: "Pause", Action: model.ActionPause},
		Background:  model.ColourRed,
		OpenAction:  MenuItem{Disabled: true},
		SaveAction:  MenuItem{Disabled: true},
	}

	resting = Derive(working,
		WithStatus("Resting"),
		WithBackground(model.ColourGreen),
	)

	paused = Derive(working,
		WithStatus("Paused"),
		WithBackground(model.ColourBlue),
		WithStartStop(Button{Disabled: true, Text: "Stop", Action: model.ActionStop}),
		WithModify(Button{Disabled: false, Text: "Unpause", Action: model.ActionUnpause}),
	)

	newTarget = Derive(ready,
		WithStatus("Enter New Target"),
		WithStartStop(Button{Disabled: true, Text: "Start", Action: model.ActionStart}),
		WithModify(Button{Disabled: false, Text: "Set Target", Action: model.ActionSetTarget}),
		WithTargetInput(TimeInput{Disabled: false}),
		WithWorkInput(TimeInput{Disabled: true}),
		WithRestInput(TimeInput{Disabled: true}),
	)

	done = Derive(ready, WithStatus("Done"))

	table = map[model.Phase]View{
		model.PhaseReady:     ready,
		model.PhaseWorking:   working,
		model.PhaseResting:   resting,
		model.PhasePaused:    paused,
		model.PhaseNewTarget: newTarget,
		model.PhaseDone:      done,
	}
)

func Ready() View     { return ready }
func Working() View   { return working }
func Resting() View   { return resting }
func Paused() View    { return paused }
func NewTarget() View { return newTarget }
func Done() View      { return done }

// For returns the view for a phase.
func For(phase model.Phase) (View, bool) {
	view, ok := table[phase]
	return view, ok
}

// MustFor returns the view for a phase and panics when the phase is unmapped.
func MustFor(phase model.Phase) View {
	view, ok := For(phase)
	if !ok {
		panic(fmt.Sprintf("view: no view for phase %s", phase))
	}
	return view
}
