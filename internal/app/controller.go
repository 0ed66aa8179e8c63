// Package app connects the timekeeper to the window, tray, sounds and history.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"worktimer/internal/audio"
	"worktimer/internal/core/clock"
	"worktimer/internal/core/model"
	"worktimer/internal/core/timekeeper"
	"worktimer/internal/core/view"
	"worktimer/internal/storage"
	"worktimer/internal/ui/mainwindow"
	"worktimer/internal/ui/preferences"
)

const (
	historyTimeout = 5 * time.Second
	historyLimit   = 50
)

// UI is the part of the main window the controller drives.
type UI interface {
	Apply(current view.View)
	SetCountdown(remaining, targetRemaining time.Duration, progress float64)
	Inputs() mainwindow.Inputs
	SetInputs(inputs mainwindow.Inputs)
	ShowError(err error)
	ShowHistory(lines []string)
}

// Tray mirrors the current view in the system tray.
type Tray interface {
	SetView(current view.View)
	SetStatus(status string)
}

// SessionStore keeps finished sessions.
type SessionStore interface {
	Record(ctx context.Context, session model.Session) error
	Recent(ctx context.Context, limit int) ([]model.Session, error)
	TotalWorked(ctx context.Context, since time.Time) (time.Duration, error)
}

// soundSettings is implemented by players that support volume and muting.
type soundSettings interface {
	SetVolume(level float64)
	SetEnabled(enabled bool)
}

// Dependencies lists what the controller needs. Tray and History may be nil.
type Dependencies struct {
	Config  model.Config
	Keeper  *timekeeper.TimeKeeper
	UI      UI
	Tray    Tray
	Player  audio.Player
	History SessionStore
	// Dispatch runs UI updates on the UI goroutine. Defaults to calling directly.
	Dispatch func(func())
	Now      func() time.Time
}

// Controller resolves button actions and renders timekeeper events.
type Controller struct {
	config         model.Config
	keeper         *timekeeper.TimeKeeper
	ui             UI
	tray           Tray
	player         audio.Player
	history        SessionStore
	dispatch       func(func())
	now            func() time.Time
	previousTarget string
}

// New creates a controller.
func New(deps Dependencies) *Controller {
	controller := &Controller{
		config:   deps.Config,
		keeper:   deps.Keeper,
		ui:       deps.UI,
		tray:     deps.Tray,
		player:   deps.Player,
		history:  deps.History,
		dispatch: deps.Dispatch,
		now:      deps.Now,
	}
	if controller.player == nil {
		controller.player = audio.Silent{}
	}
	if controller.dispatch == nil {
		controller.dispatch = func(update func()) { update() }
	}
	if controller.now == nil {
		controller.now = time.Now
	}
	return controller
}

// Init renders the current phase and fills the inputs from settings. It runs
// on the UI goroutine before the event loop starts, so updates are applied
// directly.
func (controller *Controller) Init(settings preferences.Settings) {
	dispatch := controller.dispatch
	controller.dispatch = func(update func()) { update() }
	defer func() { controller.dispatch = dispatch }()

	controller.ApplySettings(settings)
	snapshot := controller.keeper.Snapshot()
	controller.render(snapshot.State)
	controller.dispatch(func() {
		controller.ui.SetCountdown(settings.WorkTime, settings.TargetTime, 0)
	})
}

// ApplySettings updates sounds and idle handling, and refreshes the default
// durations shown while the timer is Ready.
func (controller *Controller) ApplySettings(settings preferences.Settings) {
	if tunable, ok := controller.player.(soundSettings); ok {
		tunable.SetEnabled(settings.SoundEnabled)
		tunable.SetVolume(settings.Volume)
	}
	controller.keeper.SetIdlePause(settings.IdlePause, settings.IdlePauseAfter)

	if controller.keeper.State() != model.PhaseReady {
		return
	}
	plan := settings.DefaultPlan()
	controller.dispatch(func() {
		plan.Name = controller.ui.Inputs().Name
		controller.ui.SetInputs(inputsFromPlan(plan))
	})
}

// HandleAction runs the command bound to a button.
func (controller *Controller) HandleAction(action model.Action) {
	if err := controller.perform(action); err != nil {
		log.Printf("action %s: %v", action, err)
		controller.dispatch(func() {
			controller.ui.ShowError(err)
		})
	}
}

func (controller *Controller) perform(action model.Action) error {
	switch action {
	case model.ActionStart:
		plan, err := planFromInputs(controller.ui.Inputs())
		if err != nil {
			return err
		}
		return controller.keeper.Start(plan)
	case model.ActionStop:
		return controller.keeper.Stop()
	case model.ActionPause:
		return controller.keeper.Pause()
	case model.ActionUnpause:
		return controller.keeper.Resume()
	case model.ActionNewTarget:
		controller.previousTarget = controller.ui.Inputs().Target
		return controller.keeper.BeginNewTarget()
	case model.ActionSetTarget:
		return controller.setTarget()
	case model.ActionNone:
		return nil
	default:
		return fmt.Errorf("unknown action %d", int(action))
	}
}

// setTarget applies the entered target. A blank or unchanged entry cancels.
func (controller *Controller) setTarget() error {
	inputs := controller.ui.Inputs()
	text := strings.TrimSpace(inputs.Target)
	if text == "" || text == controller.previousTarget {
		inputs.Target = controller.previousTarget
		controller.ui.SetInputs(inputs)
		return controller.keeper.CancelTarget()
	}

	target, err := clock.Parse(text)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if err := controller.keeper.SetTarget(target); err != nil {
		return err
	}
	inputs.Target = clock.Format(target)
	controller.ui.SetInputs(inputs)
	return nil
}

// Listen renders events until the channel is closed.
func (controller *Controller) Listen(events <-chan timekeeper.Event) {
	for event := range events {
		controller.handleEvent(event)
	}
}

func (controller *Controller) handleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStateChange:
		controller.render(event.State)
		controller.dispatch(func() {
			controller.ui.SetCountdown(event.Remaining, event.TargetRemaining, event.Progress)
		})
	case timekeeper.EventProgress:
		controller.dispatch(func() {
			controller.ui.SetCountdown(event.Remaining, event.TargetRemaining, event.Progress)
			if controller.tray != nil {
				controller.tray.SetStatus(clock.Format(event.Remaining))
			}
		})
	case timekeeper.EventAlert:
		controller.player.Play(event.Alert)
	case timekeeper.EventSessionEnded:
		controller.recordSession(event.Session, event.WorthSaving)
	case timekeeper.EventIdlePause:
		log.Printf("idle: %s", event.Message)
	case timekeeper.EventIdleError:
		log.Printf("idle check: %s", event.Message)
	}
}

func (controller *Controller) render(phase model.Phase) {
	current := view.MustFor(phase)
	controller.dispatch(func() {
		controller.ui.Apply(current)
		if controller.tray != nil {
			controller.tray.SetView(current)
			if !phase.Running() {
				controller.tray.SetStatus("")
			}
		}
	})
}

func (controller *Controller) recordSession(session model.Session, worthSaving bool) {
	if !worthSaving {
		log.Printf("session %q not saved: %s worked, below %s", session.Name, session.Worked.Round(time.Second), controller.config.MinWorthSaving)
		return
	}
	if controller.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	if err := controller.history.Record(ctx, session); err != nil {
		log.Printf("history: %v", err)
		controller.dispatch(func() {
			controller.ui.ShowError(fmt.Errorf("save session: %w", err))
		})
	}
}

// ShowHistory lists the most recent saved sessions under a line with the
// work done today.
func (controller *Controller) ShowHistory(ctx context.Context) {
	if controller.history == nil {
		controller.dispatch(func() { controller.ui.ShowHistory(nil) })
		return
	}

	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()
	sessions, err := controller.history.Recent(ctx, historyLimit)
	if err != nil {
		log.Printf("history: %v", err)
		controller.dispatch(func() { controller.ui.ShowError(err) })
		return
	}

	if len(sessions) == 0 {
		controller.dispatch(func() { controller.ui.ShowHistory(nil) })
		return
	}

	now := controller.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := controller.history.TotalWorked(ctx, startOfDay)
	if err != nil {
		log.Printf("history: %v", err)
		controller.dispatch(func() { controller.ui.ShowError(err) })
		return
	}

	lines := make([]string, 0, len(sessions)+1)
	lines = append(lines, "Today: "+clock.Format(today))
	for _, session := range sessions {
		lines = append(lines, historyLine(session))
	}
	controller.dispatch(func() { controller.ui.ShowHistory(lines) })
}

func historyLine(session model.Session) string {
	name := session.Name
	if name == "" {
		name = "(unnamed)"
	}
	mark := ""
	if session.Completed {
		mark = " done"
	}
	return fmt.Sprintf("%s  %s  %s / %s%s",
		session.StartedAt.Local().Format("2006-01-02 15:04"),
		name,
		clock.Format(session.Worked),
		clock.Format(session.Target),
		mark,
	)
}

// OpenPlan loads a session file into the inputs. Finished or half-edited
// states are returned to Ready first.
func (controller *Controller) OpenPlan(reader io.Reader) error {
	plan, err := storage.ReadSessionFile(reader)
	if err != nil {
		return err
	}

	switch controller.keeper.State() {
	case model.PhaseDone:
		if err := controller.keeper.Reset(); err != nil {
			return err
		}
	case model.PhaseNewTarget:
		if err := controller.keeper.CancelTarget(); err != nil {
			return err
		}
	case model.PhaseReady:
	default:
		return fmt.Errorf("%w: cannot open a session while %s", timekeeper.ErrInvalidTransition, controller.keeper.State())
	}

	controller.dispatch(func() {
		controller.ui.SetInputs(inputsFromPlan(plan))
	})
	return nil
}

// SavePlan writes the plan currently entered in the inputs.
func (controller *Controller) SavePlan(writer io.Writer) error {
	plan, err := planFromInputs(controller.ui.Inputs())
	if err != nil {
		return err
	}
	return storage.WriteSessionFile(writer, plan)
}

// SuggestedFileName returns a file name for saving the current plan.
func (controller *Controller) SuggestedFileName() string {
	name := strings.TrimSpace(controller.ui.Inputs().Name)
	if name == "" {
		name = "session"
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
	return name + storage.SessionFileExtension
}

func planFromInputs(inputs mainwindow.Inputs) (timekeeper.Plan, error) {
	var errs []error
	work, err := clock.Parse(inputs.Work)
	if err != nil {
		errs = append(errs, fmt.Errorf("work: %w", err))
	}
	rest, err := clock.Parse(inputs.Rest)
	if err != nil {
		errs = append(errs, fmt.Errorf("rest: %w", err))
	}
	target, err := clock.Parse(inputs.Target)
	if err != nil {
		errs = append(errs, fmt.Errorf("target: %w", err))
	}
	if len(errs) > 0 {
		return timekeeper.Plan{}, errors.Join(errs...)
	}
	return timekeeper.Plan{
		Name:   strings.TrimSpace(inputs.Name),
		Work:   work,
		Rest:   rest,
		Target: target,
	}, nil
}

func inputsFromPlan(plan timekeeper.Plan) mainwindow.Inputs {
	return mainwindow.Inputs{
		Name:   plan.Name,
		Target: clock.Format(plan.Target),
		Work:   clock.Format(plan.Work),
		Rest:   clock.Format(plan.Rest),
	}
}
