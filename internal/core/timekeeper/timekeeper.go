package timekeeper

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"worktimer/internal/core/model"

	"github.com/google/uuid"
)

var (
	// ErrIdleUnsupported indicates idle detection is not available on this system.
	ErrIdleUnsupported = errors.New("idle detection unsupported")
	// ErrInvalidTransition indicates the operation is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidPlan indicates a plan with a missing or non-positive duration.
	ErrInvalidPlan = errors.New("invalid plan")
)

const idleCheckInterval = 5 * time.Second

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval     time.Duration
	ProgressInterval time.Duration
	Now              func() time.Time
}

// Plan is what the user asked for: a named session alternating work and rest
// periods until Target worth of work has been done.
type Plan struct {
	Name   string
	Work   time.Duration
	Rest   time.Duration
	Target time.Duration
}

// Validate checks that every duration is positive.
func (plan Plan) Validate() error {
	if plan.Work <= 0 {
		return fmt.Errorf("%w: work period must be positive", ErrInvalidPlan)
	}
	if plan.Rest <= 0 {
		return fmt.Errorf("%w: rest period must be positive", ErrInvalidPlan)
	}
	if plan.Target <= 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalidPlan)
	}
	return nil
}

// Snapshot is a point-in-time copy of the TimeKeeper state.
type Snapshot struct {
	State           model.Phase
	Plan            Plan
	Remaining       time.Duration
	Worked          time.Duration
	TargetRemaining time.Duration
}

// TimeKeeper is the state machine driving the work/rest countdown.
type TimeKeeper struct {
	mu               sync.Mutex
	config           model.Config
	options          Config
	state            model.Phase
	previousState    model.Phase
	plan             Plan
	remaining        time.Duration
	worked           time.Duration
	session          model.Session
	idleChecker      IdleChecker
	idlePause        bool
	idlePauseAfter   time.Duration
	lastIdleCheck    time.Time
	events           []chan Event
	stopCh           chan struct{}
	running          bool
	lastProgressSent time.Time
}

// New creates a TimeKeeper in the Ready phase with the default plan.
func New(config model.Config, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = config.DeltaT
	}
	if options.TickInterval <= 0 {
		options.TickInterval = 10 * time.Millisecond
	}
	if options.ProgressInterval <= 0 {
		options.ProgressInterval = 100 * time.Millisecond
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &TimeKeeper{
		config:        config,
		options:       options,
		state:         model.PhaseReady,
		previousState: model.PhaseReady,
		plan: Plan{
			Work:   config.WorkTime,
			Rest:   config.RestTime,
			Target: config.TargetTime,
		},
	}
}

// SetIdleChecker injects an idle checker.
func (keeper *TimeKeeper) SetIdleChecker(checker IdleChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idleChecker = checker
}

// SetIdlePause enables pausing the work period after the given inactivity.
func (keeper *TimeKeeper) SetIdlePause(enabled bool, after time.Duration) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idlePause = enabled && after > 0
	keeper.idlePauseAfter = after
	keeper.lastIdleCheck = time.Time{}
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Run launches the ticking loop.
func (keeper *TimeKeeper) Run() {
	keeper.mu.Lock()
	if keeper.running {
		keeper.mu.Unlock()
		return
	}
	keeper.running = true
	stopCh := make(chan struct{})
	keeper.stopCh = stopCh
	keeper.mu.Unlock()

	go keeper.run(stopCh)
}

// Shutdown terminates the ticking loop and closes observers. A session still
// in progress is ended first so observers can keep it.
func (keeper *TimeKeeper) Shutdown() {
	keeper.mu.Lock()
	if keeper.running {
		close(keeper.stopCh)
		keeper.running = false
	}
	if keeper.state.Running() || keeper.state == model.PhasePaused {
		keeper.endSessionLocked(false, keeper.options.Now())
		keeper.worked = 0
		keeper.remaining = 0
		keeper.state = model.PhaseReady
		keeper.previousState = model.PhaseReady
	}
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns the current state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return Snapshot{
		State:           keeper.state,
		Plan:            keeper.plan,
		Remaining:       keeper.remaining,
		Worked:          keeper.worked,
		TargetRemaining: keeper.targetRemainingLocked(),
	}
}

// State returns the current phase.
func (keeper *TimeKeeper) State() model.Phase {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state
}

// Start begins a new session from Ready or Done.
func (keeper *TimeKeeper) Start(plan Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.PhaseReady && keeper.state != model.PhaseDone {
		return keeper.transitionErrorLocked("start")
	}

	now := keeper.options.Now()
	keeper.plan = plan
	keeper.worked = 0
	keeper.remaining = plan.Work
	keeper.lastProgressSent = time.Time{}
	keeper.lastIdleCheck = time.Time{}
	keeper.session = model.Session{
		ID:        uuid.NewString(),
		Name:      plan.Name,
		StartedAt: now,
		WorkTime:  plan.Work,
		RestTime:  plan.Rest,
		Target:    plan.Target,
	}
	keeper.setStateLocked(model.PhaseWorking, now)
	return nil
}

// Stop abandons the running session and returns to Ready.
func (keeper *TimeKeeper) Stop() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.state.Running() {
		return keeper.transitionErrorLocked("stop")
	}

	now := keeper.options.Now()
	keeper.endSessionLocked(false, now)
	keeper.worked = 0
	keeper.remaining = 0
	keeper.setStateLocked(model.PhaseReady, now)
	return nil
}

// Pause freezes the countdown.
func (keeper *TimeKeeper) Pause() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.state.Running() {
		return keeper.transitionErrorLocked("pause")
	}
	keeper.setStateLocked(model.PhasePaused, keeper.options.Now())
	return nil
}

// Resume returns to the phase that was paused.
func (keeper *TimeKeeper) Resume() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.PhasePaused {
		return keeper.transitionErrorLocked("resume")
	}
	keeper.lastIdleCheck = time.Time{}
	keeper.setStateLocked(keeper.previousState, keeper.options.Now())
	return nil
}

// BeginNewTarget lets the user enter a new target.
func (keeper *TimeKeeper) BeginNewTarget() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.PhaseReady && keeper.state != model.PhaseDone {
		return keeper.transitionErrorLocked("begin new target")
	}
	keeper.setStateLocked(model.PhaseNewTarget, keeper.options.Now())
	return nil
}

// SetTarget stores a new target and returns to Ready.
func (keeper *TimeKeeper) SetTarget(target time.Duration) error {
	if target <= 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalidPlan)
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.PhaseNewTarget {
		return keeper.transitionErrorLocked("set target")
	}
	keeper.plan.Target = target
	keeper.setStateLocked(model.PhaseReady, keeper.options.Now())
	return nil
}

// CancelTarget returns to Ready keeping the previous target.
func (keeper *TimeKeeper) CancelTarget() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.PhaseNewTarget {
		return keeper.transitionErrorLocked("cancel target")
	}
	keeper.setStateLocked(model.PhaseReady, keeper.options.Now())
	return nil
}

// Reset clears a finished session and returns to Ready.
func (keeper *TimeKeeper) Reset() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.PhaseDone {
		return keeper.transitionErrorLocked("reset")
	}
	keeper.worked = 0
	keeper.remaining = 0
	keeper.setStateLocked(model.PhaseReady, keeper.options.Now())
	return nil
}

func (keeper *TimeKeeper) run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			keeper.tick(keeper.options.TickInterval, keeper.options.Now())
		}
	}
}

func (keeper *TimeKeeper) tick(delta time.Duration, now time.Time) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	switch keeper.state {
	case model.PhaseWorking:
		keeper.handleIdleCheckLocked(now)
		if keeper.state != model.PhaseWorking {
			return
		}
		keeper.advanceWorkLocked(delta, now)
	case model.PhaseResting:
		keeper.advanceRestLocked(delta, now)
	default:
		return
	}
	if keeper.state.Running() {
		keeper.maybeEmitProgressLocked(now)
	}
}

func (keeper *TimeKeeper) advanceWorkLocked(delta time.Duration, now time.Time) {
	keeper.worked += delta
	keeper.remaining -= delta

	if keeper.worked >= keeper.plan.Target {
		keeper.remaining = 0
		keeper.endSessionLocked(true, now)
		keeper.emitAlertLocked(model.AlertHappy, now)
		keeper.setStateLocked(model.PhaseDone, now)
		return
	}
	if keeper.remaining <= 0 {
		keeper.remaining = keeper.plan.Rest
		keeper.emitAlertLocked(model.AlertHappy, now)
		keeper.setStateLocked(model.PhaseResting, now)
	}
}

func (keeper *TimeKeeper) advanceRestLocked(delta time.Duration, now time.Time) {
	keeper.remaining -= delta
	if keeper.remaining > 0 {
		return
	}
	keeper.remaining = keeper.plan.Work
	keeper.emitAlertLocked(model.AlertSad, now)
	keeper.setStateLocked(model.PhaseWorking, now)
}

func (keeper *TimeKeeper) handleIdleCheckLocked(now time.Time) {
	if !keeper.idlePause || keeper.idleChecker == nil {
		return
	}
	if !keeper.lastIdleCheck.IsZero() && now.Sub(keeper.lastIdleCheck) < idleCheckInterval {
		return
	}
	keeper.lastIdleCheck = now

	idleDuration, err := keeper.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			keeper.idlePause = false
		}
		keeper.emitLocked(Event{
			Type:    EventIdleError,
			State:   keeper.state,
			Message: err.Error(),
			At:      now,
		})
		return
	}
	if idleDuration >= keeper.idlePauseAfter {
		keeper.setStateLocked(model.PhasePaused, now)
		keeper.emitLocked(Event{
			Type:    EventIdlePause,
			State:   model.PhasePaused,
			Message: fmt.Sprintf("paused after %s idle", idleDuration.Round(time.Second)),
			At:      now,
		})
	}
}

func (keeper *TimeKeeper) setStateLocked(state model.Phase, now time.Time) {
	previous := keeper.state
	keeper.previousState = previous
	keeper.state = state
	keeper.emitLocked(Event{
		Type:            EventStateChange,
		State:           state,
		Previous:        previous,
		Remaining:       keeper.remaining,
		TargetRemaining: keeper.targetRemainingLocked(),
		Progress:        keeper.targetProgressLocked(),
		At:              now,
	})
}

func (keeper *TimeKeeper) endSessionLocked(completed bool, now time.Time) {
	session := keeper.session
	session.EndedAt = now
	session.Worked = keeper.worked
	session.Completed = completed
	keeper.session = model.Session{}

	keeper.emitLocked(Event{
		Type:        EventSessionEnded,
		State:       keeper.state,
		Session:     session,
		WorthSaving: session.WorthSaving(keeper.config.MinWorthSaving),
		At:          now,
	})
}

func (keeper *TimeKeeper) emitAlertLocked(alert model.Alert, now time.Time) {
	keeper.emitLocked(Event{
		Type:  EventAlert,
		State: keeper.state,
		Alert: alert,
		At:    now,
	})
}

func (keeper *TimeKeeper) maybeEmitProgressLocked(now time.Time) {
	if !keeper.lastProgressSent.IsZero() && now.Sub(keeper.lastProgressSent) < keeper.options.ProgressInterval {
		return
	}
	keeper.emitLocked(Event{
		Type:            EventProgress,
		State:           keeper.state,
		Remaining:       keeper.remaining,
		TargetRemaining: keeper.targetRemainingLocked(),
		Progress:        keeper.targetProgressLocked(),
		At:              now,
	})
	keeper.lastProgressSent = now
}

func (keeper *TimeKeeper) targetRemainingLocked() time.Duration {
	remaining := keeper.plan.Target - keeper.worked
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (keeper *TimeKeeper) targetProgressLocked() float64 {
	if keeper.plan.Target <= 0 {
		return 0
	}
	progress := float64(keeper.worked) / float64(keeper.plan.Target)
	if progress > 1 {
		return 1
	}
	return progress
}

func (keeper *TimeKeeper) transitionErrorLocked(operation string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, operation, keeper.state)
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
