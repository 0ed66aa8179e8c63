package timekeeper

import (
	"errors"
	"testing"
	"time"

	"worktimer/internal/core/model"
)

var epoch = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

type fakeIdle struct {
	idle  time.Duration
	err   error
	calls int
}

func (idle *fakeIdle) IdleDuration() (time.Duration, error) {
	idle.calls++
	return idle.idle, idle.err
}

func newTestKeeper(t *testing.T) (*TimeKeeper, <-chan Event) {
	t.Helper()
	keeper := New(model.NewConfig(model.Options{DevMode: true}), Config{
		ProgressInterval: time.Second,
		Now:              func() time.Time { return epoch },
	})
	events := keeper.Subscribe(1024)
	t.Cleanup(keeper.Shutdown)
	return keeper, events
}

func drain(events <-chan Event) []Event {
	var drained []Event
	for {
		select {
		case event := <-events:
			drained = append(drained, event)
		default:
			return drained
		}
	}
}

func ofType(events []Event, eventType EventType) []Event {
	var matched []Event
	for _, event := range events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func advance(keeper *TimeKeeper, total, step time.Duration) {
	now := epoch
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		now = now.Add(step)
		keeper.tick(step, now)
	}
}

var testPlan = Plan{Name: "thesis", Work: 3 * time.Second, Rest: 2 * time.Second, Target: 10 * time.Second}

func TestNewStartsReadyWithDefaults(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	snapshot := keeper.Snapshot()
	if snapshot.State != model.PhaseReady {
		t.Errorf("state = %s, want Ready", snapshot.State)
	}
	if snapshot.Plan.Work != 3*time.Second || snapshot.Plan.Rest != 3*time.Second || snapshot.Plan.Target != 10*time.Second {
		t.Errorf("default plan = %+v", snapshot.Plan)
	}
	if keeper.options.TickInterval != 10*time.Millisecond {
		t.Errorf("tick interval = %v, want DeltaT", keeper.options.TickInterval)
	}
}

func TestStartValidatesPlan(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	tests := []struct {
		name string
		plan Plan
	}{
		{"no work", Plan{Rest: time.Second, Target: time.Second}},
		{"no rest", Plan{Work: time.Second, Target: time.Second}},
		{"no target", Plan{Work: time.Second, Rest: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := keeper.Start(tt.plan); !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("Start() error = %v, want ErrInvalidPlan", err)
			}
		})
	}
	if keeper.State() != model.PhaseReady {
		t.Errorf("state = %s, want Ready", keeper.State())
	}
}

func TestWorkRestCycleUntilDone(t *testing.T) {
	keeper, events := newTestKeeper(t)
	if err := keeper.Start(testPlan); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	advance(keeper, 3*time.Second, 100*time.Millisecond)
	if keeper.State() != model.PhaseResting {
		t.Fatalf("after first work period state = %s, want Resting", keeper.State())
	}
	advance(keeper, 2*time.Second, 100*time.Millisecond)
	if keeper.State() != model.PhaseWorking {
		t.Fatalf("after rest state = %s, want Working", keeper.State())
	}
	if got := keeper.Snapshot().TargetRemaining; got != 7*time.Second {
		t.Errorf("target remaining = %v, want 7s", got)
	}

	// Two more full work periods bring the total to 9s; one more second reaches the target.
	for cycle := 0; cycle < 2; cycle++ {
		advance(keeper, 3*time.Second, 100*time.Millisecond)
		advance(keeper, 2*time.Second, 100*time.Millisecond)
	}
	advance(keeper, time.Second, 100*time.Millisecond)
	if keeper.State() != model.PhaseDone {
		t.Fatalf("state = %s, want Done", keeper.State())
	}

	all := drain(events)
	var phases []model.Phase
	for _, event := range ofType(all, EventStateChange) {
		phases = append(phases, event.State)
	}
	expected := []model.Phase{
		model.PhaseWorking, model.PhaseResting, model.PhaseWorking,
		model.PhaseResting, model.PhaseWorking, model.PhaseResting,
		model.PhaseWorking, model.PhaseDone,
	}
	if len(phases) != len(expected) {
		t.Fatalf("phases = %v, want %v", phases, expected)
	}
	for index := range expected {
		if phases[index] != expected[index] {
			t.Fatalf("phases = %v, want %v", phases, expected)
		}
	}

	alerts := ofType(all, EventAlert)
	if len(alerts) != 7 {
		t.Fatalf("got %d alerts, want 7", len(alerts))
	}
	if alerts[0].Alert != model.AlertHappy || alerts[1].Alert != model.AlertSad || alerts[6].Alert != model.AlertHappy {
		t.Errorf("unexpected alert order: %v %v %v", alerts[0].Alert, alerts[1].Alert, alerts[6].Alert)
	}

	ended := ofType(all, EventSessionEnded)
	if len(ended) != 1 {
		t.Fatalf("got %d session events, want 1", len(ended))
	}
	session := ended[0].Session
	if !session.Completed || session.Worked != 10*time.Second || session.Name != "thesis" || session.ID == "" {
		t.Errorf("session = %+v", session)
	}
	if !ended[0].WorthSaving {
		t.Error("completed session should be worth saving")
	}
}

func TestStopEndsSession(t *testing.T) {
	keeper, events := newTestKeeper(t)
	if err := keeper.Start(testPlan); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, 500*time.Millisecond, 100*time.Millisecond)
	if err := keeper.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if keeper.State() != model.PhaseReady {
		t.Errorf("state = %s, want Ready", keeper.State())
	}

	ended := ofType(drain(events), EventSessionEnded)
	if len(ended) != 1 {
		t.Fatalf("got %d session events, want 1", len(ended))
	}
	if ended[0].Session.Completed {
		t.Error("stopped session should not be completed")
	}
	if ended[0].WorthSaving {
		t.Error("half a second is below the dev save threshold")
	}
	if ended[0].Session.Worked != 500*time.Millisecond {
		t.Errorf("session worked = %v, want 500ms", ended[0].Session.Worked)
	}

	snapshot := keeper.Snapshot()
	if snapshot.Worked != 0 || snapshot.TargetRemaining != testPlan.Target {
		t.Errorf("after Stop worked = %v, target remaining = %v, want 0 and %v", snapshot.Worked, snapshot.TargetRemaining, testPlan.Target)
	}
}

func TestPauseAndResume(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	if err := keeper.Start(testPlan); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, time.Second, 100*time.Millisecond)
	if err := keeper.Pause(); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	before := keeper.Snapshot()
	advance(keeper, 5*time.Second, 100*time.Millisecond)
	after := keeper.Snapshot()
	if before != after {
		t.Errorf("paused timer advanced: %+v -> %+v", before, after)
	}
	if err := keeper.Stop(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Stop() while paused error = %v, want ErrInvalidTransition", err)
	}
	if err := keeper.Resume(); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if keeper.State() != model.PhaseWorking {
		t.Errorf("state = %s, want Working", keeper.State())
	}
}

func TestPauseWhileRestingResumesResting(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	if err := keeper.Start(testPlan); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, 3*time.Second, 100*time.Millisecond)
	if err := keeper.Pause(); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	if err := keeper.Resume(); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if keeper.State() != model.PhaseResting {
		t.Errorf("state = %s, want Resting", keeper.State())
	}
}

func TestNewTargetFlow(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	if err := keeper.SetTarget(time.Minute); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SetTarget() from Ready error = %v, want ErrInvalidTransition", err)
	}
	if err := keeper.BeginNewTarget(); err != nil {
		t.Fatalf("BeginNewTarget() error: %v", err)
	}
	if err := keeper.Start(testPlan); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start() from NewTarget error = %v, want ErrInvalidTransition", err)
	}
	if err := keeper.SetTarget(0); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("SetTarget(0) error = %v, want ErrInvalidPlan", err)
	}
	if err := keeper.SetTarget(2 * time.Hour); err != nil {
		t.Fatalf("SetTarget() error: %v", err)
	}
	snapshot := keeper.Snapshot()
	if snapshot.State != model.PhaseReady || snapshot.Plan.Target != 2*time.Hour {
		t.Errorf("snapshot = %+v", snapshot)
	}

	if err := keeper.BeginNewTarget(); err != nil {
		t.Fatalf("BeginNewTarget() error: %v", err)
	}
	if err := keeper.CancelTarget(); err != nil {
		t.Fatalf("CancelTarget() error: %v", err)
	}
	if got := keeper.Snapshot().Plan.Target; got != 2*time.Hour {
		t.Errorf("target after cancel = %v, want 2h", got)
	}
}

func TestDoneTransitions(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	plan := Plan{Work: time.Second, Rest: time.Second, Target: time.Second}
	if err := keeper.Start(plan); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, time.Second, 100*time.Millisecond)
	if keeper.State() != model.PhaseDone {
		t.Fatalf("state = %s, want Done", keeper.State())
	}
	if err := keeper.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause() from Done error = %v, want ErrInvalidTransition", err)
	}
	if err := keeper.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if keeper.State() != model.PhaseReady || keeper.Snapshot().Worked != 0 {
		t.Errorf("snapshot after reset = %+v", keeper.Snapshot())
	}
	if err := keeper.Reset(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Reset() from Ready error = %v, want ErrInvalidTransition", err)
	}
}

func TestStartFromDone(t *testing.T) {
	keeper, _ := newTestKeeper(t)
	plan := Plan{Work: time.Second, Rest: time.Second, Target: time.Second}
	if err := keeper.Start(plan); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, time.Second, 100*time.Millisecond)
	if err := keeper.Start(plan); err != nil {
		t.Fatalf("Start() from Done error: %v", err)
	}
	if snapshot := keeper.Snapshot(); snapshot.State != model.PhaseWorking || snapshot.Worked != 0 {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func TestProgressIsThrottled(t *testing.T) {
	keeper, events := newTestKeeper(t)
	if err := keeper.Start(Plan{Work: time.Minute, Rest: time.Minute, Target: time.Hour}); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, 3*time.Second, 10*time.Millisecond)
	progress := ofType(drain(events), EventProgress)
	if len(progress) < 3 || len(progress) > 4 {
		t.Errorf("got %d progress events over 3s at 1s throttle", len(progress))
	}
}

func TestIdlePause(t *testing.T) {
	keeper, events := newTestKeeper(t)
	idle := &fakeIdle{idle: 10 * time.Minute}
	keeper.SetIdleChecker(idle)
	keeper.SetIdlePause(true, 5*time.Minute)
	if err := keeper.Start(Plan{Work: time.Minute, Rest: time.Minute, Target: time.Hour}); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, 100*time.Millisecond, 100*time.Millisecond)
	if keeper.State() != model.PhasePaused {
		t.Fatalf("state = %s, want Paused", keeper.State())
	}
	if len(ofType(drain(events), EventIdlePause)) != 1 {
		t.Error("expected one idle pause event")
	}
	if err := keeper.Resume(); err != nil {
		t.Fatalf("Resume() error: %v", err)
	}
	if keeper.State() != model.PhaseWorking {
		t.Errorf("state = %s, want Working", keeper.State())
	}
}

func TestIdleUnsupportedDisablesChecks(t *testing.T) {
	keeper, events := newTestKeeper(t)
	idle := &fakeIdle{err: ErrIdleUnsupported}
	keeper.SetIdleChecker(idle)
	keeper.SetIdlePause(true, time.Minute)
	if err := keeper.Start(Plan{Work: time.Minute, Rest: time.Minute, Target: time.Hour}); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	advance(keeper, 20*time.Second, time.Second)
	if idle.calls != 1 {
		t.Errorf("idle checker called %d times, want 1", idle.calls)
	}
	if len(ofType(drain(events), EventIdleError)) != 1 {
		t.Error("expected one idle error event")
	}
	if keeper.State() != model.PhaseWorking {
		t.Errorf("state = %s, want Working", keeper.State())
	}
}

func TestShutdownClosesSubscribers(t *testing.T) {
	keeper := New(model.NewConfig(model.Options{}), Config{})
	events := keeper.Subscribe(1)
	keeper.Run()
	keeper.Shutdown()

	select {
	case _, ok := <-events:
		if ok {
			// a buffered event may arrive first; the channel must still close
			if _, open := <-events; open {
				t.Error("events channel still open after Shutdown")
			}
		}
	case <-time.After(time.Second):
		t.Error("events channel not closed")
	}
}

func TestRunAfterShutdown(t *testing.T) {
	keeper := New(model.NewConfig(model.Options{}), Config{})
	keeper.Run()
	keeper.Shutdown()
	keeper.Run()
	keeper.Shutdown()
	keeper.Shutdown()

	keeper.mu.Lock()
	running := keeper.running
	keeper.mu.Unlock()
	if running {
		t.Error("keeper still running after Shutdown")
	}
}

func TestShutdownEndsActiveSession(t *testing.T) {
	tests := []struct {
		name  string
		pause bool
	}{
		{name: "working"},
		{name: "paused", pause: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keeper := New(model.NewConfig(model.Options{DevMode: true}), Config{
				Now: func() time.Time { return epoch },
			})
			events := keeper.Subscribe(1024)
			if err := keeper.Start(testPlan); err != nil {
				t.Fatalf("Start() error: %v", err)
			}
			advance(keeper, 2*time.Second, 100*time.Millisecond)
			if tt.pause {
				if err := keeper.Pause(); err != nil {
					t.Fatalf("Pause() error: %v", err)
				}
			}
			keeper.Shutdown()

			var ended []Event
			for event := range events {
				if event.Type == EventSessionEnded {
					ended = append(ended, event)
				}
			}
			if len(ended) != 1 {
				t.Fatalf("got %d session events, want 1", len(ended))
			}
			if ended[0].Session.Worked != 2*time.Second || !ended[0].WorthSaving {
				t.Errorf("session = %+v, worth saving = %v", ended[0].Session, ended[0].WorthSaving)
			}
			if ended[0].Session.Completed {
				t.Error("interrupted session should not be completed")
			}
			if keeper.State() != model.PhaseReady {
				t.Errorf("state = %s, want Ready", keeper.State())
			}
		})
	}
}

func TestShutdownWhenIdleEndsNothing(t *testing.T) {
	keeper := New(model.NewConfig(model.Options{DevMode: true}), Config{})
	events := keeper.Subscribe(16)
	keeper.Shutdown()
	for event := range events {
		if event.Type == EventSessionEnded {
			t.Errorf("unexpected session event %+v", event)
		}
	}
}
