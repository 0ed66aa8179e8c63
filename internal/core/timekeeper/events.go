package timekeeper

import (
	"time"

	"worktimer/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventProgress     EventType = "progress"
	EventAlert        EventType = "alert"
	EventSessionEnded EventType = "session_ended"
	EventIdlePause    EventType = "idle_pause"
	EventIdleError    EventType = "idle_error"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type            EventType
	State           model.Phase
	Previous        model.Phase
	Remaining       time.Duration
	TargetRemaining time.Duration
	Progress        float64
	Alert           model.Alert
	Session         model.Session
	WorthSaving     bool
	Message         string
	At              time.Time
}
