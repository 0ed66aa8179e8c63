package model

import "time"

// Session is one run of the timer from Start until Stop or Done.
type Session struct {
	ID        string
	Name      string
	StartedAt time.Time
	EndedAt   time.Time
	WorkTime  time.Duration
	RestTime  time.Duration
	Target    time.Duration
	Worked    time.Duration
	Completed bool
}

// WorthSaving reports whether enough work was done to keep the session.
func (session Session) WorthSaving(threshold time.Duration) bool {
	return session.Worked >= threshold
}
