package model

const (
	StartAlarmPath = "start.wav"
	EndAlarmPath   = "end.wav"
)

// Alert is a sound cue played on phase changes.
type Alert int

const (
	// AlertHappy marks the end of a work period or reaching the target.
	AlertHappy Alert = iota
	// AlertSad marks the return to work after a rest.
	AlertSad
)

// Alerts returns every alert.
func Alerts() []Alert {
	return []Alert{AlertHappy, AlertSad}
}

// FileName returns the sound file bound to the alert.
func (alert Alert) FileName() string {
	if alert == AlertSad {
		return StartAlarmPath
	}
	return EndAlarmPath
}

func (alert Alert) String() string {
	if alert == AlertSad {
		return "sad"
	}
	return "happy"
}
