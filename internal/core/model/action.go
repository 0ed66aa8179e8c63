package model

// Action names the command a button triggers. The controller resolves it.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionStop
	ActionNewTarget
	ActionPause
	ActionUnpause
	ActionSetTarget
)

func (action Action) String() string {
	switch action {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	case ActionNewTarget:
		return "new_target"
	case ActionPause:
		return "pause"
	case ActionUnpause:
		return "unpause"
	case ActionSetTarget:
		return "set_target"
	default:
		return "none"
	}
}
