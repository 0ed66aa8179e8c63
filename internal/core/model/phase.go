package model

// Phase is a named operating mode of the timer.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseWorking
	PhaseResting
	PhasePaused
	PhaseNewTarget
	PhaseDone
)

// Phases returns every phase in declaration order.
func Phases() []Phase {
	return []Phase{PhaseReady, PhaseWorking, PhaseResting, PhasePaused, PhaseNewTarget, PhaseDone}
}

func (phase Phase) String() string {
	switch phase {
	case PhaseReady:
		return "Ready"
	case PhaseWorking:
		return "Working"
	case PhaseResting:
		return "Resting"
	case PhasePaused:
		return "Paused"
	case PhaseNewTarget:
		return "NewTarget"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Running reports whether the countdown advances in this phase.
func (phase Phase) Running() bool {
	return phase == PhaseWorking || phase == PhaseResting
}
