package platform

import (
	"time"

	"worktimer/internal/core/timekeeper"
)

// IdleProvider returns the duration since last user input.
type IdleProvider = timekeeper.IdleChecker

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, timekeeper.ErrIdleUnsupported
}
