package model

import "time"

// Options selects which set of configuration values to use.
type Options struct {
	DevMode bool
}

// Config contains the timer defaults. It is built once at startup and passed
// to the controller.
type Config struct {
	WorkTime       time.Duration
	RestTime       time.Duration
	TargetTime     time.Duration
	MinWorthSaving time.Duration
	DeltaT         time.Duration
	DevMode        bool
}

const deltaT = 10 * time.Millisecond

// NewConfig returns production values, or very short debug values in dev mode.
func NewConfig(options Options) Config {
	if options.DevMode {
		return Config{
			WorkTime:       3 * time.Second,
			RestTime:       3 * time.Second,
			TargetTime:     10 * time.Second,
			MinWorthSaving: time.Second,
			DeltaT:         deltaT,
			DevMode:        true,
		}
	}
	return Config{
		WorkTime:       25 * time.Minute,
		RestTime:       5 * time.Minute,
		TargetTime:     3 * time.Hour,
		MinWorthSaving: 30 * time.Second,
		DeltaT:         deltaT,
	}
}

// DefaultWorkSeconds returns the default work period in whole seconds.
func (config Config) DefaultWorkSeconds() int {
	return int(config.WorkTime / time.Second)
}

// DefaultRestSeconds returns the default rest period in whole seconds.
func (config Config) DefaultRestSeconds() int {
	return int(config.RestTime / time.Second)
}

// DefaultTargetSeconds returns the default target in whole seconds.
func (config Config) DefaultTargetSeconds() int {
	return int(config.TargetTime / time.Second)
}

// MinWorthSavingSeconds returns the save threshold in whole seconds.
func (config Config) MinWorthSavingSeconds() int {
	return int(config.MinWorthSaving / time.Second)
}
