package clock

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration indicates text that cannot be read as a positive duration.
var ErrInvalidDuration = errors.New("invalid duration")

const (
	maxMinutes = math.MaxInt64 / int64(time.Minute)
	maxSeconds = math.MaxInt64 / int64(time.Second)
)

// Format renders a duration as MM:SS, or H:MM:SS from one hour up.
func Format(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	// Round up so a countdown shows 00:01 until it actually reaches zero.
	seconds := int((duration + time.Second - 1) / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Parse reads H:MM:SS, MM:SS, a bare number of minutes or a Go duration.
func Parse(text string) (time.Duration, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return 0, ErrInvalidDuration
	}

	var duration time.Duration
	switch {
	case strings.Contains(value, ":"):
		parsed, err := parseClock(value)
		if err != nil {
			return 0, err
		}
		duration = parsed
	default:
		if minutes, err := strconv.ParseInt(value, 10, 64); err == nil {
			if minutes > maxMinutes {
				return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, text)
			}
			duration = time.Duration(minutes) * time.Minute
			break
		}
		if isDigits(value) {
			return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, text)
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
		}
		duration = parsed
	}

	if duration <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	return duration, nil
}

func parseClock(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
	}

	var total int64
	for index, part := range parts {
		number, err := strconv.ParseInt(part, 10, 64)
		if err != nil || number < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
		}
		if index > 0 && number > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
		}
		if index > 0 {
			if total > maxSeconds/60 {
				return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, value)
			}
			total *= 60
		}
		if number > maxSeconds-total {
			return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, value)
		}
		total += number
	}
	return time.Duration(total) * time.Second, nil
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
