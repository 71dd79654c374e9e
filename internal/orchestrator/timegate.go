package orchestrator

import "time"

// IsRunAllowed reports whether a fetch cycle may proceed at the given
// wall-clock time. Forced runs always proceed; scheduled runs are confined
// to weekdays, 09:00 inclusive to 16:00 exclusive, local time.
func IsRunAllowed(now time.Time, forced bool) bool {
	if forced {
		return true
	}
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := now.Hour()
	return h >= 9 && h < 16
}
