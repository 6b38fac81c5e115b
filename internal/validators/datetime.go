package validators

import (
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
)

func IsDate(s string) bool {
	_, err := time.Parse(timezone.DateLayout, s)
	return err == nil
}

// IsClock accepts zero-padded HH:MM only.
func IsClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(timezone.TimeLayout, s)
	return err == nil
}

// IsTimeRange reports whether both ends are valid clocks and start < end.
func IsTimeRange(start, end string) bool {
	return IsClock(start) && IsClock(end) && start < end
}
