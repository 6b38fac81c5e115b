package appointment

// DefaultSlots is the daily template offered for booking.
var DefaultSlots = []string{
	"09:00", "10:00", "11:00",
	"14:00", "15:00", "16:00", "17:00",
}

type AvailabilityInput struct {
	PsychologistID uint
	Date           string
}

// AvailableSlots returns the template minus the occupied times, keeping the
// template order.
func AvailableSlots(template []string, occupied []string) []string {
	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}

	out := make([]string, 0, len(template))
	for _, slot := range template {
		if _, ok := taken[slot]; ok {
			continue
		}
		out = append(out, slot)
	}
	return out
}
