package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"driver-dispatch/constants"
)

// ElapsedTime returns the duration between two HH:MM clock readings.
// An end time numerically before the start time means the service ran
// past midnight, so the result is still positive.
func ElapsedTime(start, end string) (time.Duration, error) {
	s, err := time.Parse(constants.ClockLayout, strings.TrimSpace(start))
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	e, err := time.Parse(constants.ClockLayout, strings.TrimSpace(end))
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q: %w", end, err)
	}

	d := e.Sub(s)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d, nil
}

// FormatElapsed renders a duration as "1h 25m" for the resume mail.
func FormatElapsed(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

var spanishMonths = map[string]string{
	"01": "Ene", "02": "Feb", "03": "Mar", "04": "Abr",
	"05": "May", "06": "Jun", "07": "Jul", "08": "Ago",
	"09": "Sep", "10": "Oct", "11": "Nov", "12": "Dic",
}

// NiceDate renders an m/d/Y date as the worklist header, e.g.
// "03/01/2024" -> "Mar 1/2024".
func NiceDate(date string) string {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return date
	}
	month, ok := spanishMonths[parts[0]]
	if !ok {
		return date
	}
	return month + " " + strings.TrimLeft(parts[1], "0") + "/" + parts[2]
}

// placeholder value the office UI writes into unused passenger slots
const paxPlaceholder = "Seleccione una..."

// JoinPassengers collapses the extra passenger name slots into one
// comma-separated string, dropping empties and UI placeholders.
func JoinPassengers(names ...string) string {
	var kept []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && n != paxPlaceholder {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, ", ")
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether the address is plausible enough to hand to
// the mail relay.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// NowInServiceZone returns the current wall-clock time in the operating
// timezone.
func NowInServiceZone() time.Time {
	return time.Now().In(constants.ServiceZone)
}
