package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration reads a configured duration such as "8h". Blank and non-positive
// values fall back to def silently; unparsable ones fall back with a warning.
func ParseDuration(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		// the global logger may not be configured yet
		log.Warn().Err(err).Str("value", raw).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	if d <= 0 {
		return def
	}
	return d
}

// CalendarDaysBetween counts calendar days from the date of from to the date of to,
// each read on its own wall clock. Clock changes inside the span do not count.
func CalendarDaysBetween(from, to time.Time) int {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}
