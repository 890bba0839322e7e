package plantlib

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock schedule entry with minute precision. It carries
// no date and no timezone offset; it is interpreted against the local
// calendar day it is evaluated on.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a schedule entry in 24h "HH:MM" form. Single-digit
// hours are accepted ("8:00"), seconds are not.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid schedule entry %q: missing ':'", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid schedule entry %q: %w", s, err)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid schedule entry %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid schedule entry %q: out of range", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String renders the entry zero-padded, e.g. "08:00".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the entry as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}
