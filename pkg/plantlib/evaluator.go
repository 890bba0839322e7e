package plantlib

import "time"

// ReachedInstants returns every schedule entry whose time of day, interpreted
// on now's calendar date, is at or before now. Comparison is by hour and
// minute only; seconds are ignored. Malformed entries are skipped without
// affecting the rest of the schedule. The result is independent of whether an
// entry was already handled; occurrence dedup is the ledger's job, keyed by
// the calendar date.
func ReachedInstants(schedule []string, now time.Time) []TimeOfDay {
	if len(schedule) == 0 {
		return nil
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	var reached []TimeOfDay
	for _, entry := range schedule {
		tod, err := ParseTimeOfDay(entry)
		if err != nil {
			continue
		}
		if tod.Minutes() <= nowMinutes {
			reached = append(reached, tod)
		}
	}
	return reached
}

// DayKey returns the calendar-date component of a dedup marker key for the
// given instant, in the local timezone.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
