package domain

import "time"

// IsDue reports whether a reminder should be dispatched for cfg at the
// reference instant now. The location attached to now is the zone in
// which ReminderHour and the delivery window are interpreted; callers
// must pass the same zone for every config of one batch.
//
// The checks short-circuit in order: enabled flag, delivery window,
// exact hour:minute match, at-most-once-per-day guard, frequency gate.
// The exact-minute match relies on the scheduler waking up aligned to
// the configured minute; combined with the per-day guard it keeps a
// config from firing on every wake-up.
//
// Pure function: no I/O, no clock reads, same inputs always give the
// same answer.
func IsDue(cfg *ReminderConfig, now time.Time) bool {
	if !cfg.Enabled {
		return false
	}

	if now.Hour() < cfg.StartHour || now.Hour() >= cfg.EndHour {
		return false
	}

	if now.Hour() != cfg.ReminderHour || now.Minute() != cfg.ReminderMinute {
		return false
	}

	last := cfg.LastReminderSent
	if last == nil {
		// First-ever send, already inside the window at the right minute.
		return true
	}

	localLast := last.In(now.Location())
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if localLast.After(startOfToday) {
		// Already sent today.
		return false
	}

	nextEligible := localLast.AddDate(0, 0, cfg.FrequencyDays)
	return !now.Before(nextEligible)
}
