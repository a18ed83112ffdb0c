package domain

import (
	"testing"
	"time"
)

// Bogota has no DST, a fixed offset keeps the tests deterministic.
var bogota = time.FixedZone("America/Bogota", -5*3600)

func baseConfig() ReminderConfig {
	return ReminderConfig{
		UserID:         "1018456789",
		Enabled:        true,
		FrequencyDays:  1,
		ReminderHour:   9,
		ReminderMinute: 0,
		StartHour:      7,
		EndHour:        22,
	}
}

func at(t *testing.T, day, hh, mm int) time.Time {
	t.Helper()
	return time.Date(2025, time.March, day, hh, mm, 0, 0, bogota)
}

func TestIsDue_DisabledNeverDue(t *testing.T) {
	cfg := baseConfig()
	cfg.Enabled = false
	if IsDue(&cfg, at(t, 10, 9, 0)) {
		t.Fatal("disabled config must never be due")
	}
}

func TestIsDue_OutsideWindow(t *testing.T) {
	cfg := baseConfig()
	cfg.ReminderHour = 6 // matches the minute but sits before the window

	cases := []struct {
		name string
		now  time.Time
	}{
		{"before start", at(t, 10, 6, 0)},
		{"at end hour", at(t, 10, 22, 0)},
		{"after end", at(t, 10, 23, 0)},
	}
	for _, tc := range cases {
		if IsDue(&cfg, tc.now) {
			t.Fatalf("%s: must not be due outside [start,end)", tc.name)
		}
	}
}

func TestIsDue_ExactMinuteMatchRequired(t *testing.T) {
	cfg := baseConfig()

	if !IsDue(&cfg, at(t, 10, 9, 0)) {
		t.Fatal("never-sent config at 09:00 must be due")
	}
	if IsDue(&cfg, at(t, 10, 9, 1)) {
		t.Fatal("09:01 must not match a 09:00 reminder")
	}
	if IsDue(&cfg, at(t, 10, 10, 0)) {
		t.Fatal("10:00 must not match a 09:00 reminder")
	}
}

func TestIsDue_StartHourBoundaryInclusive(t *testing.T) {
	cfg := baseConfig()
	cfg.ReminderHour = 7
	if !IsDue(&cfg, at(t, 10, 7, 0)) {
		t.Fatal("start hour is inclusive")
	}
}

func TestIsDue_SameDayGuard(t *testing.T) {
	cfg := baseConfig()
	sent := at(t, 10, 9, 0).UTC()
	cfg.LastReminderSent = &sent

	if IsDue(&cfg, at(t, 10, 9, 0)) {
		t.Fatal("second matching wake-up on the same day must not be due")
	}
	// frequency 1 day: next day's matching minute is due again
	if !IsDue(&cfg, at(t, 11, 9, 0)) {
		t.Fatal("next day at 09:00 must be due with daily frequency")
	}
}

func TestIsDue_FrequencyGate(t *testing.T) {
	cfg := baseConfig()
	cfg.FrequencyDays = 7
	sent := at(t, 1, 9, 0).UTC()
	cfg.LastReminderSent = &sent

	for day := 2; day < 8; day++ {
		if IsDue(&cfg, at(t, day, 9, 0)) {
			t.Fatalf("day %d: due before 7 days elapsed", day)
		}
	}
	if !IsDue(&cfg, at(t, 8, 9, 0)) {
		t.Fatal("exactly 7 days after the last send must be due")
	}
	if !IsDue(&cfg, at(t, 9, 9, 0)) {
		t.Fatal("past the frequency gate must stay due at the matching minute")
	}
}

// Full lifecycle from the reference scenario: first send, same-day
// dedup, due again the next day.
func TestIsDue_DailyLifecycle(t *testing.T) {
	cfg := baseConfig()

	first := at(t, 15, 9, 0)
	if !IsDue(&cfg, first) {
		t.Fatal("first-ever evaluation at 09:00 must be due")
	}

	sent := first.UTC()
	cfg.LastReminderSent = &sent

	if IsDue(&cfg, at(t, 15, 9, 0)) {
		t.Fatal("already sent today")
	}
	if !IsDue(&cfg, at(t, 16, 9, 0)) {
		t.Fatal("day N+1 at 09:00 must be due again")
	}
}

func TestIsDue_PureFunction(t *testing.T) {
	cfg := baseConfig()
	now := at(t, 10, 9, 0)
	first := IsDue(&cfg, now)
	for i := 0; i < 100; i++ {
		if IsDue(&cfg, now) != first {
			t.Fatal("IsDue must be deterministic for equal inputs")
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := baseConfig()
	bad.FrequencyDays = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("frequency_days 0 must be rejected")
	}

	// windows spanning midnight are not representable
	bad = baseConfig()
	bad.StartHour = 22
	bad.EndHour = 6
	if err := bad.Validate(); err == nil {
		t.Fatal("start >= end must be rejected")
	}

	bad = baseConfig()
	bad.ReminderMinute = 60
	if err := bad.Validate(); err == nil {
		t.Fatal("reminder_minute 60 must be rejected")
	}
}

func TestNewReminderConfig_Defaults(t *testing.T) {
	now := time.Now().UTC()
	cfg := NewReminderConfig("1018456789", now)

	if !cfg.Enabled {
		t.Fatal("default config must be enabled")
	}
	if cfg.FrequencyDays != 7 || cfg.ReminderHour != 9 || cfg.ReminderMinute != 0 {
		t.Fatalf("unexpected schedule defaults: %+v", cfg)
	}
	if cfg.StartHour != 7 || cfg.EndHour != 22 {
		t.Fatalf("unexpected window defaults: %+v", cfg)
	}
	if cfg.LastReminderSent != nil {
		t.Fatal("fresh config must have no last send")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
