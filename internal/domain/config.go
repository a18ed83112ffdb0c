package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a user's configuration is created on first request.
const (
	DefaultFrequencyDays  = 7
	DefaultReminderHour   = 9
	DefaultReminderMinute = 0
	DefaultStartHour      = 7
	DefaultEndHour        = 22
)

// ReminderConfig holds per-user reminder settings and the dedup bookkeeping.
// LastReminderSent is written only by the dispatcher after a confirmed send.
type ReminderConfig struct {
	ID               uuid.UUID
	UserID           string // owner's document number
	Enabled          bool
	FrequencyDays    int        // minimum days between two sends, >= 1
	ReminderHour     int        // 0..23, target local hour
	ReminderMinute   int        // 0..59, target local minute
	StartHour        int        // delivery window start, inclusive
	EndHour          int        // delivery window end, exclusive
	LastReminderSent *time.Time // UTC, nil until the first send
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewReminderConfig returns a config with the standard defaults:
// enabled, weekly, 09:00, window 07:00-22:00.
func NewReminderConfig(userID string, now time.Time) ReminderConfig {
	return ReminderConfig{
		ID:             uuid.New(),
		UserID:         userID,
		Enabled:        true,
		FrequencyDays:  DefaultFrequencyDays,
		ReminderHour:   DefaultReminderHour,
		ReminderMinute: DefaultReminderMinute,
		StartHour:      DefaultStartHour,
		EndHour:        DefaultEndHour,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks the field invariants. A window spanning midnight
// (start >= end) is not representable and is rejected here.
func (c *ReminderConfig) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("reminder config: empty user id")
	}
	if c.FrequencyDays < 1 {
		return fmt.Errorf("reminder config: frequency_days must be >= 1, got %d", c.FrequencyDays)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("reminder config: reminder_hour out of range: %d", c.ReminderHour)
	}
	if c.ReminderMinute < 0 || c.ReminderMinute > 59 {
		return fmt.Errorf("reminder config: reminder_minute out of range: %d", c.ReminderMinute)
	}
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("reminder config: invalid window %02d:00-%02d:00", c.StartHour, c.EndHour)
	}
	return nil
}
