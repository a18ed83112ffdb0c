package reminder

import (
	"context"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
	"github.com/016jesus/proyecto-justiconsulta/internal/store"
)

// ConfigService is the mutation surface for reminder configurations,
// called by the user-facing API layer. Creation is lazy: the first
// request for a user's configuration materializes the defaults.
type ConfigService struct {
	configs store.ConfigRepo
	clk     clock.Clock
}

// NewConfigService creates a ConfigService.
func NewConfigService(configs store.ConfigRepo, clk clock.Clock) *ConfigService {
	return &ConfigService{configs: configs, clk: clk}
}

// ConfigPatch carries a partial update; nil fields are left unchanged.
type ConfigPatch struct {
	Enabled        *bool
	FrequencyDays  *int
	ReminderHour   *int
	ReminderMinute *int
	StartHour      *int
	EndHour        *int
}

// GetOrCreate returns the user's configuration, creating it with the
// defaults on first request.
func (s *ConfigService) GetOrCreate(ctx context.Context, userID string) (*domain.ReminderConfig, error) {
	cfg, err := s.configs.FindByUser(ctx, userID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	fresh := domain.NewReminderConfig(userID, s.clk.Now().UTC())
	if err := s.configs.Create(ctx, &fresh); err != nil {
		return nil, errors.Wrap(err, "failed creating default config")
	}
	return &fresh, nil
}

// Update applies a partial update to the user's configuration,
// validating the result before persisting.
func (s *ConfigService) Update(ctx context.Context, userID string, patch ConfigPatch) (*domain.ReminderConfig, error) {
	cfg, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.FrequencyDays != nil {
		cfg.FrequencyDays = *patch.FrequencyDays
	}
	if patch.ReminderHour != nil {
		cfg.ReminderHour = *patch.ReminderHour
	}
	if patch.ReminderMinute != nil {
		cfg.ReminderMinute = *patch.ReminderMinute
	}
	if patch.StartHour != nil {
		cfg.StartHour = *patch.StartHour
	}
	if patch.EndHour != nil {
		cfg.EndHour = *patch.EndHour
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.UpdatedAt = s.clk.Now().UTC()
	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, errors.Wrap(err, "failed updating config")
	}
	return cfg, nil
}

// Toggle enables or disables reminders for the user.
func (s *ConfigService) Toggle(ctx context.Context, userID string, enabled bool) (*domain.ReminderConfig, error) {
	return s.Update(ctx, userID, ConfigPatch{Enabled: &enabled})
}
