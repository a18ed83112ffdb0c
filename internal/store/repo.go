package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrSentConflict is returned by MarkSent when last_reminder_sent no
	// longer matches the value the caller read. Another scheduler
	// instance got there first; the caller must not treat the config as
	// unsent.
	ErrSentConflict = errors.New("store: last_reminder_sent changed concurrently")
)

// ConfigRepo is the durable home of per-user reminder configurations.
type ConfigRepo interface {
	// ListEnabled returns every config with enabled = true.
	ListEnabled(ctx context.Context) ([]domain.ReminderConfig, error)
	// FindByUser returns the config owned by userID or ErrNotFound.
	FindByUser(ctx context.Context, userID string) (*domain.ReminderConfig, error)
	Create(ctx context.Context, cfg *domain.ReminderConfig) error
	Update(ctx context.Context, cfg *domain.ReminderConfig) error
	// MarkSent sets last_reminder_sent to sentAt, but only while the
	// stored value still equals prev (nil meaning never sent). Returns
	// ErrSentConflict otherwise.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, prev *time.Time) error
}

// UserRepo reads account records. The reminder engine never writes users.
type UserRepo interface {
	GetUser(ctx context.Context, documentNumber string) (*domain.User, error)
}

// ProcessRepo reports how many legal processes a user actively tracks.
type ProcessRepo interface {
	CountActive(ctx context.Context, documentNumber string) (int, error)
}

// Store bundles the repositories backed by one database.
type Store interface {
	ConfigRepo
	UserRepo
	ProcessRepo
	Close() error
}

// Open builds the store selected by driver ("sqlite" or "postgres"),
// running migrations before returning.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
