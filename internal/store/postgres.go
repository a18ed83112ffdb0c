package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	// Registers the "pgx" driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

// PostgresStore implements Store on PostgreSQL. This is the production
// backend; the main application owns the users and process tables, the
// reminder engine owns reminder_configurations.
type PostgresStore struct{ db *sql.DB }

// OpenPostgres connects with the pgx stdlib driver, verifies the
// connection, and runs migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening postgres connection")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed pinging postgres")
	}
	if err := RunMigrations(ctx, db, "postgres"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed running migrations")
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const pgConfigColumns = `id, user_document_number, enabled, frequency_days,
       reminder_hour, reminder_minute, start_hour, end_hour,
       last_reminder_sent, created_at, updated_at`

func scanPGConfig(row interface{ Scan(...any) error }) (*domain.ReminderConfig, error) {
	var (
		cfg    domain.ReminderConfig
		lastNT sql.NullTime
	)
	if err := row.Scan(
		&cfg.ID, &cfg.UserID, &cfg.Enabled, &cfg.FrequencyDays,
		&cfg.ReminderHour, &cfg.ReminderMinute, &cfg.StartHour, &cfg.EndHour,
		&lastNT, &cfg.CreatedAt, &cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cfg.LastReminderSent = fromNullTime(lastNT)
	cfg.CreatedAt = cfg.CreatedAt.UTC()
	cfg.UpdatedAt = cfg.UpdatedAt.UTC()
	return &cfg, nil
}

func (s *PostgresStore) ListEnabled(ctx context.Context) ([]domain.ReminderConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pgConfigColumns+`
		FROM reminder_configurations
		WHERE enabled
		ORDER BY user_document_number`)
	if err != nil {
		return nil, errors.Wrap(err, "failed listing enabled configs")
	}
	defer rows.Close()

	var res []domain.ReminderConfig
	for rows.Next() {
		cfg, err := scanPGConfig(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed scanning config")
		}
		res = append(res, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed iterating configs")
	}
	return res, nil
}

func (s *PostgresStore) FindByUser(ctx context.Context, documentNumber string) (*domain.ReminderConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pgConfigColumns+`
		FROM reminder_configurations
		WHERE user_document_number = $1`,
		documentNumber)
	cfg, err := scanPGConfig(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed finding config by user")
	}
	return cfg, nil
}

func (s *PostgresStore) Create(ctx context.Context, cfg *domain.ReminderConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_configurations (
			id, user_document_number, enabled, frequency_days,
			reminder_hour, reminder_minute, start_hour, end_hour,
			last_reminder_sent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		cfg.ID, cfg.UserID, cfg.Enabled, cfg.FrequencyDays,
		cfg.ReminderHour, cfg.ReminderMinute, cfg.StartHour, cfg.EndHour,
		toNullTime(cfg.LastReminderSent), cfg.CreatedAt.UTC(), cfg.UpdatedAt.UTC(),
	)
	return errors.Wrap(err, "failed inserting config")
}

func (s *PostgresStore) Update(ctx context.Context, cfg *domain.ReminderConfig) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminder_configurations
		SET enabled = $1, frequency_days = $2, reminder_hour = $3, reminder_minute = $4,
		    start_hour = $5, end_hour = $6, updated_at = $7
		WHERE id = $8`,
		cfg.Enabled, cfg.FrequencyDays, cfg.ReminderHour, cfg.ReminderMinute,
		cfg.StartHour, cfg.EndHour, cfg.UpdatedAt.UTC(), cfg.ID,
	)
	if err != nil {
		return errors.Wrap(err, "failed updating config")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed reading rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, prev *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminder_configurations
		SET last_reminder_sent = $1, updated_at = $1
		WHERE id = $2 AND last_reminder_sent IS NOT DISTINCT FROM $3`,
		sentAt.UTC(), id, toNullTime(prev),
	)
	if err != nil {
		return errors.Wrap(err, "failed marking config sent")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed reading rows affected")
	}
	if n == 0 {
		return ErrSentConflict
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, documentNumber string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT document_number, first_name, last_name, email
		FROM users
		WHERE document_number = $1`,
		documentNumber,
	).Scan(&u.DocumentNumber, &u.FirstName, &u.LastName, &u.Email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed getting user")
	}
	return &u, nil
}

func (s *PostgresStore) CountActive(ctx context.Context, documentNumber string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM user_legal_processes
		WHERE user_document_number = $1 AND active`,
		documentNumber,
	).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "failed counting active processes")
	}
	return n, nil
}
