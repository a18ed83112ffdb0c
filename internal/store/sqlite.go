package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

// SQLiteStore implements Store on an embedded SQLite database. Suited
// for single-box deployments; the scheduler is the only writer of
// reminder state, so the single-connection pool is not a bottleneck.
type SQLiteStore struct{ db *sql.DB }

// OpenSQLite opens (or creates) the database at path, applies PRAGMAs,
// runs migrations, and returns the store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteConfigColumns = `id, user_document_number, enabled, frequency_days,
       reminder_hour, reminder_minute, start_hour, end_hour,
       last_reminder_sent, created_at, updated_at`

func scanSQLiteConfig(row interface{ Scan(...any) error }) (*domain.ReminderConfig, error) {
	var (
		id         string
		cfg        domain.ReminderConfig
		enabledInt int
		lastNS     sql.NullInt64
		createdAt  int64
		updatedAt  int64
	)
	if err := row.Scan(
		&id, &cfg.UserID, &enabledInt, &cfg.FrequencyDays,
		&cfg.ReminderHour, &cfg.ReminderMinute, &cfg.StartHour, &cfg.EndHour,
		&lastNS, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse config id: %w", err)
	}
	cfg.ID = parsed
	cfg.Enabled = enabledInt != 0
	cfg.LastReminderSent = fromNullUnix(lastNS)
	cfg.CreatedAt = time.Unix(createdAt, 0).UTC()
	cfg.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &cfg, nil
}

// ListEnabled returns every configuration with enabled = 1.
func (s *SQLiteStore) ListEnabled(ctx context.Context) ([]domain.ReminderConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqliteConfigColumns+`
		FROM reminder_configurations
		WHERE enabled = 1
		ORDER BY user_document_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.ReminderConfig
	for rows.Next() {
		cfg, err := scanSQLiteConfig(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// FindByUser returns the configuration owned by documentNumber.
func (s *SQLiteStore) FindByUser(ctx context.Context, documentNumber string) (*domain.ReminderConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sqliteConfigColumns+`
		FROM reminder_configurations
		WHERE user_document_number = ?`,
		documentNumber)
	cfg, err := scanSQLiteConfig(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *SQLiteStore) Create(ctx context.Context, cfg *domain.ReminderConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_configurations (
			id, user_document_number, enabled, frequency_days,
			reminder_hour, reminder_minute, start_hour, end_hour,
			last_reminder_sent, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.ID.String(), cfg.UserID, boolToInt(cfg.Enabled), cfg.FrequencyDays,
		cfg.ReminderHour, cfg.ReminderMinute, cfg.StartHour, cfg.EndHour,
		toNullUnix(cfg.LastReminderSent), cfg.CreatedAt.UTC().Unix(), cfg.UpdatedAt.UTC().Unix(),
	)
	return err
}

func (s *SQLiteStore) Update(ctx context.Context, cfg *domain.ReminderConfig) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminder_configurations
		SET enabled = ?, frequency_days = ?, reminder_hour = ?, reminder_minute = ?,
		    start_hour = ?, end_hour = ?, updated_at = ?
		WHERE id = ?`,
		boolToInt(cfg.Enabled), cfg.FrequencyDays, cfg.ReminderHour, cfg.ReminderMinute,
		cfg.StartHour, cfg.EndHour, cfg.UpdatedAt.UTC().Unix(), cfg.ID.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSent conditionally records a dispatch: the update applies only
// while last_reminder_sent still holds the value the batch read.
func (s *SQLiteStore) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, prev *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminder_configurations
		SET last_reminder_sent = ?, updated_at = ?
		WHERE id = ? AND last_reminder_sent IS ?`,
		sentAt.UTC().Unix(), sentAt.UTC().Unix(), id.String(), toNullUnix(prev),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSentConflict
	}
	return nil
}

// GetUser returns the account record for documentNumber.
func (s *SQLiteStore) GetUser(ctx context.Context, documentNumber string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT document_number, first_name, last_name, email
		FROM users
		WHERE document_number = ?`,
		documentNumber,
	).Scan(&u.DocumentNumber, &u.FirstName, &u.LastName, &u.Email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountActive returns the number of processes the user actively tracks.
func (s *SQLiteStore) CountActive(ctx context.Context, documentNumber string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM user_legal_processes
		WHERE user_document_number = ? AND active = 1`,
		documentNumber,
	).Scan(&n)
	return n, err
}
