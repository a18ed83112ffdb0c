package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedSQLiteUser(t *testing.T, st *SQLiteStore, documentNumber string, activeProcesses, inactiveProcesses int) {
	t.Helper()
	ctx := context.Background()
	_, err := st.db.ExecContext(ctx, `
		INSERT INTO users (document_number, first_name, last_name, email)
		VALUES (?, 'Ana', 'Pérez', ?)`,
		documentNumber, documentNumber+"@example.com")
	require.NoError(t, err)

	for i := 0; i < activeProcesses; i++ {
		_, err := st.db.ExecContext(ctx, `
			INSERT INTO user_legal_processes (user_document_number, numero_radicacion, active)
			VALUES (?, '11001310300120250001', 1)`, documentNumber)
		require.NoError(t, err)
	}
	for i := 0; i < inactiveProcesses; i++ {
		_, err := st.db.ExecContext(ctx, `
			INSERT INTO user_legal_processes (user_document_number, numero_radicacion, active)
			VALUES (?, '11001310300120250002', 0)`, documentNumber)
		require.NoError(t, err)
	}
}

func TestSQLite_ConfigRoundTrip(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()
	seedSQLiteUser(t, st, "100", 0, 0)

	cfg := domain.NewReminderConfig("100", time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, st.Create(ctx, &cfg))

	stored, err := st.FindByUser(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, cfg.ID, stored.ID)
	require.Equal(t, cfg.UserID, stored.UserID)
	require.True(t, stored.Enabled)
	require.Equal(t, cfg.FrequencyDays, stored.FrequencyDays)
	require.Nil(t, stored.LastReminderSent)
	require.True(t, stored.CreatedAt.Equal(cfg.CreatedAt))

	_, err = st.FindByUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_UpdateAndListEnabled(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()
	seedSQLiteUser(t, st, "100", 0, 0)
	seedSQLiteUser(t, st, "200", 0, 0)

	a := domain.NewReminderConfig("100", time.Now().UTC())
	b := domain.NewReminderConfig("200", time.Now().UTC())
	require.NoError(t, st.Create(ctx, &a))
	require.NoError(t, st.Create(ctx, &b))

	b.Enabled = false
	b.UpdatedAt = time.Now().UTC()
	require.NoError(t, st.Update(ctx, &b))

	enabled, err := st.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	require.Equal(t, "100", enabled[0].UserID)

	ghost := domain.NewReminderConfig("300", time.Now().UTC())
	require.ErrorIs(t, st.Update(ctx, &ghost), ErrNotFound)
}

func TestSQLite_MarkSentCAS(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()
	seedSQLiteUser(t, st, "100", 0, 0)

	cfg := domain.NewReminderConfig("100", time.Now().UTC())
	require.NoError(t, st.Create(ctx, &cfg))

	first := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, st.MarkSent(ctx, cfg.ID, first, nil))

	stored, err := st.FindByUser(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, stored.LastReminderSent)
	require.True(t, stored.LastReminderSent.Equal(first))

	// stale snapshot (nil) loses the race
	err = st.MarkSent(ctx, cfg.ID, first.Add(time.Hour), nil)
	require.ErrorIs(t, err, ErrSentConflict)

	// fresh snapshot wins
	second := first.AddDate(0, 0, 7)
	require.NoError(t, st.MarkSent(ctx, cfg.ID, second, &first))
}

func TestSQLite_UsersAndProcessCounts(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()
	seedSQLiteUser(t, st, "100", 3, 2)

	u, err := st.GetUser(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, "Ana", u.FirstName)
	require.Equal(t, "100@example.com", u.Email)

	n, err := st.CountActive(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, 3, n, "inactive processes must not count")

	_, err = st.GetUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
