package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

func TestMemory_ListEnabledFiltersDisabled(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	on := domain.NewReminderConfig("100", time.Now().UTC())
	off := domain.NewReminderConfig("200", time.Now().UTC())
	off.Enabled = false
	require.NoError(t, st.Create(ctx, &on))
	require.NoError(t, st.Create(ctx, &off))

	enabled, err := st.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	require.Equal(t, "100", enabled[0].UserID)
}

func TestMemory_MarkSentCAS(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	cfg := domain.NewReminderConfig("100", time.Now().UTC())
	require.NoError(t, st.Create(ctx, &cfg))

	first := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, st.MarkSent(ctx, cfg.ID, first, nil))

	// A second writer holding the stale nil snapshot must conflict.
	err := st.MarkSent(ctx, cfg.ID, first.Add(time.Hour), nil)
	require.ErrorIs(t, err, ErrSentConflict)

	// With the fresh value the update goes through.
	second := first.AddDate(0, 0, 7)
	require.NoError(t, st.MarkSent(ctx, cfg.ID, second, &first))

	stored, err := st.FindByUser(ctx, "100")
	require.NoError(t, err)
	require.True(t, stored.LastReminderSent.Equal(second))
}

func TestMemory_UpdateDoesNotTouchLastSent(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	cfg := domain.NewReminderConfig("100", time.Now().UTC())
	require.NoError(t, st.Create(ctx, &cfg))

	sent := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, st.MarkSent(ctx, cfg.ID, sent, nil))

	cfg.FrequencyDays = 3
	require.NoError(t, st.Update(ctx, &cfg))

	stored, err := st.FindByUser(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, 3, stored.FrequencyDays)
	require.NotNil(t, stored.LastReminderSent)
	require.True(t, stored.LastReminderSent.Equal(sent), "Update must not clear the dispatcher's bookkeeping")
}

func TestMemory_NotFound(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	_, err := st.FindByUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	n, err := st.CountActive(ctx, "missing")
	require.NoError(t, err)
	require.Zero(t, n)
}
