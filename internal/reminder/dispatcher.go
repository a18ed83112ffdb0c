package reminder

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
	"github.com/016jesus/proyecto-justiconsulta/internal/store"
)

// Sender delivers one reminder notification. internal/mailer implements
// this over SMTP.
type Sender interface {
	Send(ctx context.Context, user *domain.User, processCount int) error
}

// Dispatcher performs the per-user unit of work: count the user's
// active processes, send the reminder, record the send. It is the only
// component that writes last_reminder_sent.
type Dispatcher struct {
	configs   store.ConfigRepo
	users     store.UserRepo
	processes store.ProcessRepo
	sender    Sender
	log       *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(configs store.ConfigRepo, users store.UserRepo, processes store.ProcessRepo, sender Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		configs:   configs,
		users:     users,
		processes: processes,
		sender:    sender,
		log:       log,
	}
}

// Dispatch sends the reminder for cfg, anchored at the batch instant
// now. A zero process count is not an error: nothing is sent and the
// config is left untouched. The mark-sent write is conditional on the
// last_reminder_sent value this batch read, so a concurrent scheduler
// instance cannot double-send silently.
//
// Ordering is deliberate: the config is marked sent only after the
// transport confirmed delivery. A send failure leaves the config
// untouched (the user stays eligible at the next matching wake-up); a
// mark-sent failure after a confirmed send is reported but the send is
// not undone, accepting a possible duplicate over silent starvation.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg domain.ReminderConfig, now time.Time) error {
	count, err := d.processes.CountActive(ctx, cfg.UserID)
	if err != nil {
		return errors.Wrap(err, "failed counting active processes")
	}
	if count == 0 {
		d.log.Debug("no active processes, skipping reminder",
			zap.String("user", cfg.UserID))
		return nil
	}

	user, err := d.users.GetUser(ctx, cfg.UserID)
	if err != nil {
		return errors.Wrap(err, "failed loading user")
	}

	if err := d.sender.Send(ctx, user, count); err != nil {
		return errors.Wrap(err, "failed sending reminder")
	}

	if err := d.configs.MarkSent(ctx, cfg.ID, now, cfg.LastReminderSent); err != nil {
		return errors.Wrap(err, "failed marking reminder sent")
	}

	d.log.Info("reminder sent",
		zap.String("user", cfg.UserID),
		zap.String("email", user.Email),
		zap.Int("processes", count))
	return nil
}
