// Package mailer delivers reminder emails over SMTP. It is the
// production implementation of reminder.Sender; the engine itself only
// sees the interface.
package mailer

import (
	"bytes"
	"context"
	"html/template"

	"github.com/pkg/errors"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/016jesus/proyecto-justiconsulta/assets"
	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

const reminderSubject = "Recordatorio de Actuaciones - JustiConsulta"

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
}

// Mailer renders the embedded reminder template and sends it via SMTP.
type Mailer struct {
	client *mail.Client
	from   string
	appURL string
	tmpl   *template.Template
	log    *zap.Logger
}

// New creates a Mailer. The SMTP connection is established lazily on
// the first send.
func New(cfg Config, log *zap.Logger) (*Mailer, error) {
	tmpl, err := template.ParseFS(assets.Templates, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed parsing mail templates")
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating smtp client")
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
		appURL: cfg.AppURL,
		tmpl:   tmpl,
		log:    log,
	}, nil
}

type reminderData struct {
	Name         string
	ProcessCount int
	AppURL       string
}

func (m *Mailer) renderReminder(user *domain.User, processCount int) (string, error) {
	var buf bytes.Buffer
	err := m.tmpl.ExecuteTemplate(&buf, "actuation_reminder.html.tmpl", reminderData{
		Name:         user.FullName(),
		ProcessCount: processCount,
		AppURL:       m.appURL,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed rendering reminder template")
	}
	return buf.String(), nil
}

// Send delivers the actuation reminder email to the user.
func (m *Mailer) Send(ctx context.Context, user *domain.User, processCount int) error {
	body, err := m.renderReminder(user, processCount)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.Wrap(err, "invalid from address")
	}
	if err := msg.To(user.Email); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(reminderSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "failed delivering reminder email")
	}

	m.log.Debug("reminder email delivered", zap.String("to", user.Email))
	return nil
}
