package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite|postgres
	DBDSN    string `envconfig:"DB_DSN" default:"./data/justiconsulta.db"`

	// Zone in which reminder hours and delivery windows are interpreted.
	TimeZone string `envconfig:"TIME_ZONE" default:"America/Bogota"`

	// Wake-up cadence of the reminder scheduler, aligned to boundaries.
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"1h"`

	SMTPHost     string `envconfig:"SMTP_HOST" required:"true"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"notificaciones@justiconsulta.co"`
	AppURL       string `envconfig:"APP_URL" default:"https://justiconsulta.co"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz
}

// Load reads environment variables into Config and validates them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects combinations envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.TickInterval < time.Minute {
		return fmt.Errorf("TICK_INTERVAL must be at least 1m, got %s", c.TickInterval)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return nil
}
