package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Audit log persistence (optional; slog sink only when empty)
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Engine tuning
	ScoreDecayPerSecond float64       `envconfig:"SCORE_DECAY_PER_SECOND" default:"0.5"`
	DecayTickInterval   time.Duration `envconfig:"DECAY_TICK_INTERVAL" default:"1s"`
	ViolationWindow     time.Duration `envconfig:"VIOLATION_WINDOW" default:"60s"`
	EscalationThreshold int           `envconfig:"ESCALATION_THRESHOLD" default:"3"`
	AlertHistoryLimit   int           `envconfig:"ALERT_HISTORY_LIMIT" default:"1000"`
	AuditQueueSize      int           `envconfig:"AUDIT_QUEUE_SIZE" default:"256"`

	// Evidence collection
	ScreenshotInterval time.Duration `envconfig:"SCREENSHOT_INTERVAL" default:"60s"`
	ScreenshotDir      string        `envconfig:"SCREENSHOT_DIR" default:"screenshots"`

	// Calibration
	CalibrationFile string `envconfig:"CALIBRATION_FILE" default:"calibration_settings.json"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
