// Package config provides configuration loading, validation, and management
// for laporbot. It reads defaults, an optional YAML file, a .env file and
// environment variables, and validates the result once at startup.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // report timezones must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfiguration marks every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// Config holds the complete application configuration. It is built once at
// startup and treated as read-only afterwards.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// SheetsConfig holds the spreadsheet backend settings.
type SheetsConfig struct {
	// CredentialsFile is a Google service account key in JSON form.
	CredentialsFile string `mapstructure:"credentials_file" validate:"required,file"`
	// SpreadsheetName is resolved through Google Drive when SpreadsheetID is empty.
	SpreadsheetName string `mapstructure:"spreadsheet_name" validate:"required_without=SpreadsheetID"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	// Worksheet selects the tab rows are appended to; empty means the first one.
	Worksheet        string        `mapstructure:"worksheet"`
	ValueInputOption string        `mapstructure:"value_input_option" validate:"oneof=RAW USER_ENTERED"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"    validate:"min=1s,max=5m"`
}

// ReportsConfig controls how parsed reports become rows.
type ReportsConfig struct {
	// Timezone is an IANA name used for the timestamp column ("Local" for the host zone).
	Timezone string `mapstructure:"timezone" validate:"required"`
	// SkipEmptyLines drops report lines that contain no fields instead of
	// appending a row with only the sender columns.
	SkipEmptyLines bool `mapstructure:"skip_empty_lines"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// MessagesConfig holds every user-facing text the bot sends.
type MessagesConfig struct {
	Welcome   string `mapstructure:"welcome"    validate:"required"`
	Help      string `mapstructure:"help"       validate:"required"`
	Saved     string `mapstructure:"saved"      validate:"required"`
	SaveError string `mapstructure:"save_error" validate:"required"`
	NotReport string `mapstructure:"not_report" validate:"required"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a cron expression with a leading seconds field.
	Schedule string `mapstructure:"schedule"`
}

// Location returns the time zone used for report timestamps.
func (c ReportsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// envBindings maps config keys to the environment variables the bot has
// always been deployed with.
var envBindings = map[string]string{
	"telegram.token":          "TELEGRAM_TOKEN",
	"sheets.credentials_file": "CREDENTIALS_FILE",
	"sheets.spreadsheet_name": "SPREADSHEET_NAME",
	"sheets.spreadsheet_id":   "SPREADSHEET_ID",
	"sheets.worksheet":        "WORKSHEET_NAME",
	"logger.level":            "LOG_LEVEL",
	"reports.timezone":        "REPORT_TIMEZONE",
}

// LoadConfig reads configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the environment, in
// increasing order of precedence. It fails fast when a required value is
// missing so that a misconfigured bot never starts polling.
func LoadConfig(path string) (*Config, error) {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to read .env file: %w", ErrConfiguration, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LAPORBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		// BindEnv with an explicit name only fails on an empty key.
		_ = v.BindEnv(key, "LAPORBOT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfiguration, path, err)
			}
			// The file is optional; environment variables are enough to run.
			slog.Debug("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	slog.Debug("Configuration loaded",
		"spreadsheet_name", cfg.Sheets.SpreadsheetName,
		"spreadsheet_id", cfg.Sheets.SpreadsheetID,
		"worksheet", cfg.Sheets.Worksheet,
		"duration_ms", time.Since(startTime).Milliseconds())

	return cfg, nil
}

// Validate checks struct constraints and the values the validator cannot
// express, such as the time zone and task schedules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := c.Reports.Location(); err != nil {
		return fmt.Errorf("invalid reports.timezone %q: %w", c.Reports.Timezone, err)
	}
	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && strings.TrimSpace(task.Schedule) == "" {
			return fmt.Errorf("scheduler task %q is enabled but has no schedule", name)
		}
	}
	return nil
}
