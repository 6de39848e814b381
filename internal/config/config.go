package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/almanac/internal/calendar"
)

// CalendarConfig holds the base working calendar. Project files may
// override the workdays and add holidays on top of it.
type CalendarConfig struct {
	Workdays []string `mapstructure:"workdays"`
	Holidays []string `mapstructure:"holidays"`
}

// CriticalPathConfig holds critical path analysis settings.
type CriticalPathConfig struct {
	Mode string `mapstructure:"mode"`
}

// TelemetryConfig holds settings for the JSONL event log.
type TelemetryConfig struct {
	// Path is the event log file. Empty disables telemetry.
	Path string `mapstructure:"path"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration for an almanac invocation.
// Values are populated from .almanac.yaml, ALMANAC_* env vars, and CLI flags.
type Config struct {
	Calendar     CalendarConfig     `mapstructure:"calendar"`
	CriticalPath CriticalPathConfig `mapstructure:"critical_path"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Watch        WatchConfig        `mapstructure:"watch"`
	Color        bool               `mapstructure:"color"`
	Verbose      bool               `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("calendar.workdays", []string{"mon", "tue", "wed", "thu", "fri"})
	viper.SetDefault("calendar.holidays", []string{})
	viper.SetDefault("critical_path.mode", "strict")
	viper.SetDefault("telemetry.path", "")
	viper.SetDefault("watch.debounce", 100*time.Millisecond)
	viper.SetDefault("color", true)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := cfg.BaseCalendar(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BaseCalendar builds the configured calendar.
func (c Config) BaseCalendar() (calendar.Calendar, error) {
	days, err := calendar.ParseWeekdays(c.Calendar.Workdays)
	if err != nil {
		return calendar.Calendar{}, fmt.Errorf("config calendar.workdays: %w", err)
	}
	holidays := make([]calendar.Date, 0, len(c.Calendar.Holidays))
	for _, h := range c.Calendar.Holidays {
		d, err := calendar.ParseDate(h)
		if err != nil {
			return calendar.Calendar{}, fmt.Errorf("config calendar.holidays: %w", err)
		}
		holidays = append(holidays, d)
	}
	cal := calendar.New(days, holidays...)
	if err := cal.Validate(); err != nil {
		return calendar.Calendar{}, fmt.Errorf("config calendar: %w", err)
	}
	return cal, nil
}
