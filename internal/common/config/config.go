package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	API      APIConfig
	Calendar CalendarConfig
	Refresh  RefreshConfig
	Alert    AlertConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CalendarConfig controls how instants are mapped onto the viewer's
// calendar and which hour marks the timeline shows.
type CalendarConfig struct {
	Timezone      string // IANA name; empty means the process-local zone
	SlotStartHour int
	SlotEndHour   int
}

// RefreshConfig for periodic re-fetching of the schedule set
type RefreshConfig struct {
	Cron string // cron expression, e.g. "*/15 * * * *"; empty disables
}

// AlertConfig for the optional failure webhook
type AlertConfig struct {
	WebhookURL string
}

// ExportConfig for writing the current month as an iCalendar file
type ExportConfig struct {
	ICSPath string // empty disables the export
}

type LoggingConfig struct {
	Level    string
	FilePath string
}

func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: getDurationEnv("API_TIMEOUT", 30*time.Second),
		},
		Calendar: CalendarConfig{
			Timezone:      getEnv("CALENDAR_TIMEZONE", ""),
			SlotStartHour: getIntEnv("TIMELINE_SLOT_START", 6),
			SlotEndHour:   getIntEnv("TIMELINE_SLOT_END", 18),
		},
		Refresh: RefreshConfig{
			Cron: getEnv("REFRESH_CRON", ""),
		},
		Alert: AlertConfig{
			WebhookURL: getEnv("ALERT_WEBHOOK_URL", ""),
		},
		Export: ExportConfig{
			ICSPath: getEnv("ICS_EXPORT_PATH", ""),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "buscal.log"),
		},
	}

	if cfg.Calendar.SlotStartHour < 0 || cfg.Calendar.SlotEndHour > 23 ||
		cfg.Calendar.SlotStartHour > cfg.Calendar.SlotEndHour {
		return nil, fmt.Errorf("invalid timeline slot range %d..%d",
			cfg.Calendar.SlotStartHour, cfg.Calendar.SlotEndHour)
	}

	return cfg, nil
}

// Location resolves the configured timezone, falling back to the process
// local zone when unset.
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlotHours expands the configured slot range into the ordered hour marks
// of the timeline view.
func (c *CalendarConfig) SlotHours() []int {
	hours := make([]int, 0, c.SlotEndHour-c.SlotStartHour+1)
	for h := c.SlotStartHour; h <= c.SlotEndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
