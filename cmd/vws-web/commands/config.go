package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/vws"
	"vws-web-tools/lib/configutil"
)

const configName = "vws-web.json5"

type BrowserConfig struct {
	Headless  *bool  `json:"headless"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ExecPath  string `json:"exec_path"`
	UserAgent string `json:"user_agent"`
}

// TimeoutsConfig holds durations in time.ParseDuration format ("10s", "1m30s").
type TimeoutsConfig struct {
	Element  string `json:"element"`
	LoggedIn string `json:"logged_in"`
	Lookup   string `json:"lookup"`
	Refresh  string `json:"refresh"`
	Settle   string `json:"settle"`
	Interval string `json:"interval"`
}

type Config struct {
	EmailAddress  string         `json:"email_address"`
	Password      string         `json:"password"`
	BaseURL       string         `json:"base_url"`
	LoginAttempts int            `json:"login_attempts"`
	Browser       BrowserConfig  `json:"browser"`
	Timeouts      TimeoutsConfig `json:"timeouts"`
}

const defaultLoginAttempts = 3

// loadConfig reads `path` when given, it must exist then. Otherwise vws-web.json5 is
// searched for from the cwd upwards and may be missing.
func loadConfig(path string) (Config, error) {
	if path != "" {
		config, err := configutil.ReadConfig[Config](path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return config, nil
	}

	config, err := configutil.ReadRecursively[Config](configName)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return config, nil
}

func parseDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("timeouts.%s: %w", name, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("timeouts.%s must be positive, got %s", name, duration)
	}
	return duration, nil
}

func (c TimeoutsConfig) resolve() (vws.Timeouts, error) {
	out := vws.DefaultTimeouts()
	fields := []struct {
		name  string
		value string
		out   *time.Duration
	}{
		{"element", c.Element, &out.Element},
		{"logged_in", c.LoggedIn, &out.LoggedIn},
		{"lookup", c.Lookup, &out.Lookup},
		{"refresh", c.Refresh, &out.Refresh},
		{"settle", c.Settle, &out.Settle},
		{"interval", c.Interval, &out.Interval},
	}
	for _, field := range fields {
		duration, err := parseDuration(field.name, field.value, *field.out)
		if err != nil {
			return vws.Timeouts{}, err
		}
		*field.out = duration
	}
	return out, nil
}

func (c BrowserConfig) resolve(headless bool, headlessSet bool) browser.Options {
	out := browser.DefaultOptions()
	if c.Headless != nil {
		out.Headless = *c.Headless
	}
	if headlessSet {
		out.Headless = headless
	}
	if c.Width > 0 {
		out.Width = c.Width
	}
	if c.Height > 0 {
		out.Height = c.Height
	}
	out.ExecPath = c.ExecPath
	out.UserAgent = c.UserAgent
	return out
}
