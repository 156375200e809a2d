package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "MEETBOT_"

// Config captures environment driven configuration values for the bot.
type Config struct {
	BotToken             string        `env:"BOT_TOKEN"`
	SQLitePath           string        `env:"SQLITE_PATH" envDefault:"meetbot.db"`
	AdminIDs             IdentityList  `env:"ADMIN_IDS"`
	PageSize             int           `env:"PAGE_SIZE" envDefault:"10"`
	SessionIdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	ControlSecret        string        `env:"CONTROL_SECRET"`
	PollTimeout          time.Duration `env:"POLL_TIMEOUT" envDefault:"30s"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
}

// IdentityList is a comma separated list of chat identities.
type IdentityList []int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *IdentityList) UnmarshalText(text []byte) error {
	var out IdentityList
	for _, part := range strings.Split(string(text), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid identity %q", part)
		}
		out = append(out, id)
	}
	*l = out
	return nil
}

// Load parses configuration values from the current process environment.
//
// Optional fields receive defaults; malformed values are reported together
// so an operator can fix every variable in one pass.
func Load() (Config, error) {
	var cfg Config
	invalid := make([]string, 0, 2)

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		var aggregate env.AggregateError
		if !errors.As(err, &aggregate) {
			return Config{}, fmt.Errorf("parse env: %w", err)
		}
		for _, item := range aggregate.Errors {
			var parseErr env.ParseError
			if errors.As(item, &parseErr) {
				invalid = append(invalid, envPrefix+fieldKeys[parseErr.Name])
				continue
			}
			return Config{}, fmt.Errorf("parse env: %w", item)
		}
	}

	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	cfg.SQLitePath = strings.TrimSpace(cfg.SQLitePath)

	if cfg.SQLitePath == "" {
		invalid = append(invalid, envPrefix+"SQLITE_PATH")
	}
	if cfg.PageSize <= 0 && !contains(invalid, envPrefix+"PAGE_SIZE") {
		invalid = append(invalid, envPrefix+"PAGE_SIZE")
	}
	if cfg.SessionIdleTimeout <= 0 && !contains(invalid, envPrefix+"SESSION_IDLE_TIMEOUT") {
		invalid = append(invalid, envPrefix+"SESSION_IDLE_TIMEOUT")
	}
	if cfg.SessionSweepInterval <= 0 && !contains(invalid, envPrefix+"SESSION_SWEEP_INTERVAL") {
		invalid = append(invalid, envPrefix+"SESSION_SWEEP_INTERVAL")
	}
	if cfg.PollTimeout < 0 && !contains(invalid, envPrefix+"POLL_TIMEOUT") {
		invalid = append(invalid, envPrefix+"POLL_TIMEOUT")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RequireBot reports the variables needed to talk to Telegram that are unset.
func (c Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("required environment variables are not set: %s", envPrefix+"BOT_TOKEN")
	}
	return nil
}

// IsAdmin reports whether id is listed in the bootstrap administrator list.
func (c Config) IsAdmin(id int64) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

var fieldKeys = map[string]string{
	"BotToken":             "BOT_TOKEN",
	"SQLitePath":           "SQLITE_PATH",
	"AdminIDs":             "ADMIN_IDS",
	"PageSize":             "PAGE_SIZE",
	"SessionIdleTimeout":   "SESSION_IDLE_TIMEOUT",
	"SessionSweepInterval": "SESSION_SWEEP_INTERVAL",
	"ControlSecret":        "CONTROL_SECRET",
	"PollTimeout":          "POLL_TIMEOUT",
	"LogLevel":             "LOG_LEVEL",
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
