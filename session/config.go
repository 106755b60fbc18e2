package session

import "time"

const defaultPollInterval = 60 * time.Second
const defaultTickInterval = 1 * time.Second
const defaultWarnThreshold = 10 * time.Minute
const defaultLoginPath = "/"

// ExpiredQueryMarker distinguishes a forced-expiry redirect from a plain
// "please log in" one, so the entry page can show a specific message.
const ExpiredQueryMarker = "expired=true"

type Config struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	WarnThreshold time.Duration `mapstructure:"warn_threshold"`
	LoginPath     string        `mapstructure:"login_path"`
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.WarnThreshold <= 0 {
		c.WarnThreshold = defaultWarnThreshold
	}
	if c.LoginPath == "" {
		c.LoginPath = defaultLoginPath
	}
	return c
}

func (c Config) warnSeconds() int64 {
	return int64(c.WarnThreshold / time.Second)
}

func (c Config) expiredTarget() string {
	return c.LoginPath + "?" + ExpiredQueryMarker
}
