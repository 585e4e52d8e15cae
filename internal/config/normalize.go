package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlayback()
	c.normalizeFFplay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayback() {
	if value, ok := os.LookupEnv("PARLEY_TRANSPORT"); ok && strings.TrimSpace(value) != "" {
		c.Playback.Transport = value
	}
	c.Playback.Transport = strings.ToLower(strings.TrimSpace(c.Playback.Transport))
	if c.Playback.Transport == "" {
		c.Playback.Transport = defaultTransport
	}
	if c.Playback.PollIntervalMs == 0 {
		c.Playback.PollIntervalMs = defaultPollIntervalMs
	}
	if c.Playback.CommandTimeoutSeconds == 0 {
		c.Playback.CommandTimeoutSeconds = defaultCommandTimeoutSeconds
	}
}

func (c *Config) normalizeFFplay() {
	c.FFplay.Binary = strings.TrimSpace(c.FFplay.Binary)
	if c.FFplay.Binary == "" {
		c.FFplay.Binary = defaultFFplayBinary
	}
	c.FFplay.FFprobeBinary = strings.TrimSpace(c.FFplay.FFprobeBinary)
	if c.FFplay.FFprobeBinary == "" {
		c.FFplay.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("PARLEY_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
