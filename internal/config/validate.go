package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateFFplay(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	switch c.Playback.Transport {
	case TransportFFplay, TransportClock:
	default:
		return fmt.Errorf("playback.transport must be %q or %q, got %q", TransportFFplay, TransportClock, c.Playback.Transport)
	}
	if err := ensurePositiveMap(map[string]int{
		"playback.poll_interval_ms":        c.Playback.PollIntervalMs,
		"playback.command_timeout_seconds": c.Playback.CommandTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Playback.DefaultVolume < 0 || c.Playback.DefaultVolume > 1 {
		return errors.New("playback.default_volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateFFplay() error {
	if c.Playback.Transport != TransportFFplay {
		return nil
	}
	if strings.TrimSpace(c.FFplay.Binary) == "" {
		return errors.New("ffplay.binary must be set when playback.transport is ffplay")
	}
	if strings.TrimSpace(c.FFplay.FFprobeBinary) == "" {
		return errors.New("ffplay.ffprobe_binary must be set when playback.transport is ffplay")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
