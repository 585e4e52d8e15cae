package config

const (
	defaultConfigPath            = "~/.config/parley/config.toml"
	defaultStateDir              = "~/.local/share/parley"
	defaultLogDir                = "~/.local/share/parley/logs"
	defaultTransport             = TransportFFplay
	defaultPollIntervalMs        = 100
	defaultVolume                = 0.5
	defaultCommandTimeoutSeconds = 5
	defaultFFplayBinary          = "ffplay"
	defaultFFprobeBinary         = "ffprobe"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
)

// Transport names accepted by playback.transport.
const (
	TransportFFplay = "ffplay"
	TransportClock  = "clock"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Playback: Playback{
			Transport:             defaultTransport,
			PollIntervalMs:        defaultPollIntervalMs,
			DefaultVolume:         defaultVolume,
			CommandTimeoutSeconds: defaultCommandTimeoutSeconds,
		},
		FFplay: FFplay{
			Binary:        defaultFFplayBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
