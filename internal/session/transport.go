package session

import (
	"fmt"
	"log/slog"

	"parley/internal/config"
	"parley/internal/playback"
	"parley/internal/timeline"
	"parley/internal/transport/clock"
	"parley/internal/transport/ffplay"
)

// NewTransport builds the transport named by cfg.Playback.Transport. The
// clock transport uses the timeline end as its track length; clk may be nil
// for wall time.
func NewTransport(cfg *config.Config, tl *timeline.Timeline, clk clock.Clock, logger *slog.Logger) (playback.Transport, error) {
	switch cfg.Playback.Transport {
	case config.TransportFFplay:
		return ffplay.New(cfg.FFplay.Binary, cfg.FFplay.FFprobeBinary, ffplay.WithLogger(logger))
	case config.TransportClock:
		return clock.New(clock.WithClock(clk), clock.WithLengthMs(tl.EndMs()), clock.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Playback.Transport)
	}
}
