// Package clock provides a silent transport whose tracks advance with a
// clock instead of an audio device. It backs `--transport clock` dry runs
// and the end-to-end tests, where a Manual clock makes position fully
// deterministic.
package clock

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"parley/internal/logging"
	"parley/internal/playback"
)

// ErrUnloaded is returned by every Track method after Unload.
var ErrUnloaded = errors.New("clock: track unloaded")

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Manual is a Clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Option configures a Transport.
type Option func(*Transport)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(t *Transport) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithLengthMs caps the reported position of loaded tracks. Zero means
// unbounded.
func WithLengthMs(ms int64) Option {
	return func(t *Transport) {
		if ms > 0 {
			t.lengthMs = ms
		}
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logging.NewComponentLogger(logger, "transport.clock")
	}
}

// Transport hands out clock-driven tracks.
type Transport struct {
	clock    Clock
	lengthMs int64
	logger   *slog.Logger
}

// New builds a clock transport.
func New(opts ...Option) *Transport {
	t := &Transport{clock: systemClock{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load implements playback.Transport. The resource is only named, never read.
func (t *Transport) Load(ctx context.Context, resource string) (playback.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resource) == "" {
		return nil, errors.New("clock: empty resource")
	}
	t.logger.Debug("track loaded",
		logging.String("resource", resource),
		logging.Int64("length_ms", t.lengthMs),
	)
	return &Track{clock: t.clock, lengthMs: t.lengthMs, volume: 1}, nil
}

// Track is a simulated playback.Track.
type Track struct {
	mu        sync.Mutex
	clock     Clock
	lengthMs  int64
	baseMs    int64
	startedAt time.Time
	playing   bool
	volume    float64
	unloaded  bool
}

func (t *Track) Play(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	if !t.playing {
		t.playing = true
		t.startedAt = t.clock.Now()
	}
	return nil
}

func (t *Track) Pause(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	if t.playing {
		t.baseMs = t.positionLocked()
		t.playing = false
	}
	return nil
}

func (t *Track) Seek(_ context.Context, positionMs int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	if positionMs < 0 {
		positionMs = 0
	}
	t.baseMs = positionMs
	if t.playing {
		t.startedAt = t.clock.Now()
	}
	return nil
}

func (t *Track) PositionMs(context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return 0, ErrUnloaded
	}
	return t.positionLocked(), nil
}

func (t *Track) SetVolume(_ context.Context, volume float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	t.volume = volume
	return nil
}

func (t *Track) Unload(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	t.unloaded = true
	t.playing = false
	return nil
}

// Volume reports the last volume set on the track.
func (t *Track) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

func (t *Track) positionLocked() int64 {
	pos := t.baseMs
	if t.playing {
		pos += t.clock.Now().Sub(t.startedAt).Milliseconds()
	}
	if t.lengthMs > 0 && pos > t.lengthMs {
		pos = t.lengthMs
	}
	return pos
}
