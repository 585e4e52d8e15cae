package ffplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"parley/internal/logging"
	"parley/internal/media/ffprobe"
	"parley/internal/playback"
)

// ErrUnloaded is returned by every Track method after Unload.
var ErrUnloaded = errors.New("ffplay: track unloaded")

// Prober reports the duration of an audio file in milliseconds.
type Prober func(ctx context.Context, binary, path string) (int64, error)

// Option configures a Transport.
type Option func(*Transport)

// WithLauncher injects a custom process launcher (primarily for tests).
func WithLauncher(l Launcher) Option {
	return func(t *Transport) {
		if l != nil {
			t.launcher = l
		}
	}
}

// WithProber replaces the ffprobe duration lookup.
func WithProber(p Prober) Option {
	return func(t *Transport) {
		if p != nil {
			t.probe = p
		}
	}
}

// WithNow replaces the wall clock used for position tracking.
func WithNow(now func() time.Time) Option {
	return func(t *Transport) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logging.NewComponentLogger(logger, "transport.ffplay")
	}
}

// Transport loads files for playback through ffplay.
type Transport struct {
	binary        string
	ffprobeBinary string
	launcher      Launcher
	probe         Prober
	now           func() time.Time
	logger        *slog.Logger
}

// New constructs an ffplay transport.
func New(binary, ffprobeBinary string, opts ...Option) (*Transport, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffplay binary required")
	}
	t := &Transport{
		binary:        binary,
		ffprobeBinary: strings.TrimSpace(ffprobeBinary),
		launcher:      execLauncher{},
		probe:         probeDuration,
		now:           time.Now,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func probeDuration(ctx context.Context, binary, path string) (int64, error) {
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return 0, err
	}
	if err := result.Validate(); err != nil {
		return 0, err
	}
	return result.DurationMs(), nil
}

// Load implements playback.Transport. The file must exist; its duration is
// probed once so positions can be capped.
func (t *Transport) Load(ctx context.Context, resource string) (playback.Track, error) {
	info, err := os.Stat(resource)
	if err != nil {
		return nil, fmt.Errorf("ffplay load: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("ffplay load: %s is a directory", resource)
	}
	durationMs, err := t.probe(ctx, t.ffprobeBinary, resource)
	if err != nil {
		return nil, fmt.Errorf("ffplay load: probe duration: %w", err)
	}
	t.logger.Debug("track loaded",
		logging.String("resource", resource),
		logging.Int64("duration_ms", durationMs),
	)
	return &Track{transport: t, path: resource, durationMs: durationMs, volume: 1}, nil
}

// Track is an ffplay-backed playback.Track.
type Track struct {
	mu         sync.Mutex
	transport  *Transport
	path       string
	durationMs int64
	baseMs     int64
	startedAt  time.Time
	proc       Process
	volume     float64
	unloaded   bool
}

// Args returns the ffplay arguments used to start playback at positionMs.
func Args(path string, positionMs int64, volume float64) []string {
	return []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(float64(positionMs)/1000, 'f', 3, 64),
		"-volume", strconv.Itoa(volumePercent(volume)),
		path,
	}
}

// volumePercent maps [0,1] onto ffplay's 0..100 scale; ffplay rejects values
// outside that range.
func volumePercent(volume float64) int {
	if math.IsNaN(volume) {
		return 0
	}
	pct := int(math.Round(volume * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (t *Track) Play(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	if t.runningLocked() {
		return nil
	}
	if t.proc != nil {
		t.baseMs = t.positionLocked()
		t.proc = nil
	}
	return t.startLocked()
}

func (t *Track) Pause(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	if t.proc == nil {
		return nil
	}
	t.baseMs = t.positionLocked()
	return t.stopLocked()
}

func (t *Track) Seek(_ context.Context, positionMs int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	t.baseMs = t.clampLocked(positionMs)
	if !t.runningLocked() {
		t.proc = nil
		return nil
	}
	return t.restartLocked()
}

func (t *Track) PositionMs(context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return 0, ErrUnloaded
	}
	if p, ok := t.proc.(*execProcess); ok && p.Exited() {
		if err := p.exitError(); err != nil {
			return 0, fmt.Errorf("ffplay exited: %w", err)
		}
	}
	return t.positionLocked(), nil
}

// Finished reports that ffplay exited on its own, which with -autoexit means
// the file played to its end. Pause and Seek clear it.
func (t *Track) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.unloaded && t.proc != nil && t.proc.Exited()
}

// DurationMs returns the probed file length.
func (t *Track) DurationMs() int64 {
	return t.durationMs
}

func (t *Track) SetVolume(_ context.Context, volume float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	t.volume = volume
	if !t.runningLocked() {
		return nil
	}
	t.baseMs = t.positionLocked()
	return t.restartLocked()
}

func (t *Track) Unload(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unloaded {
		return ErrUnloaded
	}
	t.unloaded = true
	if t.proc == nil {
		return nil
	}
	return t.stopLocked()
}

func (t *Track) runningLocked() bool {
	return t.proc != nil && !t.proc.Exited()
}

func (t *Track) startLocked() error {
	args := Args(t.path, t.baseMs, t.volume)
	proc, err := t.transport.launcher.Start(t.transport.binary, args)
	if err != nil {
		return err
	}
	t.proc = proc
	t.startedAt = t.transport.now()
	t.transport.logger.Debug("ffplay started",
		logging.Int64("offset_ms", t.baseMs),
		logging.Int("volume_pct", volumePercent(t.volume)),
	)
	return nil
}

func (t *Track) stopLocked() error {
	proc := t.proc
	t.proc = nil
	if err := proc.Stop(); err != nil {
		return fmt.Errorf("stop ffplay: %w", err)
	}
	return nil
}

func (t *Track) restartLocked() error {
	if err := t.stopLocked(); err != nil {
		return err
	}
	return t.startLocked()
}

// positionLocked keeps counting after a natural exit so the reported
// position reaches the (capped) end of the file.
func (t *Track) positionLocked() int64 {
	pos := t.baseMs
	if t.proc != nil {
		pos += t.transport.now().Sub(t.startedAt).Milliseconds()
	}
	return t.clampLocked(pos)
}

func (t *Track) clampLocked(pos int64) int64 {
	if pos < 0 {
		return 0
	}
	if t.durationMs > 0 && pos > t.durationMs {
		return t.durationMs
	}
	return pos
}
