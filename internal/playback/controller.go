package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"parley/internal/logging"
	"parley/internal/timeline"
)

const (
	// DefaultPollInterval is how often the track position is sampled while playing.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultVolume is applied when the track is loaded unless overridden.
	DefaultVolume = 0.5

	defaultCommandTimeout = 5 * time.Second
)

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for state transitions and transport faults.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithCommandTimeout bounds each position read issued by the poll loop.
func WithCommandTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.commandTimeout = timeout
		}
	}
}

// WithVolume sets the volume applied when the track is loaded.
func WithVolume(volume float64) Option {
	return func(c *Controller) {
		c.volume = volume
	}
}

// Controller drives a Track and keeps the current phrase index consistent
// with the track position.
//
// cmdMu serializes every transport call, including poll ticks, so at most
// one command is outstanding. stateMu guards the observable fields; they are
// only written while cmdMu is also held.
type Controller struct {
	tl             *timeline.Timeline
	transport      Transport
	logger         *slog.Logger
	pollInterval   time.Duration
	commandTimeout time.Duration

	cmdMu  sync.Mutex
	opened bool
	closed bool
	track  Track

	pollCtx    context.Context
	pollCancel context.CancelFunc
	pollWG     sync.WaitGroup

	stateMu     sync.RWMutex
	status      Status
	index       int
	volume      float64
	pausedAt    int64
	hasPausedAt bool

	subMu      sync.Mutex
	subs       map[int]chan State
	nextSub    int
	subsClosed bool

	polls        atomic.Uint64
	pollFailures atomic.Uint64
}

// New constructs a controller for tl. No transport call is made until Open.
func New(tl *timeline.Timeline, transport Transport, opts ...Option) *Controller {
	if tl == nil {
		tl = timeline.BuildFromSpeakers(nil, 0)
	}
	c := &Controller{
		tl:             tl,
		transport:      transport,
		logger:         logging.NewNop(),
		pollInterval:   DefaultPollInterval,
		commandTimeout: defaultCommandTimeout,
		volume:         DefaultVolume,
		subs:           make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "playback")
	return c
}

// Timeline returns the timeline the controller was built for.
func (c *Controller) Timeline() *timeline.Timeline { return c.tl }

// Phrases returns the ordered phrase sequence.
func (c *Controller) Phrases() []timeline.Phrase { return c.tl.Phrases() }

// State returns a snapshot of the observable state.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.snapshotLocked()
}

// Stats returns polling counters.
func (c *Controller) Stats() Stats {
	return Stats{Polls: c.polls.Load(), PollFailures: c.pollFailures.Load()}
}

func (c *Controller) snapshotLocked() State {
	s := State{
		Status:       c.status,
		CurrentIndex: c.index,
		Volume:       c.volume,
		Available:    c.track != nil && !c.closed,
	}
	if c.hasPausedAt {
		at := c.pausedAt
		s.PausedAtMs = &at
	}
	return s
}

// Open loads resource through the transport and applies the current volume.
// A failure is returned once; afterwards playback commands are no-ops.
func (c *Controller) Open(ctx context.Context, resource string) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.opened {
		return ErrAlreadyOpened
	}
	c.opened = true

	track, err := c.transport.Load(ctx, resource)
	if err != nil {
		err = fmt.Errorf("load %s: %w", resource, err)
		logging.ErrorWithContext(c.logger, "audio load failed; playback disabled", "transport_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the audio path and transport configuration"))
		return err
	}
	if err := track.SetVolume(ctx, c.volume); err != nil {
		if unloadErr := track.Unload(ctx); unloadErr != nil {
			c.logger.Warn("release track after failed setup",
				logging.Error(unloadErr),
				logging.String(logging.FieldEventType, "transport_unload_failed"))
		}
		err = fmt.Errorf("set initial volume: %w", err)
		logging.ErrorWithContext(c.logger, "audio setup failed; playback disabled", "transport_setup_failed", logging.Error(err))
		return err
	}

	if sized, ok := track.(Sized); ok {
		if d := sized.DurationMs(); d > 0 && d < c.tl.EndMs() {
			logging.WarnWithContext(c.logger, "audio is shorter than the transcript", "audio_shorter_than_timeline",
				logging.Int64("duration_ms", d),
				logging.Int64("end_ms", c.tl.EndMs()),
				logging.String(logging.FieldImpact, "playback completes when the audio ends"))
		}
	}

	c.commit(func() { c.track = track })
	c.logger.Info("audio loaded",
		logging.String("resource", resource),
		logging.Int("phrases", c.tl.Len()),
		logging.Int64("end_ms", c.tl.EndMs()))
	return nil
}

// Play starts or resumes playback. It resumes from the paused position when
// there is one, restarts from the first phrase after completion, and
// otherwise starts at the current phrase. Play while already playing is a
// no-op.
func (c *Controller) Play(ctx context.Context) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if err := c.usable(); err != nil || c.track == nil {
		return err
	}
	if c.status == StatusPlaying {
		return nil
	}

	index := c.index
	var target int64
	switch {
	case c.hasPausedAt:
		target = c.pausedAt
	case c.status == StatusCompleted:
		index = 0
		target = c.startOf(0)
	default:
		target = c.startOf(index)
	}

	if err := c.seekAndPlay(ctx, target); err != nil {
		return err
	}
	from := c.status
	c.commit(func() {
		c.status = StatusPlaying
		c.index = index
		c.hasPausedAt = false
	})
	c.startPolling()
	c.logger.Debug("playback started",
		logging.String("from", from.String()),
		logging.Int64("position_ms", target),
		logging.Int(logging.FieldPhraseIndex, index))
	return nil
}

// Pause captures the track position and pauses. It is a no-op unless playing.
func (c *Controller) Pause(ctx context.Context) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if err := c.usable(); err != nil || c.track == nil {
		return err
	}
	if c.status != StatusPlaying {
		return nil
	}

	position, err := c.track.PositionMs(ctx)
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}
	if err := c.track.Pause(ctx); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	c.stopPolling()
	c.commit(func() {
		c.status = StatusPaused
		c.pausedAt = position
		c.hasPausedAt = true
	})
	c.logger.Debug("playback paused",
		logging.Int64("position_ms", position),
		logging.Int(logging.FieldPhraseIndex, c.index))
	return nil
}

// Rewind jumps to the start of the previous phrase (clamped at the first) and
// plays from there.
func (c *Controller) Rewind(ctx context.Context) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if err := c.usable(); err != nil || c.track == nil || c.tl.Empty() {
		return err
	}
	return c.jumpTo(ctx, max(c.index-1, 0))
}

// Forward jumps to the start of the next phrase and plays from there. It is a
// no-op on the last phrase.
func (c *Controller) Forward(ctx context.Context) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if err := c.usable(); err != nil || c.track == nil {
		return err
	}
	if c.index >= c.tl.Len()-1 {
		return nil
	}
	return c.jumpTo(ctx, c.index+1)
}

// SetVolume forwards volume to the track and records it. The value is not
// clamped. Before Open, or when the load failed, only the recorded value
// changes.
func (c *Controller) SetVolume(ctx context.Context, volume float64) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if err := c.usable(); err != nil {
		return err
	}
	if c.track != nil {
		if err := c.track.SetVolume(ctx, volume); err != nil {
			return fmt.Errorf("set volume: %w", err)
		}
	}
	c.commit(func() { c.volume = volume })
	return nil
}

// Close stops polling and unloads the track. It is safe to call more than
// once; only the first call releases the track.
func (c *Controller) Close(ctx context.Context) error {
	c.cmdMu.Lock()
	if c.closed {
		c.cmdMu.Unlock()
		return nil
	}
	c.stopPolling()
	track := c.track
	var err error
	if track != nil {
		if unloadErr := track.Unload(ctx); unloadErr != nil {
			err = fmt.Errorf("unload: %w", unloadErr)
		}
	}
	c.commit(func() {
		c.closed = true
		c.track = nil
	})
	c.cmdMu.Unlock()

	c.pollWG.Wait()
	c.closeSubscribers()
	return err
}

func (c *Controller) usable() error {
	if c.closed {
		return ErrClosed
	}
	if c.track == nil && c.opened {
		c.logger.Debug("ignoring command; audio not loaded")
	}
	return nil
}

func (c *Controller) startOf(index int) int64 {
	if c.tl.Empty() {
		return 0
	}
	return c.tl.StartOffset(index)
}

func (c *Controller) seekAndPlay(ctx context.Context, positionMs int64) error {
	if err := c.track.Seek(ctx, positionMs); err != nil {
		return fmt.Errorf("seek to %dms: %w", positionMs, err)
	}
	if err := c.track.Play(ctx); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

func (c *Controller) jumpTo(ctx context.Context, index int) error {
	target := c.startOf(index)
	if err := c.seekAndPlay(ctx, target); err != nil {
		return err
	}
	c.commit(func() {
		c.status = StatusPlaying
		c.index = index
		c.hasPausedAt = false
	})
	c.startPolling()
	c.logger.Debug("jumped to phrase",
		logging.Int(logging.FieldPhraseIndex, index),
		logging.Int64("position_ms", target))
	return nil
}

// commit applies fn under the state lock and notifies subscribers. Callers
// must hold cmdMu.
func (c *Controller) commit(fn func()) {
	c.stateMu.Lock()
	fn()
	snapshot := c.snapshotLocked()
	c.stateMu.Unlock()
	c.publish(snapshot)
}

// startPolling launches the poll loop for a new generation unless one is
// already running. Callers must hold cmdMu.
func (c *Controller) startPolling() {
	if c.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCtx = ctx
	c.pollCancel = cancel
	c.pollWG.Add(1)
	go c.pollLoop(ctx)
}

// stopPolling cancels the running generation without waiting for it; a tick
// blocked on cmdMu observes the cancellation and returns. Callers must hold
// cmdMu.
func (c *Controller) stopPolling() {
	if c.pollCancel == nil {
		return
	}
	c.pollCancel()
	c.pollCancel = nil
	c.pollCtx = nil
}

func (c *Controller) pollLoop(ctx context.Context) {
	defer c.pollWG.Done()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick samples the track position once for the polling generation owning ctx.
func (c *Controller) tick(ctx context.Context) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if ctx.Err() != nil || c.track == nil || c.status != StatusPlaying {
		return
	}
	c.polls.Add(1)

	readCtx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	position, err := c.track.PositionMs(readCtx)
	cancel()
	if err != nil {
		c.pollFailures.Add(1)
		c.logger.Debug("position read failed; skipping tick", logging.Error(err))
		return
	}

	if position >= c.tl.EndMs() || c.trackFinished() {
		c.stopPolling()
		c.commit(func() {
			c.status = StatusCompleted
			c.index = 0
			c.hasPausedAt = false
		})
		c.logger.Info("playback completed", logging.Int64("position_ms", position))
		return
	}

	if next := c.tl.Resolve(position, c.index); next != c.index {
		c.commit(func() { c.index = next })
		c.logger.Debug("phrase advanced",
			logging.Int(logging.FieldPhraseIndex, next),
			logging.Int64("position_ms", position))
	}
}

func (c *Controller) trackFinished() bool {
	f, ok := c.track.(Finisher)
	return ok && f.Finished()
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only miss intermediate snapshots. The channel is
// closed by the returned cancel func or by Close; after Close it is
// returned already closed.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.subMu.Lock()
	if c.subsClosed {
		c.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if existing, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

func (c *Controller) publish(state State) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

func (c *Controller) closeSubscribers() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subsClosed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}
