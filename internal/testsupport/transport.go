package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"parley/internal/playback"
)

// FakeTransport hands out a single FakeTrack and records loads.
type FakeTransport struct {
	mu      sync.Mutex
	LoadErr error
	Track   *FakeTrack
	Loaded  []string
}

// NewFakeTransport returns a transport whose Load yields a fresh FakeTrack.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{Track: &FakeTrack{}}
}

// Load implements playback.Transport.
func (f *FakeTransport) Load(_ context.Context, resource string) (playback.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loaded = append(f.Loaded, resource)
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return f.Track, nil
}

// FakeTrack is a scripted playback.Track. Seek moves the reported position;
// tests advance it further with SetPosition. Every call is recorded.
type FakeTrack struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
	position int64
	volume   float64
	playing  bool
	unloads  int
}

// Fail makes the named method ("play", "pause", "seek", "position",
// "volume", "unload") return err until cleared with a nil err.
func (f *FakeTrack) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures == nil {
		f.failures = make(map[string]error)
	}
	if err == nil {
		delete(f.failures, method)
		return
	}
	f.failures[method] = err
}

// SetPosition sets the position reported by PositionMs.
func (f *FakeTrack) SetPosition(ms int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = ms
}

// Calls returns the recorded call log, e.g. "seek 1200", "play".
func (f *FakeTrack) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLog returns the recorded calls joined by ", ".
func (f *FakeTrack) CallLog() string {
	return strings.Join(f.Calls(), ", ")
}

// ResetCalls clears the call log.
func (f *FakeTrack) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Volume returns the last volume the track accepted.
func (f *FakeTrack) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

// IsPlaying reports whether Play was the last accepted play/pause call.
func (f *FakeTrack) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

// Unloads returns how many times Unload was called.
func (f *FakeTrack) Unloads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unloads
}

func (f *FakeTrack) record(method, call string) error {
	f.calls = append(f.calls, call)
	return f.failures[method]
}

// Play implements playback.Track.
func (f *FakeTrack) Play(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("play", "play"); err != nil {
		return err
	}
	f.playing = true
	return nil
}

// Pause implements playback.Track.
func (f *FakeTrack) Pause(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("pause", "pause"); err != nil {
		return err
	}
	f.playing = false
	return nil
}

// Seek implements playback.Track.
func (f *FakeTrack) Seek(_ context.Context, positionMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("seek", fmt.Sprintf("seek %d", positionMs)); err != nil {
		return err
	}
	f.position = positionMs
	return nil
}

// PositionMs implements playback.Track.
func (f *FakeTrack) PositionMs(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("position", "position"); err != nil {
		return 0, err
	}
	return f.position, nil
}

// SetVolume implements playback.Track.
func (f *FakeTrack) SetVolume(_ context.Context, volume float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("volume", fmt.Sprintf("volume %g", volume)); err != nil {
		return err
	}
	f.volume = volume
	return nil
}

// Unload implements playback.Track.
func (f *FakeTrack) Unload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unloads++
	if err := f.record("unload", "unload"); err != nil {
		return err
	}
	f.playing = false
	return nil
}
