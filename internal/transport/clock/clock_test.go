package clock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"parley/internal/transport/clock"
)

func loadTrack(t *testing.T, opts ...clock.Option) (*clock.Track, *clock.Manual) {
	t.Helper()
	manual := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	transport := clock.New(append([]clock.Option{clock.WithClock(manual)}, opts...)...)
	track, err := transport.Load(context.Background(), "dialogue.mp3")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return track.(*clock.Track), manual
}

func position(t *testing.T, track *clock.Track) int64 {
	t.Helper()
	pos, err := track.PositionMs(context.Background())
	if err != nil {
		t.Fatalf("PositionMs: %v", err)
	}
	return pos
}

func TestPositionAdvancesOnlyWhilePlaying(t *testing.T) {
	ctx := context.Background()
	track, manual := loadTrack(t)

	manual.Advance(time.Second)
	if got := position(t, track); got != 0 {
		t.Fatalf("expected 0 before play, got %d", got)
	}

	if err := track.Play(ctx); err != nil {
		t.Fatalf("Play: %v", err)
	}
	manual.Advance(750 * time.Millisecond)
	if got := position(t, track); got != 750 {
		t.Fatalf("expected 750, got %d", got)
	}

	if err := track.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	manual.Advance(time.Second)
	if got := position(t, track); got != 750 {
		t.Fatalf("expected paused position 750, got %d", got)
	}

	if err := track.Play(ctx); err != nil {
		t.Fatalf("Play: %v", err)
	}
	manual.Advance(250 * time.Millisecond)
	if got := position(t, track); got != 1000 {
		t.Fatalf("expected 1000 after resume, got %d", got)
	}
}

func TestSeekWhilePlayingRebasesPosition(t *testing.T) {
	ctx := context.Background()
	track, manual := loadTrack(t)
	_ = track.Play(ctx)
	manual.Advance(400 * time.Millisecond)

	if err := track.Seek(ctx, 1200); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	manual.Advance(100 * time.Millisecond)
	if got := position(t, track); got != 1300 {
		t.Fatalf("expected 1300, got %d", got)
	}

	_ = track.Seek(ctx, -50)
	if got := position(t, track); got != 0 {
		t.Fatalf("expected negative seek clamped to 0, got %d", got)
	}
}

func TestLengthCapsPosition(t *testing.T) {
	ctx := context.Background()
	track, manual := loadTrack(t, clock.WithLengthMs(2600))
	_ = track.Play(ctx)
	manual.Advance(10 * time.Second)
	if got := position(t, track); got != 2600 {
		t.Fatalf("expected position capped at 2600, got %d", got)
	}
}

func TestUnloadedTrackRejectsCalls(t *testing.T) {
	ctx := context.Background()
	track, _ := loadTrack(t)
	if err := track.SetVolume(ctx, 0.3); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if track.Volume() != 0.3 {
		t.Fatalf("expected volume 0.3, got %v", track.Volume())
	}
	if err := track.Unload(ctx); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if err := track.Play(ctx); !errors.Is(err, clock.ErrUnloaded) {
		t.Fatalf("expected ErrUnloaded from Play, got %v", err)
	}
	if _, err := track.PositionMs(ctx); !errors.Is(err, clock.ErrUnloaded) {
		t.Fatalf("expected ErrUnloaded from PositionMs, got %v", err)
	}
	if err := track.Unload(ctx); !errors.Is(err, clock.ErrUnloaded) {
		t.Fatalf("expected second Unload to fail, got %v", err)
	}
}

func TestLoadRejectsEmptyResource(t *testing.T) {
	if _, err := clock.New().Load(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty resource")
	}
}
