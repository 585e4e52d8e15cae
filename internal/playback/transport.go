package playback

import "context"

// Transport loads audio resources. It is the only way the controller
// acquires a Track.
type Transport interface {
	Load(ctx context.Context, resource string) (Track, error)
}

// Track is a loaded audio resource. Positions are in milliseconds of track
// time. Volume is nominally within [0, 1]; out-of-range values are passed
// through unchanged.
type Track interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, positionMs int64) error
	PositionMs(ctx context.Context) (int64, error)
	SetVolume(ctx context.Context, volume float64) error
	Unload(ctx context.Context) error
}

// Finisher is implemented by tracks that know when their media ran out on
// its own. A finished track completes playback even if its last position is
// short of the timeline end.
type Finisher interface {
	Finished() bool
}

// Sized is implemented by tracks that know their media length. A zero
// length means unknown.
type Sized interface {
	DurationMs() int64
}
