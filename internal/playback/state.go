package playback

// Status is the controller's position in the playback state machine.
type Status int

const (
	// StatusIdle means playback never started.
	StatusIdle Status = iota
	// StatusPlaying means the track is playing and the position is polled.
	StatusPlaying
	// StatusPaused means the track was paused and will resume where it stopped.
	StatusPaused
	// StatusCompleted means the track reached the end of the last phrase.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the controller's observable state.
type State struct {
	Status       Status  `json:"status"`
	CurrentIndex int     `json:"current_index"`
	Volume       float64 `json:"volume"`
	// PausedAtMs is the track position captured by the last Pause. It is nil
	// once playback resumes or jumps elsewhere.
	PausedAtMs *int64 `json:"paused_at_ms,omitempty"`
	// Available is false until a track is loaded and again after Close or a
	// failed load.
	Available bool `json:"available"`
}

// Playing reports whether the track is currently playing.
func (s State) Playing() bool { return s.Status == StatusPlaying }

// Completed reports whether the track reached its end since the last play.
func (s State) Completed() bool { return s.Status == StatusCompleted }

// Stats counts polling activity.
type Stats struct {
	Polls        uint64
	PollFailures uint64
}
