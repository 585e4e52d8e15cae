package journal

import "time"

// EventKind classifies a journal event.
type EventKind string

const (
	// EventState records a controller status change.
	EventState EventKind = "state"
	// EventPhrase records the active phrase moving during playback.
	EventPhrase EventKind = "phrase"
	// EventVolume records a volume change.
	EventVolume EventKind = "volume"
	// EventError records a failure reported to the user.
	EventError EventKind = "error"
)

// Session is one `parley play` run.
type Session struct {
	ID          string
	Transcript  string
	Resource    string
	Transport   string
	PhraseCount int
	StartedAt   time.Time
	EndedAt     *time.Time
	FinalStatus string
}

// Duration returns how long the session ran, or zero while it is open.
func (s Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Event is a single journal entry attached to a session. PhraseIndex and
// PositionMs are nil when the event has no position context.
type Event struct {
	ID          int64
	SessionID   string
	At          time.Time
	Kind        EventKind
	PhraseIndex *int
	PositionMs  *int64
	Detail      string
}
