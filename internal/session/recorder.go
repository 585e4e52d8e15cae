package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"parley/internal/journal"
	"parley/internal/logging"
	"parley/internal/playback"
)

// recorder turns controller snapshots into journal events. Journal write
// failures are logged and otherwise ignored.
type recorder struct {
	store     *journal.Store
	sessionID string
	logger    *slog.Logger

	mu       sync.Mutex
	last     playback.State
	haveLast bool
	written  int
}

func newRecorder(store *journal.Store, sessionID string, logger *slog.Logger) *recorder {
	return &recorder{store: store, sessionID: sessionID, logger: logger}
}

// run consumes states until the channel closes.
func (r *recorder) run(states <-chan playback.State) {
	for state := range states {
		r.observe(state)
	}
}

func (r *recorder) observe(state playback.State) {
	r.mu.Lock()
	prev, havePrev := r.last, r.haveLast
	r.last, r.haveLast = state, true
	r.mu.Unlock()

	index := state.CurrentIndex
	if !havePrev || prev.Status != state.Status {
		r.write(journal.Event{Kind: journal.EventState, PhraseIndex: &index, PositionMs: state.PausedAtMs, Detail: state.Status.String()})
	} else if prev.CurrentIndex != state.CurrentIndex {
		r.write(journal.Event{Kind: journal.EventPhrase, PhraseIndex: &index})
	}
	if havePrev && prev.Volume != state.Volume {
		r.write(journal.Event{Kind: journal.EventVolume, Detail: strconv.FormatFloat(state.Volume, 'f', -1, 64)})
	}
}

// recordError writes an error event; used for failures reported to the user.
func (r *recorder) recordError(err error) {
	if err == nil {
		return
	}
	r.write(journal.Event{Kind: journal.EventError, Detail: err.Error()})
}

func (r *recorder) write(event journal.Event) {
	if r == nil || r.store == nil {
		return
	}
	event.SessionID = r.sessionID
	if _, err := r.store.Record(context.Background(), event); err != nil {
		logging.WarnWithContext(r.logger, "journal write failed", "journal_write_failed",
			logging.String("kind", string(event.Kind)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "session history will be incomplete"),
			logging.String(logging.FieldErrorHint, "run parley doctor to check the state directory"),
		)
		return
	}
	r.mu.Lock()
	r.written++
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}
