package testsupport

import (
	"context"
	"testing"

	"parley/internal/config"
	"parley/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// StartSession inserts an open session with the given id.
func StartSession(t testing.TB, store *journal.Store, id string) journal.Session {
	t.Helper()

	session := journal.Session{
		ID:          id,
		Transcript:  "dialogue.json",
		Resource:    "dialogue.mp3",
		Transport:   config.TransportClock,
		PhraseCount: 3,
	}
	if err := store.StartSession(context.Background(), session); err != nil {
		t.Fatalf("store.StartSession: %v", err)
	}
	return session
}
