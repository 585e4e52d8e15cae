package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"parley/internal/journal"
	"parley/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if store.Path() != filepath.Join(cfg.Paths.StateDir, "journal.db") {
		t.Fatalf("unexpected journal path %q", store.Path())
	}
	testsupport.StartSession(t, store, "s-1")
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	if err := reopened.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := reopened.GetSession(context.Background(), "s-1"); err != nil {
		t.Fatalf("expected session to survive reopen: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	testsupport.StartSession(t, store, "s-1")
	got, err := store.GetSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.EndedAt != nil || got.FinalStatus != "" {
		t.Fatalf("expected open session, got %+v", got)
	}
	if got.PhraseCount != 3 || got.Transport != "clock" {
		t.Fatalf("unexpected session fields: %+v", got)
	}

	if err := store.EndSession(ctx, "s-1", "completed"); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	got, err = store.GetSession(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.EndedAt == nil || got.FinalStatus != "completed" {
		t.Fatalf("expected closed session, got %+v", got)
	}
	if got.Duration() < 0 {
		t.Fatalf("negative duration %v", got.Duration())
	}
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, journal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.EndSession(ctx, "missing", "idle"); !errors.Is(err, journal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from EndSession, got %v", err)
	}
}

func TestStartSessionRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if err := store.StartSession(context.Background(), journal.Session{}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "middle", "new"} {
		session := journal.Session{ID: id, Transcript: "t.json", Resource: "a.mp3", Transport: "clock", StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.StartSession(ctx, session); err != nil {
			t.Fatalf("StartSession %s: %v", id, err)
		}
	}

	all, err := store.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(all) != 3 || all[0].ID != "new" || all[2].ID != "old" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if !all[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("started_at round trip mismatch: %v", all[0].StartedAt)
	}

	limited, err := store.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("ListSessions limited: %v", err)
	}
	if len(limited) != 2 || limited[1].ID != "middle" {
		t.Fatalf("unexpected limited result: %+v", limited)
	}
}

func TestRecordAndEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()
	testsupport.StartSession(t, store, "s-1")

	phrase := 1
	position := int64(1250)
	if _, err := store.Record(ctx, journal.Event{SessionID: "s-1", Kind: journal.EventState, Detail: "playing"}); err != nil {
		t.Fatalf("Record state: %v", err)
	}
	if _, err := store.Record(ctx, journal.Event{SessionID: "s-1", Kind: journal.EventPhrase, PhraseIndex: &phrase, PositionMs: &position}); err != nil {
		t.Fatalf("Record phrase: %v", err)
	}

	events, err := store.Events(ctx, "s-1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != journal.EventState || events[0].Detail != "playing" || events[0].PhraseIndex != nil {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	second := events[1]
	if second.PhraseIndex == nil || *second.PhraseIndex != 1 {
		t.Fatalf("expected phrase index 1, got %+v", second.PhraseIndex)
	}
	if second.PositionMs == nil || *second.PositionMs != 1250 {
		t.Fatalf("expected position 1250, got %+v", second.PositionMs)
	}
	if second.Detail != "" {
		t.Fatalf("expected empty detail, got %q", second.Detail)
	}
}

func TestRecordRejectsUnknownSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if _, err := store.Record(context.Background(), journal.Event{SessionID: "ghost", Kind: journal.EventError}); err == nil {
		t.Fatal("expected foreign key violation for unknown session")
	}
}
