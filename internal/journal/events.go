package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Record appends an event to a session. At defaults to now.
func (s *Store) Record(ctx context.Context, event Event) (int64, error) {
	if event.SessionID == "" {
		return 0, errors.New("journal: event session id is required")
	}
	if event.Kind == "" {
		return 0, errors.New("journal: event kind is required")
	}
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	var phrase, position sql.NullInt64
	if event.PhraseIndex != nil {
		phrase = sql.NullInt64{Int64: int64(*event.PhraseIndex), Valid: true}
	}
	if event.PositionMs != nil {
		position = sql.NullInt64{Int64: *event.PositionMs, Valid: true}
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO events (session_id, at, kind, phrase_index, position_ms, detail)
         VALUES (?, ?, ?, ?, ?, ?)`,
		event.SessionID,
		formatTime(at),
		string(event.Kind),
		phrase,
		position,
		nullableString(event.Detail),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Events returns a session's events in insertion order.
func (s *Store) Events(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, session_id, at, kind, phrase_index, position_ms, detail
         FROM events WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event    Event
			atRaw    string
			kind     string
			phrase   sql.NullInt64
			position sql.NullInt64
			detail   sql.NullString
		)
		if err := rows.Scan(&event.ID, &event.SessionID, &atRaw, &kind, &phrase, &position, &detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.At = parseTime(atRaw)
		event.Kind = EventKind(kind)
		if phrase.Valid {
			idx := int(phrase.Int64)
			event.PhraseIndex = &idx
		}
		if position.Valid {
			pos := position.Int64
			event.PositionMs = &pos
		}
		event.Detail = detail.String
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
