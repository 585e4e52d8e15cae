package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("journal: session not found")

const sessionColumns = "id, transcript, resource, transport, phrase_count, started_at, ended_at, final_status"

// StartSession inserts a new open session. StartedAt defaults to now.
func (s *Store) StartSession(ctx context.Context, session Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("journal: session id is required")
	}
	started := session.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO sessions (id, transcript, resource, transport, phrase_count, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Transcript,
		session.Resource,
		session.Transport,
		session.PhraseCount,
		formatTime(started),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// EndSession closes a session with its final controller status.
func (s *Store) EndSession(ctx context.Context, id, finalStatus string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE sessions SET ended_at = ?, final_status = ? WHERE id = ?`,
		formatTime(time.Now()), finalStatus, id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// GetSession fetches a single session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns the most recent sessions first. A limit of 0 or less
// returns every session.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		session     Session
		startedRaw  string
		endedRaw    sql.NullString
		finalStatus sql.NullString
	)
	if err := scanner.Scan(
		&session.ID,
		&session.Transcript,
		&session.Resource,
		&session.Transport,
		&session.PhraseCount,
		&startedRaw,
		&endedRaw,
		&finalStatus,
	); err != nil {
		return nil, err
	}
	session.StartedAt = parseTime(startedRaw)
	if endedRaw.Valid {
		ended := parseTime(endedRaw.String)
		session.EndedAt = &ended
	}
	session.FinalStatus = finalStatus.String
	return &session, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
