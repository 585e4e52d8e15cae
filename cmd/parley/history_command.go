package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"parley/internal/journal"
)

type historySession struct {
	ID          string     `json:"id"`
	Transcript  string     `json:"transcript"`
	Resource    string     `json:"resource"`
	Transport   string     `json:"transport"`
	PhraseCount int        `json:"phrase_count"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	FinalStatus string     `json:"final_status,omitempty"`
}

type historyEvent struct {
	At          time.Time `json:"at"`
	Kind        string    `json:"kind"`
	PhraseIndex *int      `json:"phrase_index,omitempty"`
	PositionMs  *int64    `json:"position_ms,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

type historyDetail struct {
	historySession
	Events []historyEvent `json:"events"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past playback sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				sessions, err := store.ListSessions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					out := make([]historySession, 0, len(sessions))
					for _, s := range sessions {
						out = append(out, toHistorySession(s))
					}
					return writeJSON(cmd, out)
				}
				if len(sessions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
					return nil
				}
				rows := make([][]string, 0, len(sessions))
				for _, s := range sessions {
					rows = append(rows, []string{
						shortID(s.ID),
						s.StartedAt.Local().Format("2006-01-02 15:04:05"),
						formatSessionDuration(s),
						displayStatus(s.FinalStatus, s.EndedAt != nil),
						strconv.Itoa(s.PhraseCount),
						s.Transcript,
					})
				}
				writeTable(cmd.OutOrStdout(), tableLayout{
					Headers: []string{"ID", "Started", "Duration", "Status", "Phrases", "Transcript"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
				})
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list (0 for all)")
	addJSONFlag(cmd, &asJSON, "sessions")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the events recorded for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				session, err := findSession(cmd, store, args[0])
				if err != nil {
					return err
				}
				events, err := store.Events(cmd.Context(), session.ID)
				if err != nil {
					return err
				}

				if asJSON {
					detail := historyDetail{historySession: toHistorySession(*session), Events: make([]historyEvent, 0, len(events))}
					for _, e := range events {
						detail.Events = append(detail.Events, historyEvent{
							At:          e.At,
							Kind:        string(e.Kind),
							PhraseIndex: e.PhraseIndex,
							PositionMs:  e.PositionMs,
							Detail:      e.Detail,
						})
					}
					return writeJSON(cmd, detail)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session:    %s\n", session.ID)
				fmt.Fprintf(out, "Transcript: %s\n", session.Transcript)
				fmt.Fprintf(out, "Audio:      %s\n", session.Resource)
				fmt.Fprintf(out, "Transport:  %s\n", session.Transport)
				fmt.Fprintf(out, "Started:    %s\n", session.StartedAt.Local().Format(time.RFC3339))
				fmt.Fprintf(out, "Duration:   %s\n", formatSessionDuration(*session))
				fmt.Fprintf(out, "Status:     %s\n", displayStatus(session.FinalStatus, session.EndedAt != nil))
				if len(events) == 0 {
					fmt.Fprintln(out, "No events recorded")
					return nil
				}
				rows := make([][]string, 0, len(events))
				for _, e := range events {
					phrase, position := "", ""
					if e.PhraseIndex != nil {
						phrase = strconv.Itoa(*e.PhraseIndex + 1)
					}
					if e.PositionMs != nil {
						position = formatMs(*e.PositionMs)
					}
					rows = append(rows, []string{
						e.At.Local().Format("15:04:05.000"),
						string(e.Kind),
						phrase,
						position,
						e.Detail,
					})
				}
				writeTable(out, tableLayout{
					Headers:  []string{"At", "Kind", "Phrase", "Position", "Detail"},
					Rows:     rows,
					Aligns:   []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
					MaxWidth: map[int]int{4: 60},
				})
				return nil
			})
		},
	}

	addJSONFlag(cmd, &asJSON, "the session and its events")
	return cmd
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return errors.New("journal is disabled; set [journal] enabled = true to record sessions")
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// findSession accepts a full id or a unique prefix as printed by `history`.
func findSession(cmd *cobra.Command, store *journal.Store, id string) (*journal.Session, error) {
	id = strings.TrimSpace(id)
	session, err := store.GetSession(cmd.Context(), id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, journal.ErrNotFound) {
		return nil, err
	}
	all, err := store.ListSessions(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *journal.Session
	for i := range all {
		if id == "" || !strings.HasPrefix(all[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("session prefix %q is ambiguous", id)
		}
		match = &all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return match, nil
}

func toHistorySession(s journal.Session) historySession {
	return historySession{
		ID:          s.ID,
		Transcript:  s.Transcript,
		Resource:    s.Resource,
		Transport:   s.Transport,
		PhraseCount: s.PhraseCount,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		FinalStatus: s.FinalStatus,
	}
}

func formatSessionDuration(s journal.Session) string {
	if s.EndedAt == nil {
		return "-"
	}
	return s.Duration().Round(time.Second).String()
}

func displayStatus(status string, ended bool) string {
	if !ended {
		return "running"
	}
	if status == "" {
		return "unknown"
	}
	return status
}
