// Package logging builds the slog loggers used across parley.
//
// New and NewFromConfig assemble a console ("pretty") or JSON handler over
// the configured outputs. A playback session tees its records into a
// per-session log file and stamps them with the session identifier, while the
// terminal only receives warnings so it stays free for the phrase display.
//
// Use the attribute helpers and Field constants rather than ad-hoc keys so
// warnings carry the same event_type / error_hint / impact shape everywhere.
package logging
