// Package session is the composition root behind `parley play`.
//
// Start takes the exclusive session lock, loads the transcript, builds the
// timeline, picks the configured transport, opens the playback controller,
// starts the journal recorder and the control socket. Close tears all of it
// down in reverse order and is safe to call on every exit path.
package session
