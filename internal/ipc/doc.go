// Package ipc exposes a running playback session over JSON-RPC on a Unix
// socket and ships the matching client used by `parley ctl`.
//
// The server wraps anything satisfying Target (in practice the session's
// playback.Controller) and translates each RPC into one controller command.
// Controller errors travel back to the client as RPC errors; state is always
// returned as a fresh StatusResponse snapshot.
package ipc
