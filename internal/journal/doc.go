// Package journal persists playback sessions and their events in SQLite.
//
// Each `parley play` run opens a session row, appends events as the
// controller changes state or reports failures, and stamps the final status
// on exit. `parley history` reads the same tables. The database runs in WAL
// mode and every write is retried briefly when SQLite reports it is busy, so
// a `history` query never blocks a live session.
package journal
