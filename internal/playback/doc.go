// Package playback keeps a "current phrase" pointer in step with an audio
// transport.
//
// Controller owns the playback state for one Timeline and one Track. It
// issues transport commands one at a time, polls the track position on a
// fixed interval while playing, and maps that position to the active phrase
// using Timeline.Resolve. Polling runs only while the controller is in the
// Playing state; every transition out of Playing cancels it.
//
// Transport failures are returned to the caller and leave the observable
// state untouched. A failed Load makes every later playback command a no-op.
// Close releases the track exactly once regardless of state.
package playback
