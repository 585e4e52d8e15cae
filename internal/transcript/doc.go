// Package transcript decodes dialogue transcript documents.
//
// A transcript lists speakers in display order, each with an ordered list of
// phrases and the duration (in milliseconds) the phrase occupies in the audio
// track, plus a single pause inserted between consecutive phrases. Documents
// may be JSON or TOML; the format is chosen from the file extension.
//
// Decoding never rejects a structurally valid document because of odd
// values. Negative durations and blank speaker names are reported through
// Issues so callers can warn about them, but the transcript is still usable.
package transcript
