// Package ffprobe runs ffprobe against an audio file and decodes the parts of
// its JSON report the ffplay transport needs: stream kinds and the container
// duration. Inspect is the entry point; Result.DurationMs is what callers use
// to cap the reported playback position.
package ffprobe
