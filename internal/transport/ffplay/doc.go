// Package ffplay plays audio through ffmpeg's ffplay.
//
// ffplay has no control channel once started, so a Track models playback as
// a sequence of short-lived processes: Play launches
// `ffplay -nodisp -autoexit -ss <offset> -volume <n> <file>`, Pause and
// Unload stop it, and Seek or SetVolume while playing restart it at the
// current position. The position is computed rather than queried: the seek
// base plus the wall time since the process started, capped at the duration
// ffprobe reported at Load.
package ffplay
