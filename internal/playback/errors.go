package playback

import "errors"

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("playback controller closed")
	// ErrAlreadyOpened is returned when Open is called a second time. Load
	// failures are reported once and never retried.
	ErrAlreadyOpened = errors.New("playback controller already opened")
)
