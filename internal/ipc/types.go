package ipc

// CommandRequest carries no arguments; it triggers Play, Pause, Rewind or Forward.
type CommandRequest struct{}

// VolumeRequest sets the playback volume.
type VolumeRequest struct {
	Volume float64 `json:"volume"`
}

// StatusRequest fetches the session state.
type StatusRequest struct{}

// PhraseInfo describes the active phrase.
type PhraseInfo struct {
	Index   int    `json:"index"`
	Speaker string `json:"speaker"`
	Words   string `json:"words"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// StatusResponse is the controller state after a request was applied.
type StatusResponse struct {
	SessionID   string      `json:"session_id"`
	Status      string      `json:"status"`
	Available   bool        `json:"available"`
	Volume      float64     `json:"volume"`
	PausedAtMs  *int64      `json:"paused_at_ms,omitempty"`
	PhraseCount int         `json:"phrase_count"`
	Phrase      *PhraseInfo `json:"phrase,omitempty"`
	PID         int         `json:"pid"`
}
