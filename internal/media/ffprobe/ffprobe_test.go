package ffprobe

import (
	"errors"
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "AUDIO"},
		},
		Format: Format{Duration: "123.4567"},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.4567 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.DurationMs() != 123457 {
		t.Fatalf("unexpected duration ms: %d", result.DurationMs())
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.DurationMs() != 0 {
		t.Fatalf("expected 0 ms for invalid duration, got %d", result.DurationMs())
	}
}

func TestValidateRejectsVideoOnly(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video"}}}
	if err := result.Validate(); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestParse(t *testing.T) {
	result, err := Parse([]byte(`{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3","channels":2}],"format":{"duration":"2.600000"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.DurationMs() != 2600 {
		t.Fatalf("expected 2600ms, got %d", result.DurationMs())
	}
	if result.Streams[0].Channels != 2 {
		t.Fatalf("unexpected channels %d", result.Streams[0].Channels)
	}
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
