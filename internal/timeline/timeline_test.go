package timeline_test

import (
	"reflect"
	"testing"

	"parley/internal/timeline"
	"parley/internal/transcript"
)

func speaker(name string, durations ...int64) transcript.Speaker {
	s := transcript.Speaker{Name: name}
	for i, d := range durations {
		s.Phrases = append(s.Phrases, transcript.RawPhrase{
			Words:      name + string(rune('1'+i)),
			DurationMs: d,
		})
	}
	return s
}

func words(tl *timeline.Timeline) []string {
	out := make([]string, 0, tl.Len())
	for _, p := range tl.Phrases() {
		out = append(out, p.Words)
	}
	return out
}

func TestBuildInterleavesRoundRobin(t *testing.T) {
	tests := []struct {
		name     string
		speakers []transcript.Speaker
		want     []string
	}{
		{
			name:     "second speaker exhausted",
			speakers: []transcript.Speaker{speaker("a", 10, 10), speaker("b", 10)},
			want:     []string{"a1", "b1", "a2"},
		},
		{
			name:     "first speaker exhausted",
			speakers: []transcript.Speaker{speaker("a", 10), speaker("b", 10, 10, 10), speaker("c", 10, 10)},
			want:     []string{"a1", "b1", "c1", "b2", "c2", "b3"},
		},
		{
			name:     "speaker without phrases",
			speakers: []transcript.Speaker{speaker("a"), speaker("b", 10, 10)},
			want:     []string{"b1", "b2"},
		},
		{
			name: "no speakers",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := timeline.BuildFromSpeakers(tt.speakers, 0)
			if got := words(tl); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildAnnotatesSpeaker(t *testing.T) {
	tl := timeline.BuildFromSpeakers([]transcript.Speaker{speaker("John", 5), speaker("Jack", 7)}, 0)
	if got := tl.Phrase(1); got.Speaker != "Jack" || got.DurationMs != 7 {
		t.Fatalf("unexpected phrase %+v", got)
	}
}

func TestStartOffsetsIncludePauseBetweenPhrases(t *testing.T) {
	tl := timeline.BuildFromSpeakers([]transcript.Speaker{speaker("a", 1000), speaker("b", 500)}, 200)
	if got, want := tl.StartOffsets(), []int64{0, 1200}; !reflect.DeepEqual(got, want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	if tl.EndMs() != 1700 {
		t.Fatalf("end = %d, want 1700 (no trailing pause)", tl.EndMs())
	}
}

func TestStartOffsetsAreMonotonic(t *testing.T) {
	tl := timeline.Build(transcript.Transcript{
		PauseMs: 75,
		Speakers: []transcript.Speaker{
			speaker("a", 300, 0, 1200, 40),
			speaker("b", 10),
			speaker("c", 999, 1, 5),
		},
	})
	offsets := tl.StartOffsets()
	phrases := tl.Phrases()
	if offsets[0] != 0 {
		t.Fatalf("first offset = %d, want 0", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Fatalf("offsets decrease at %d: %v", i, offsets)
		}
		if offsets[i] < offsets[i-1]+phrases[i-1].DurationMs {
			t.Fatalf("phrase %d starts before phrase %d ends: %v", i, i-1, offsets)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	tr := transcript.Transcript{PauseMs: 30, Speakers: []transcript.Speaker{speaker("a", 1, 2, 3), speaker("b", 4)}}
	first := timeline.Build(tr)
	second := timeline.Build(tr)
	if !reflect.DeepEqual(first.Phrases(), second.Phrases()) || !reflect.DeepEqual(first.StartOffsets(), second.StartOffsets()) {
		t.Fatal("expected identical timelines for identical input")
	}
}

func TestBuildAcceptsNegativeDurations(t *testing.T) {
	tl := timeline.BuildFromSpeakers([]transcript.Speaker{speaker("a", 100), speaker("b", -50)}, 10)
	if got, want := tl.StartOffsets(), []int64{0, 110}; !reflect.DeepEqual(got, want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	// b1 spans [110, 60) and is never selected.
	if got := tl.Resolve(110, 0); got != 0 {
		t.Fatalf("negative window selected: got %d", got)
	}
	if tl.EndMs() != 60 {
		t.Fatalf("end = %d, want 60", tl.EndMs())
	}
}

func TestResolve(t *testing.T) {
	tl := timeline.BuildFromSpeakers([]transcript.Speaker{speaker("a", 1000), speaker("b", 500)}, 200)
	tests := []struct {
		name     string
		position int64
		previous int
		want     int
	}{
		{"start of first", 0, 0, 0},
		{"inside first", 999, 0, 0},
		{"gap keeps previous", 1100, 0, 0},
		{"gap keeps previous even when later", 1000, 1, 1},
		{"start of second", 1200, 0, 1},
		{"last ms of second", 1699, 0, 1},
		{"past the end", 1700, 1, 1},
		{"before the start", -10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tl.Resolve(tt.position, tt.previous); got != tt.want {
				t.Fatalf("Resolve(%d, %d) = %d, want %d", tt.position, tt.previous, got, tt.want)
			}
		})
	}
}

func TestResolvePrefersLowestIndexOnOverlap(t *testing.T) {
	// A negative pause makes windows overlap.
	tl := timeline.BuildFromSpeakers([]transcript.Speaker{speaker("a", 100), speaker("b", 100)}, -50)
	if got := tl.Resolve(60, 1); got != 0 {
		t.Fatalf("Resolve on overlap = %d, want 0", got)
	}
}

func TestEmptyTimeline(t *testing.T) {
	tl := timeline.Build(transcript.Transcript{})
	if !tl.Empty() || tl.EndMs() != 0 {
		t.Fatalf("expected empty timeline ending at 0, got len=%d end=%d", tl.Len(), tl.EndMs())
	}
	if got := tl.Resolve(0, 0); got != 0 {
		t.Fatalf("Resolve on empty = %d", got)
	}
}
