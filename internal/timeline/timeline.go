package timeline

import "parley/internal/transcript"

// Phrase is a transcript phrase annotated with its speaker.
type Phrase struct {
	Speaker    string `json:"speaker"`
	Words      string `json:"words"`
	DurationMs int64  `json:"duration_ms"`
}

// Timeline pairs each phrase with the track time (ms) at which it begins.
type Timeline struct {
	phrases []Phrase
	starts  []int64
}

// Build flattens the transcript using its own pause.
func Build(t transcript.Transcript) *Timeline {
	return BuildFromSpeakers(t.Speakers, t.PauseMs)
}

// BuildFromSpeakers flattens speakers round-robin and computes start offsets
// with pauseMs between consecutive phrases.
func BuildFromSpeakers(speakers []transcript.Speaker, pauseMs int64) *Timeline {
	total := 0
	longest := 0
	for _, speaker := range speakers {
		total += len(speaker.Phrases)
		longest = max(longest, len(speaker.Phrases))
	}

	tl := &Timeline{
		phrases: make([]Phrase, 0, total),
		starts:  make([]int64, 0, total),
	}
	for round := 0; round < longest; round++ {
		for _, speaker := range speakers {
			if round >= len(speaker.Phrases) {
				continue
			}
			raw := speaker.Phrases[round]
			tl.phrases = append(tl.phrases, Phrase{
				Speaker:    speaker.Name,
				Words:      raw.Words,
				DurationMs: raw.DurationMs,
			})
		}
	}

	var offset int64
	for i, phrase := range tl.phrases {
		if i > 0 {
			offset += pauseMs
		}
		tl.starts = append(tl.starts, offset)
		offset += phrase.DurationMs
	}
	return tl
}

// Len returns the number of phrases.
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.phrases)
}

// Empty reports whether the timeline has no phrases.
func (t *Timeline) Empty() bool { return t.Len() == 0 }

// Phrase returns the phrase at index i.
func (t *Timeline) Phrase(i int) Phrase { return t.phrases[i] }

// StartOffset returns the absolute start (ms) of phrase i.
func (t *Timeline) StartOffset(i int) int64 { return t.starts[i] }

// Window returns the half-open span [start, end) during which phrase i is active.
func (t *Timeline) Window(i int) (start, end int64) {
	start = t.starts[i]
	return start, start + t.phrases[i].DurationMs
}

// Phrases returns a copy of the ordered phrase sequence.
func (t *Timeline) Phrases() []Phrase {
	if t == nil {
		return nil
	}
	out := make([]Phrase, len(t.phrases))
	copy(out, t.phrases)
	return out
}

// StartOffsets returns a copy of the ordered start offsets.
func (t *Timeline) StartOffsets() []int64 {
	if t == nil {
		return nil
	}
	out := make([]int64, len(t.starts))
	copy(out, t.starts)
	return out
}

// EndMs is the track time at which the last phrase finishes. No trailing
// pause is counted. An empty timeline ends at 0.
func (t *Timeline) EndMs() int64 {
	if t.Empty() {
		return 0
	}
	_, end := t.Window(len(t.phrases) - 1)
	return end
}

// Resolve maps a track position to the active phrase index. When the
// position falls in a pause gap, before the first phrase, past the end, or
// inside a zero/negative-width window, previous is returned unchanged. When
// several windows match, the lowest index wins.
func (t *Timeline) Resolve(positionMs int64, previous int) int {
	if t == nil {
		return previous
	}
	for i := range t.phrases {
		start, end := t.Window(i)
		if positionMs >= start && positionMs < end {
			return i
		}
	}
	return previous
}
