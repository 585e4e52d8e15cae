package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"parley/internal/playback"
	"parley/internal/timeline"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
)

// phraseRenderer prints the active phrase whenever it changes. It is fed
// both by the controller subscription and synchronously after each command,
// so it only writes when the snapshot differs from the last one rendered.
type phraseRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	tl       *timeline.Timeline
	color    bool
	caser    cases.Caser
	rendered bool
	last     playback.State
}

func newPhraseRenderer(out io.Writer, tl *timeline.Timeline, color bool) *phraseRenderer {
	return &phraseRenderer{
		out:   out,
		tl:    tl,
		color: color,
		caser: cases.Title(language.English),
	}
}

func (r *phraseRenderer) Render(state playback.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, first := r.last, !r.rendered
	if !first && sameDisplay(prev, state) {
		return
	}
	r.rendered = true
	r.last = state

	if !first && state.Volume != prev.Volume {
		fmt.Fprintf(r.out, "%s\n", r.paint(ansiDim, "volume "+formatVolume(state.Volume)))
	}
	switch state.Status {
	case playback.StatusPlaying:
		if first || prev.Status != playback.StatusPlaying || prev.CurrentIndex != state.CurrentIndex {
			r.writePhrase(state.CurrentIndex)
		}
	case playback.StatusPaused:
		if first || prev.Status != playback.StatusPaused {
			at := ""
			if state.PausedAtMs != nil {
				at = " at " + formatMs(*state.PausedAtMs)
			}
			fmt.Fprintf(r.out, "%s\n", r.paint(ansiDim, "paused"+at))
		}
	case playback.StatusCompleted:
		if first || prev.Status != playback.StatusCompleted {
			fmt.Fprintf(r.out, "%s\n", r.paint(ansiDim, "completed; p plays again from the start"))
		}
	}
}

// Printf writes a free-form line, serialised with phrase output.
func (r *phraseRenderer) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// PrintTranscript lists every phrase in timeline order.
func (r *phraseRenderer) PrintTranscript() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tl.Len() {
		r.writePhrase(i)
	}
}

func (r *phraseRenderer) writePhrase(index int) {
	if r.tl == nil || index < 0 || index >= r.tl.Len() {
		return
	}
	phrase := r.tl.Phrase(index)
	fmt.Fprintf(r.out, "[%d/%d] %s: %s\n", index+1, r.tl.Len(), r.paint(ansiBold, r.speakerName(phrase.Speaker)), phrase.Words)
}

func (r *phraseRenderer) speakerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "(unknown)"
	}
	return r.caser.String(name)
}

func (r *phraseRenderer) paint(code, text string) string {
	if !r.color {
		return text
	}
	return code + text + ansiReset
}

func sameDisplay(a, b playback.State) bool {
	return a.Status == b.Status && a.CurrentIndex == b.CurrentIndex && a.Volume == b.Volume
}
