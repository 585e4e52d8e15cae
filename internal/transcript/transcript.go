package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Format identifies a transcript document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// RawPhrase is a single line of dialogue as authored.
type RawPhrase struct {
	Words      string `json:"words" toml:"words"`
	DurationMs int64  `json:"time" toml:"time"`
}

// Speaker owns an ordered list of phrases.
type Speaker struct {
	Name    string      `json:"name" toml:"name"`
	Phrases []RawPhrase `json:"phrases" toml:"phrases"`
}

// Transcript is the immutable input to timeline construction.
type Transcript struct {
	PauseMs  int64     `json:"pause" toml:"pause"`
	Speakers []Speaker `json:"speakers" toml:"speakers"`
}

// PhraseCount returns the number of phrases across all speakers.
func (t Transcript) PhraseCount() int {
	total := 0
	for _, speaker := range t.Speakers {
		total += len(speaker.Phrases)
	}
	return total
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("transcript %s: unsupported extension (want .json or .toml)", filepath.Base(path))
	}
}

// Load reads and decodes the transcript at path.
func Load(path string) (Transcript, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Transcript{}, errors.New("transcript path is empty")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Transcript{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	t, err := Parse(data, format)
	if err != nil {
		return Transcript{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// document mirrors Transcript as authored. Times are plain numbers, so
// fractional milliseconds are accepted and rounded.
type document struct {
	Pause    float64           `json:"pause" toml:"pause"`
	Speakers []speakerDocument `json:"speakers" toml:"speakers"`
}

type speakerDocument struct {
	Name    string           `json:"name" toml:"name"`
	Phrases []phraseDocument `json:"phrases" toml:"phrases"`
}

type phraseDocument struct {
	Words string  `json:"words" toml:"words"`
	Time  float64 `json:"time" toml:"time"`
}

// Parse decodes a transcript document in the given format. Unknown keys are
// ignored in both formats.
func Parse(data []byte, format Format) (Transcript, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Transcript{}, fmt.Errorf("parse transcript json: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return Transcript{}, fmt.Errorf("parse transcript toml: %w", err)
		}
	default:
		return Transcript{}, fmt.Errorf("unsupported transcript format %q", format)
	}
	return doc.transcript(), nil
}

func (d document) transcript() Transcript {
	t := Transcript{PauseMs: roundMs(d.Pause)}
	if d.Speakers != nil {
		t.Speakers = make([]Speaker, 0, len(d.Speakers))
	}
	for _, sd := range d.Speakers {
		speaker := Speaker{Name: sd.Name}
		if sd.Phrases != nil {
			speaker.Phrases = make([]RawPhrase, 0, len(sd.Phrases))
		}
		for _, pd := range sd.Phrases {
			speaker.Phrases = append(speaker.Phrases, RawPhrase{Words: pd.Words, DurationMs: roundMs(pd.Time)})
		}
		t.Speakers = append(t.Speakers, speaker)
	}
	return t
}

func roundMs(v float64) int64 {
	return int64(math.Round(v))
}

// Issue describes a suspicious but accepted transcript value.
type Issue struct {
	Speaker int
	Phrase  int // -1 when the issue concerns the speaker or the document
	Message string
}

func (i Issue) String() string {
	switch {
	case i.Speaker < 0:
		return i.Message
	case i.Phrase < 0:
		return fmt.Sprintf("speaker %d: %s", i.Speaker, i.Message)
	default:
		return fmt.Sprintf("speaker %d phrase %d: %s", i.Speaker, i.Phrase, i.Message)
	}
}

// Issues lists values that timeline construction accepts but which almost
// certainly indicate an authoring mistake.
func (t Transcript) Issues() []Issue {
	var issues []Issue
	if t.PauseMs < 0 {
		issues = append(issues, Issue{Speaker: -1, Phrase: -1, Message: fmt.Sprintf("negative pause %dms", t.PauseMs)})
	}
	for s, speaker := range t.Speakers {
		if strings.TrimSpace(speaker.Name) == "" {
			issues = append(issues, Issue{Speaker: s, Phrase: -1, Message: "blank speaker name"})
		}
		for p, phrase := range speaker.Phrases {
			if phrase.DurationMs < 0 {
				issues = append(issues, Issue{Speaker: s, Phrase: p, Message: fmt.Sprintf("negative duration %dms", phrase.DurationMs)})
			}
		}
	}
	return issues
}
