package transcript_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parley/internal/transcript"
)

const sampleJSON = `{
  "pause": 250,
  "speakers": [
    {"name": "John", "phrases": [{"words": "Hello", "time": 1000}, {"words": "Fine", "time": 800}]},
    {"name": "Jack", "phrases": [{"words": "Hi, how are you?", "time": 1500}]}
  ]
}`

const sampleTOML = `
pause = 250

[[speakers]]
name = "John"

  [[speakers.phrases]]
  words = "Hello"
  time = 1000

  [[speakers.phrases]]
  words = "Fine"
  time = 800

[[speakers]]
name = "Jack"

  [[speakers.phrases]]
  words = "Hi, how are you?"
  time = 1500
`

func TestParseFormatsAgree(t *testing.T) {
	fromJSON, err := transcript.Parse([]byte(sampleJSON), transcript.FormatJSON)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	fromTOML, err := transcript.Parse([]byte(sampleTOML), transcript.FormatTOML)
	if err != nil {
		t.Fatalf("parse toml: %v", err)
	}
	for name, tr := range map[string]transcript.Transcript{"json": fromJSON, "toml": fromTOML} {
		if tr.PauseMs != 250 {
			t.Fatalf("%s: pause = %d, want 250", name, tr.PauseMs)
		}
		if len(tr.Speakers) != 2 {
			t.Fatalf("%s: speakers = %d, want 2", name, len(tr.Speakers))
		}
		if tr.PhraseCount() != 3 {
			t.Fatalf("%s: phrase count = %d, want 3", name, tr.PhraseCount())
		}
		if got := tr.Speakers[1].Phrases[0]; got.Words != "Hi, how are you?" || got.DurationMs != 1500 {
			t.Fatalf("%s: unexpected phrase %+v", name, got)
		}
	}
}

func TestParseIgnoresUnknownKeysInBothFormats(t *testing.T) {
	cases := map[transcript.Format]string{
		transcript.FormatJSON: `{"pause": 1, "title": "x", "speakers": [{"name": "a", "colour": "red", "phrases": [{"words": "w", "time": 5, "note": "n"}]}]}`,
		transcript.FormatTOML: "pause = 1\ntitle = \"x\"\n[[speakers]]\nname = \"a\"\ncolour = \"red\"\n[[speakers.phrases]]\nwords = \"w\"\ntime = 5\nnote = \"n\"\n",
	}
	for format, doc := range cases {
		tr, err := transcript.Parse([]byte(doc), format)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", format, err)
		}
		if tr.PhraseCount() != 1 || tr.Speakers[0].Phrases[0].DurationMs != 5 {
			t.Fatalf("%s: unexpected transcript %+v", format, tr)
		}
	}
}

func TestParseRoundsFractionalTimes(t *testing.T) {
	cases := map[transcript.Format]string{
		transcript.FormatJSON: `{"pause": 199.6, "speakers": [{"name": "a", "phrases": [{"words": "w", "time": 1500.5}, {"words": "v", "time": 10.4}]}]}`,
		transcript.FormatTOML: "pause = 199.6\n[[speakers]]\nname = \"a\"\n[[speakers.phrases]]\nwords = \"w\"\ntime = 1500.5\n[[speakers.phrases]]\nwords = \"v\"\ntime = 10.4\n",
	}
	for format, doc := range cases {
		tr, err := transcript.Parse([]byte(doc), format)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", format, err)
		}
		if tr.PauseMs != 200 {
			t.Fatalf("%s: pause = %d, want 200", format, tr.PauseMs)
		}
		phrases := tr.Speakers[0].Phrases
		if phrases[0].DurationMs != 1501 || phrases[1].DurationMs != 10 {
			t.Fatalf("%s: durations = %d,%d, want 1501,10", format, phrases[0].DurationMs, phrases[1].DurationMs)
		}
	}
}

func TestParseRejectsUndecodableInput(t *testing.T) {
	if _, err := transcript.Parse([]byte(`{"pause": "soon"}`), transcript.FormatJSON); err == nil {
		t.Fatal("expected error for non-numeric pause")
	}
	if _, err := transcript.Parse([]byte("pause = ["), transcript.FormatTOML); err == nil {
		t.Fatal("expected error for malformed toml")
	}
}

func TestLoadChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "dialogue.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tr, err := transcript.Load(jsonPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tr.Speakers[0].Name != "John" {
		t.Fatalf("unexpected first speaker %q", tr.Speakers[0].Name)
	}

	txtPath := filepath.Join(dir, "dialogue.txt")
	if err := os.WriteFile(txtPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := transcript.Load(txtPath); err == nil || !strings.Contains(err.Error(), "unsupported extension") {
		t.Fatalf("expected unsupported extension error, got %v", err)
	}
}

func TestEmptyDocumentIsLegal(t *testing.T) {
	tr, err := transcript.Parse([]byte(`{"pause": 0, "speakers": []}`), transcript.FormatJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tr.PhraseCount() != 0 {
		t.Fatalf("expected no phrases, got %d", tr.PhraseCount())
	}
	if issues := tr.Issues(); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestIssuesReportsSuspiciousValues(t *testing.T) {
	tr := transcript.Transcript{
		PauseMs: -5,
		Speakers: []transcript.Speaker{
			{Name: " ", Phrases: []transcript.RawPhrase{{Words: "x", DurationMs: -100}}},
		},
	}
	issues := tr.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(issues), issues)
	}
	if got := issues[2].String(); got != "speaker 0 phrase 0: negative duration -100ms" {
		t.Fatalf("unexpected issue text %q", got)
	}
}
