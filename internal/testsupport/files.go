package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleTranscriptJSON is a two-speaker dialogue whose flattened timeline is
// a1 [0,1000), b1 [1200,1700), a2 [1900,2600).
const SampleTranscriptJSON = `{
  "pause": 200,
  "speakers": [
    {"name": "alice", "phrases": [{"words": "Hello there.", "time": 1000}, {"words": "How have you been?", "time": 700}]},
    {"name": "bob", "phrases": [{"words": "Hi!", "time": 500}]}
  ]
}`

// WriteTranscript writes contents to name under a fresh temp directory and
// returns the full path.
func WriteTranscript(t testing.TB, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write transcript %s: %v", path, err)
	}
	return path
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
