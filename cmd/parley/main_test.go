package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestReportError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		output string
	}{
		{"success", nil, 0, ""},
		{"interrupted", fmt.Errorf("play: %w", context.Canceled), 130, ""},
		{"failure", errors.New("transcript path is empty"), 1, "parley: transcript path is empty\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := reportError(&buf, tc.err); code != tc.code {
				t.Fatalf("exit code = %d, want %d", code, tc.code)
			}
			if buf.String() != tc.output {
				t.Fatalf("output = %q, want %q", buf.String(), tc.output)
			}
		})
	}
}

func TestWriteJSONKeepsPhraseText(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := writeJSON(cmd, map[string]string{"words": "Tom & Jerry <live>"}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"words": "Tom & Jerry <live>"`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestAddJSONFlag(t *testing.T) {
	cmd := &cobra.Command{}
	var asJSON bool
	addJSONFlag(cmd, &asJSON, "the timeline")
	if err := cmd.Flags().Parse([]string{"--json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !asJSON {
		t.Fatal("expected --json to set the target")
	}
	if usage := cmd.Flags().Lookup("json").Usage; usage != "Print the timeline as JSON" {
		t.Fatalf("usage = %q", usage)
	}
}
