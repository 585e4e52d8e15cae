package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"parley/internal/timeline"
	"parley/internal/transcript"
)

type timelineEntry struct {
	Index   int    `json:"index"`
	Speaker string `json:"speaker"`
	Words   string `json:"words"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

func newTimelineCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "timeline <transcript>",
		Short:       "Show the phrase schedule derived from a transcript",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := transcript.Load(args[0])
			if err != nil {
				return err
			}
			for _, issue := range doc.Issues() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue)
			}
			tl := timeline.Build(doc)
			entries := timelineEntries(tl)

			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Transcript has no phrases")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					strconv.Itoa(entry.Index + 1),
					entry.Speaker,
					formatMs(entry.StartMs),
					formatMs(entry.EndMs),
					entry.Words,
				})
			}
			writeTable(cmd.OutOrStdout(), tableLayout{
				Title:    fmt.Sprintf("%d phrases, ends at %s", tl.Len(), formatMs(tl.EndMs())),
				Headers:  []string{"#", "Speaker", "Start", "End", "Words"},
				Rows:     rows,
				Aligns:   []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
				MaxWidth: map[int]int{4: 60},
			})
			return nil
		},
	}

	addJSONFlag(cmd, &asJSON, "the timeline")
	return cmd
}

func timelineEntries(tl *timeline.Timeline) []timelineEntry {
	entries := make([]timelineEntry, 0, tl.Len())
	for i, phrase := range tl.Phrases() {
		start, end := tl.Window(i)
		entries = append(entries, timelineEntry{
			Index:   i,
			Speaker: phrase.Speaker,
			Words:   phrase.Words,
			StartMs: start,
			EndMs:   end,
		})
	}
	return entries
}
