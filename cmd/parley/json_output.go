package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// addJSONFlag registers the --json switch shared by listing commands.
func addJSONFlag(cmd *cobra.Command, target *bool, what string) {
	cmd.Flags().BoolVar(target, "json", false, "Print "+what+" as JSON")
}

// writeJSON encodes v as indented JSON to the command's stdout. Phrase text
// is written verbatim, so HTML escaping is off.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
