package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"parley/internal/ipc"
)

func newCtlCommand(ctx *commandContext) *cobra.Command {
	ctlCmd := &cobra.Command{
		Use:   "ctl",
		Short: "Control a running `parley play` session",
	}

	simple := []struct {
		use   string
		short string
		call  func(*ipc.Client) (*ipc.StatusResponse, error)
	}{
		{"play", "Start or resume playback", (*ipc.Client).Play},
		{"pause", "Pause playback", (*ipc.Client).Pause},
		{"rewind", "Jump to the previous phrase", (*ipc.Client).Rewind},
		{"forward", "Jump to the next phrase", (*ipc.Client).Forward},
	}
	for _, entry := range simple {
		call := entry.call
		ctlCmd.AddCommand(&cobra.Command{
			Use:   entry.use,
			Short: entry.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := call(client)
					if err != nil {
						return err
					}
					printStatus(cmd.OutOrStdout(), resp)
					return nil
				})
			},
		})
	}

	ctlCmd.AddCommand(&cobra.Command{
		Use:   "volume <0..1>",
		Short: "Set the playback volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, err := parseVolumeArg(args)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SetVolume(volume)
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	})

	var asJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				printStatus(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
	addJSONFlag(statusCmd, &asJSON, "the status")
	ctlCmd.AddCommand(statusCmd)

	return ctlCmd
}

func printStatus(out io.Writer, resp *ipc.StatusResponse) {
	if resp == nil {
		return
	}
	fmt.Fprintf(out, "Session: %s (pid %d)\n", shortID(resp.SessionID), resp.PID)
	status := resp.Status
	if !resp.Available {
		status += " (audio unavailable)"
	}
	fmt.Fprintf(out, "Status:  %s\n", status)
	fmt.Fprintf(out, "Volume:  %s\n", formatVolume(resp.Volume))
	if resp.PausedAtMs != nil {
		fmt.Fprintf(out, "Paused:  %s\n", formatMs(*resp.PausedAtMs))
	}
	if resp.Phrase != nil {
		fmt.Fprintf(out, "Phrase:  %s/%s %s: %s\n",
			strconv.Itoa(resp.Phrase.Index+1),
			strconv.Itoa(resp.PhraseCount),
			resp.Phrase.Speaker,
			resp.Phrase.Words)
	}
}
