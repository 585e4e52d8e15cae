package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"parley/internal/config"
	"parley/internal/deps"
	"parley/internal/logging"
	"parley/internal/playback"
	"parley/internal/preflight"
	"parley/internal/session"
)

const volumeStep = 0.1

const playHelp = `Commands: p or space play/pause, b previous phrase, f next phrase,
          + / - volume, v <0..1> set volume, q quit`

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var noIPC bool
	var autoplay bool

	cmd := &cobra.Command{
		Use:   "play <transcript> <audio>",
		Short: "Play an audio file and follow along in its transcript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Playback.Transport == config.TransportFFplay {
				if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
					return fmt.Errorf("%s unavailable: %s (run `parley doctor`)", missing[0].Name, missing[0].Detail)
				}
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := session.Start(runCtx, cfg, session.Options{
				TranscriptPath: args[0],
				AudioPath:      args[1],
				DisableIPC:     noIPC,
				SessionLog:     true,
			}, logger)
			if err != nil {
				if errors.Is(err, session.ErrLocked) {
					return fmt.Errorf("%w (lock %s)", err, cfg.LockPath())
				}
				return err
			}

			out := cmd.OutOrStdout()
			player := &interactivePlayer{
				sess:     sess,
				ctl:      sess.Controller(),
				renderer: newPhraseRenderer(out, sess.Timeline, logging.IsTerminal(out)),
				poll:     cfg.PollInterval(),
			}
			runErr := player.run(runCtx, cmd.InOrStdin(), autoplay)
			closeErr := sess.Close(context.Background())
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return closeErr
		},
	}

	cmd.Flags().BoolVar(&noIPC, "no-ipc", false, "Do not open the control socket for `parley ctl`")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "Start playing immediately")
	return cmd
}

type interactivePlayer struct {
	sess     *session.Session
	ctl      *playback.Controller
	renderer *phraseRenderer
	poll     time.Duration
}

// run reads commands until q, end of input or cancellation. When input ends
// while audio is playing it waits for playback to stop before returning.
func (p *interactivePlayer) run(ctx context.Context, in io.Reader, autoplay bool) error {
	p.renderer.Printf("%d phrases loaded (session %s)\n", p.ctl.Timeline().Len(), shortID(p.sess.ID))
	p.renderer.Printf("%s\n", playHelp)
	if err := p.sess.LoadErr(); err != nil {
		p.renderer.Printf("error: audio unavailable: %v\n", err)
		p.renderer.Printf("playback is disabled for this session; q quits\n")
		p.renderer.PrintTranscript()
	}

	states, cancel := p.ctl.Subscribe()
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		for state := range states {
			p.renderer.Render(state)
		}
	}()
	defer func() {
		cancel()
		<-watchDone
	}()

	if autoplay {
		p.apply(ctx, "p")
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return p.waitWhilePlaying(ctx)
			}
			if p.apply(ctx, line) {
				return nil
			}
		}
	}
}

// apply executes one input line and reports whether the user asked to quit.
func (p *interactivePlayer) apply(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	var err error
	switch {
	case len(fields) == 0 && line != "":
		err = p.toggle(ctx)
	case len(fields) == 0:
		return false
	default:
		switch strings.ToLower(fields[0]) {
		case "p":
			err = p.toggle(ctx)
		case "b":
			err = p.ctl.Rewind(ctx)
		case "f":
			err = p.ctl.Forward(ctx)
		case "+":
			err = p.ctl.SetVolume(ctx, stepVolume(p.ctl.State().Volume, volumeStep))
		case "-":
			err = p.ctl.SetVolume(ctx, stepVolume(p.ctl.State().Volume, -volumeStep))
		case "v":
			var volume float64
			volume, err = parseVolumeArg(fields[1:])
			if err == nil {
				err = p.ctl.SetVolume(ctx, volume)
			}
		case "q", "quit", "exit":
			return true
		case "h", "?", "help":
			p.renderer.Printf("%s\n", playHelp)
			return false
		default:
			p.renderer.Printf("unknown command %q\n", fields[0])
			return false
		}
	}
	if err != nil {
		p.renderer.Printf("error: %v\n", err)
		p.sess.RecordError(err)
	}
	p.renderer.Render(p.ctl.State())
	return false
}

func (p *interactivePlayer) toggle(ctx context.Context) error {
	if p.ctl.State().Playing() {
		return p.ctl.Pause(ctx)
	}
	return p.ctl.Play(ctx)
}

func (p *interactivePlayer) waitWhilePlaying(ctx context.Context) error {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()
	for p.ctl.State().Playing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	p.renderer.Render(p.ctl.State())
	return nil
}

func parseVolumeArg(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: v <0..1>")
	}
	volume, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid volume %q", args[0])
	}
	if volume < 0 || volume > 1 {
		return 0, fmt.Errorf("volume %v out of range 0..1", volume)
	}
	return volume, nil
}

// stepVolume moves volume by delta, rounded to one decimal and kept in 0..1.
func stepVolume(volume, delta float64) float64 {
	next := math.Round((volume+delta)*10) / 10
	return math.Min(1, math.Max(0, next))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
