package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"parley/internal/config"
	"parley/internal/deps"
	"parley/internal/journal"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckJournal opens the journal database and pings it.
func CheckJournal(ctx context.Context, cfg *config.Config) Result {
	const name = "Journal"
	store, err := journal.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.JournalPath(), err)}
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: ping: %v)", store.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: store.Path()}
}

// CheckSocket reports whether a session is listening on the control socket.
// A leftover socket with no listener is reported but does not fail: the
// next session replaces it.
func CheckSocket(cfg *config.Config) Result {
	const name = "Control socket"
	path := cfg.SocketPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Passed: true, Detail: "no session running"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	conn, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (stale, no listener)", path)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (session running)", path)}
}

// CheckSystemDeps evaluates the external binaries for the configured
// transport. Both `parley play` and `parley doctor` use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	optional := cfg.Playback.Transport != config.TransportFFplay
	requirements := []deps.Requirement{
		{
			Name:        "ffplay",
			Command:     cfg.FFplay.Binary,
			Description: "Plays audio for the ffplay transport",
			Optional:    optional,
		},
		{
			Name:        "ffprobe",
			Command:     cfg.FFplay.FFprobeBinary,
			Description: "Reads audio duration for the ffplay transport",
			Optional:    optional,
		},
	}
	return deps.CheckBinaries(requirements)
}
