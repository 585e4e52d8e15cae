package ffplay

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Process is a running player.
type Process interface {
	// Stop terminates the process and waits for it to exit.
	Stop() error
	// Exited reports whether the process has finished on its own.
	Exited() bool
}

// Launcher starts player processes.
type Launcher interface {
	Start(binary string, args []string) (Process, error)
}

type execLauncher struct{}

func (execLauncher) Start(binary string, args []string) (Process, error) {
	cmd := exec.Command(binary, args...) //nolint:gosec
	proc := &execProcess{cmd: cmd, done: make(chan struct{})}
	cmd.Stderr = &proc.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}
	go func() {
		proc.err = cmd.Wait()
		close(proc.done)
	}()
	return proc, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	done   chan struct{}
	err    error
	stderr bytes.Buffer
	once   sync.Once
}

func (p *execProcess) Stop() error {
	p.once.Do(func() {
		select {
		case <-p.done:
		default:
			_ = p.cmd.Process.Kill()
			<-p.done
		}
	})
	return nil
}

func (p *execProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// exitError describes why a process ended on its own, or nil after a clean
// exit. Only meaningful once Exited is true.
func (p *execProcess) exitError() error {
	if p.err == nil {
		return nil
	}
	if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
		return fmt.Errorf("%w: %s", p.err, msg)
	}
	return p.err
}
