package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Default readiness budget for a locally started scraper process.
const (
	DefaultReadyTimeout = 30 * time.Second
	DefaultPollInterval = 1 * time.Second
	stopGracePeriod     = 5 * time.Second
)

// Supervisor runs the scraper server as a background OS process for the
// duration of a monitor run: start, wait until it answers, and stop it when
// the run finishes regardless of the run's outcome.
type Supervisor struct {
	command      []string
	health       func(ctx context.Context) error
	readyTimeout time.Duration
	pollInterval time.Duration
	verbose      bool

	cmd *exec.Cmd
}

// NewSupervisor creates a supervisor for the given command line. Readiness is
// determined by the client's health probe.
func NewSupervisor(command []string, client *Client, verbose bool) *Supervisor {
	return &Supervisor{
		command:      command,
		health:       client.Health,
		readyTimeout: DefaultReadyTimeout,
		pollInterval: DefaultPollInterval,
		verbose:      verbose,
	}
}

// Start launches the process and blocks until the scraper server answers its
// health probe or the readiness budget is exhausted. On timeout the process
// is stopped before returning.
func (s *Supervisor) Start(ctx context.Context) error {
	if len(s.command) == 0 {
		return fmt.Errorf("no scraper command configured")
	}

	cmd := exec.Command(s.command[0], s.command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start scraper process: %w", err)
	}
	s.cmd = cmd

	if s.verbose {
		log.Printf("[scraper] started process pid=%d, waiting for readiness", cmd.Process.Pid)
	}

	deadline := time.Now().Add(s.readyTimeout)
	for {
		probeCtx, cancel := context.WithTimeout(ctx, s.pollInterval)
		err := s.health(probeCtx)
		cancel()
		if err == nil {
			if s.verbose {
				log.Printf("[scraper] server is ready")
			}
			return nil
		}

		if time.Now().After(deadline) {
			s.Stop()
			return fmt.Errorf("scraper server not ready after %s: %w", s.readyTimeout, err)
		}

		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// Stop terminates the scraper process: SIGTERM first, SIGKILL after a grace
// period. Safe to call when the process never started.
func (s *Supervisor) Stop() {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}

	_ = s.cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		_ = s.cmd.Process.Kill()
		<-done
	}

	if s.verbose {
		log.Printf("[scraper] process stopped")
	}
	s.cmd = nil
}
