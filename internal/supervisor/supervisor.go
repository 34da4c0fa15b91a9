// Package supervisor starts the parser server process and waits for it to
// become healthy.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"docparse/internal/config"
	"docparse/internal/domain"
)

const (
	defaultPollInterval  = 3 * time.Second
	defaultHealthTimeout = 5 * time.Second
)

// Supervisor owns the single parser server process of this program. Build it once
// at startup and share it; Start refuses to launch a second process.
// It implements port.ProcessSupervisor.
type Supervisor struct {
	cfg      config.SupervisorConfig
	launcher Launcher
	client   *http.Client
	logger   *zap.Logger

	mu      sync.Mutex
	state   domain.SupervisorState
	started bool
	proc    Process
}

// New creates a Supervisor that launches the configured command with os/exec.
func New(cfg *config.SupervisorConfig, logger *zap.Logger) *Supervisor {
	return NewWithLauncher(cfg, execLauncher{}, logger)
}

// NewWithLauncher creates a Supervisor with a custom Launcher.
func NewWithLauncher(cfg *config.SupervisorConfig, launcher Launcher, logger *zap.Logger) *Supervisor {
	c := *cfg
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = defaultHealthTimeout
	}
	return &Supervisor{
		cfg:      c,
		launcher: launcher,
		client:   &http.Client{Timeout: c.HealthTimeout},
		logger:   logger.Named("supervisor"),
		state:    domain.SupervisorNotStarted,
	}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() domain.SupervisorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) setState(st domain.SupervisorState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Start launches the parser server and returns without waiting for readiness.
// A second call returns domain.ErrAlreadyStarted. In unmanaged mode nothing is
// launched and the server is only health-checked.
func (s *Supervisor) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return domain.ErrAlreadyStarted
	}

	if !s.cfg.Managed {
		s.started = true
		s.state = domain.SupervisorStarting
		s.logger.Info("parser server is managed externally", zap.String("health_url", s.cfg.HealthURL))
		return nil
	}

	args := s.cfg.LaunchArgs()
	proc, err := s.launcher.Launch(args, newLineLogger(s.logger.Named("server")))
	if err != nil {
		s.state = domain.SupervisorFailed
		return fmt.Errorf("launching parser server: %w", err)
	}

	s.started = true
	s.proc = proc
	s.state = domain.SupervisorStarting
	s.logger.Info("parser server launched", zap.Strings("command", args), zap.Int("pid", proc.Pid()))

	go s.watch(proc)
	return nil
}

func (s *Supervisor) watch(proc Process) {
	err := proc.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != proc {
		return
	}
	s.logger.Error("parser server exited", zap.Int("pid", proc.Pid()), zap.Error(err))
	s.state = domain.SupervisorFailed
}

// HealthCheck probes the health URL once. Any failure is logged and reported as false.
func (s *Supervisor) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.HealthURL, http.NoBody)
	if err != nil {
		s.logger.Warn("invalid health url", zap.String("url", s.cfg.HealthURL), zap.Error(err))
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Info("parser server not reachable", zap.String("url", s.cfg.HealthURL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Info("parser server not ready", zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

// AwaitReady polls the health endpoint every PollInterval until it succeeds.
// It gives up with domain.ErrSupervisorTimeout after MaxAttempts probes (0 means
// no attempt limit), when ctx is done, or when the launched process has exited.
func (s *Supervisor) AwaitReady(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		if s.HealthCheck(ctx) {
			s.setState(domain.SupervisorReady)
			if attempt > 1 {
				s.logger.Info("parser server is ready", zap.Int("attempts", attempt))
			}
			return nil
		}

		if s.processExited() {
			s.setState(domain.SupervisorFailed)
			return fmt.Errorf("%w: process exited", domain.ErrSupervisorTimeout)
		}
		if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
			s.setState(domain.SupervisorFailed)
			return fmt.Errorf("%w after %d attempts", domain.ErrSupervisorTimeout, attempt)
		}

		if err := sleepCtx(ctx, s.cfg.PollInterval); err != nil {
			s.setState(domain.SupervisorFailed)
			return fmt.Errorf("%w: %w", domain.ErrSupervisorTimeout, err)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Supervisor) processExited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil && s.proc.Exited()
}

// EnsureReady starts the server if this process has not done so and waits for it.
// A server already known to be ready costs a single probe.
func (s *Supervisor) EnsureReady(ctx context.Context) error {
	if s.State() == domain.SupervisorReady && s.HealthCheck(ctx) {
		return nil
	}
	if s.processExited() {
		s.logger.Warn("parser server has exited, relaunching")
		_ = s.Stop(ctx)
	}
	if err := s.Start(ctx); err != nil && !errors.Is(err, domain.ErrAlreadyStarted) {
		return err
	}
	return s.AwaitReady(ctx)
}

// Stop kills the launched process and waits for it to exit or ctx to expire.
// After Stop the supervisor may be started again.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	proc := s.proc
	s.proc = nil
	s.started = false
	s.state = domain.SupervisorNotStarted
	s.mu.Unlock()

	if proc == nil {
		return nil
	}

	s.logger.Info("stopping parser server", zap.Int("pid", proc.Pid()))
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("killing parser server: %w", err)
	}

	done := make(chan struct{})
	go func() {
		_ = proc.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for parser server to exit: %w", ctx.Err())
	}
}
