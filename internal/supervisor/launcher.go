package supervisor

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// Process is a launched parser server.
type Process interface {
	Pid() int
	Kill() error
	// Wait blocks until the process exits. It may be called more than once.
	Wait() error
	Exited() bool
}

// Launcher starts the parser server. It lets tests stub the external command.
type Launcher interface {
	Launch(args []string, output io.Writer) (Process, error)
}

type execLauncher struct{}

func (execLauncher) Launch(args []string, output io.Writer) (Process, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty launch command")
	}
	// Not bound to a request context: the server outlives the call that started it.
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = output
	cmd.Stderr = output
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", args[0], err)
	}

	p := &execProcess{cmd: cmd, done: make(chan struct{})}
	go p.wait()
	return p, nil
}

type execProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func (p *execProcess) wait() {
	p.err = p.cmd.Wait()
	close(p.done)
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Kill() error {
	if p.Exited() {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (p *execProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *execProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// lineLogger forwards the child's combined output to the log one line at a time.
type lineLogger struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	logger *zap.Logger
}

func newLineLogger(logger *zap.Logger) *lineLogger {
	return &lineLogger{logger: logger}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, err := l.buf.ReadBytes('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			l.buf.Write(line)
			break
		}
		if text := bytes.TrimSpace(line); len(text) > 0 {
			l.logger.Info(string(text))
		}
	}
	return len(p), nil
}
