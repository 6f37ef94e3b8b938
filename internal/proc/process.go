// Package proc wraps the external decoder/encoder child processes behind a
// small handle with a spawn -> stream -> close-and-wait lifecycle. The exit
// code is inspected only at close; abandonment terminates the child with a
// bounded grace period before killing it, so a consumer that stops early
// never leaks a running process.
package proc

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// stderrLimit bounds how much child stderr is retained for diagnostics.
const stderrLimit = 16 * 1024

// Process is a handle on a running child connected through OS byte pipes.
// Stdout is set for reader processes (decoder), Stdin for writer processes
// (encoder); the unused side is nil.
type Process struct {
	cmd    *exec.Cmd
	Stdin  io.WriteCloser
	Stdout io.ReadCloser

	stderr   limitedBuffer
	waitOnce sync.Once
	waitErr  error
}

// StartReader spawns name with args, exposing its standard output as a byte
// stream. Stderr is captured for diagnostics.
func StartReader(ctx context.Context, name string, args ...string) (*Process, error) {
	p := &Process{cmd: exec.CommandContext(ctx, name, args...)}
	p.cmd.Stderr = &p.stderr

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	p.Stdout = stdout

	if err := p.cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// StartWriter spawns name with args, exposing its standard input as a byte
// stream. Stdout is discarded; stderr is captured for diagnostics.
func StartWriter(ctx context.Context, name string, args ...string) (*Process, error) {
	p := &Process{cmd: exec.CommandContext(ctx, name, args...)}
	p.cmd.Stderr = &p.stderr

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	p.Stdin = stdin

	if err := p.cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}
	return p, nil
}

// Wait reaps the child and returns its run error. Safe to call more than
// once; later calls return the first result.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
	})
	return p.waitErr
}

// ExitCode returns the child's exit code, or -1 if it has not been reaped
// or was killed by a signal.
func (p *Process) ExitCode() int {
	if p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// Alive reports whether the child's process entry still exists. Uses signal
// 0, which also succeeds for a child that exited but has not been reaped
// yet, so a false result is definitive while a true one is not. Writers
// detecting death mid-stream must rely on EPIPE, not on this.
func (p *Process) Alive() bool {
	if p.cmd.Process == nil || p.cmd.ProcessState != nil {
		return false
	}
	return p.cmd.Process.Signal(syscall.Signal(0)) == nil
}

// Terminate closes the pipes and stops the child: SIGTERM first, then
// SIGKILL if it has not exited within grace. The child is always reaped
// before returning.
func (p *Process) Terminate(grace time.Duration) {
	if p.Stdout != nil {
		p.Stdout.Close()
	}
	if p.Stdin != nil {
		p.Stdin.Close()
	}
	if p.cmd.Process == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(grace):
		_ = p.cmd.Process.Kill()
		<-done
	}
}

// StderrTail returns the last n lines of captured stderr, for inclusion in
// failure diagnostics.
func (p *Process) StderrTail(n int) string {
	return lastLines(p.stderr.String(), n)
}

func lastLines(s string, n int) string {
	s = string(bytes.TrimSpace([]byte(s)))
	if s == "" {
		return ""
	}
	lines := bytes.Split([]byte(s), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}

// limitedBuffer is a bytes.Buffer that silently drops input past
// stderrLimit, keeping diagnostics bounded for chatty children.
type limitedBuffer struct {
	buf bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := stderrLimit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string { return b.buf.String() }
