package proc

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartReader_ReadsOutput(t *testing.T) {
	p, err := StartReader(context.Background(), "sh", "-c", "printf hello")
	require.NoError(t, err)

	out, err := io.ReadAll(p.Stdout)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	require.NoError(t, p.Wait())
	assert.Equal(t, 0, p.ExitCode())
	assert.False(t, p.Alive())
}

func TestStartWriter_AcceptsInput(t *testing.T) {
	p, err := StartWriter(context.Background(), "cat")
	require.NoError(t, err)

	_, err = p.Stdin.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, p.Stdin.Close())

	require.NoError(t, p.Wait())
	assert.Equal(t, 0, p.ExitCode())
}

func TestWait_ReportsExitCode(t *testing.T) {
	p, err := StartReader(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err)

	assert.Error(t, p.Wait())
	assert.Equal(t, 3, p.ExitCode())

	// Wait is idempotent.
	assert.Error(t, p.Wait())
}

func TestTerminate_KillsRunningChild(t *testing.T) {
	p, err := StartReader(context.Background(), "sh", "-c", "exec sleep 60")
	require.NoError(t, err)
	require.True(t, p.Alive())

	start := time.Now()
	p.Terminate(2 * time.Second)

	assert.False(t, p.Alive(), "child still running after Terminate")
	assert.Less(t, time.Since(start), 2*time.Second, "SIGTERM should not need the kill escalation")
}

func TestTerminate_AfterExitIsSafe(t *testing.T) {
	p, err := StartReader(context.Background(), "sh", "-c", "true")
	require.NoError(t, err)
	require.NoError(t, p.Wait())

	p.Terminate(time.Second) // must not hang or panic
	assert.False(t, p.Alive())
}

func TestStderrTail(t *testing.T) {
	p, err := StartReader(context.Background(), "sh", "-c", "echo one 1>&2; echo two 1>&2; echo three 1>&2; exit 1")
	require.NoError(t, err)
	assert.Error(t, p.Wait())

	assert.Equal(t, "two\nthree", p.StderrTail(2))
	assert.Equal(t, "one\ntwo\nthree", p.StderrTail(10))
}

func TestStderrTail_Empty(t *testing.T) {
	p, err := StartReader(context.Background(), "sh", "-c", "true")
	require.NoError(t, err)
	require.NoError(t, p.Wait())
	assert.Equal(t, "", p.StderrTail(5))
}
