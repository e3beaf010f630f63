package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunner_CapturesStdout(t *testing.T) {
	sh := requireShell(t)
	runner := NewExecRunner(nil, nil)

	out, err := runner.Run(context.Background(), []string{sh, "-c", `printf '%s-%s' "$0" "$1"`, "abc", "def"})
	require.NoError(t, err)
	assert.Equal(t, "abc-def", string(out))
}

func TestExecRunner_DumpTo(t *testing.T) {
	sh := requireShell(t)
	var dump bytes.Buffer
	runner := NewExecRunner(&ExecRunnerConfig{DumpTo: &dump}, nil)

	out, err := runner.Run(context.Background(), []string{sh, "-c", "echo hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(out))
	assert.Equal(t, "hi\n", dump.String())
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	sh := requireShell(t)
	runner := NewExecRunner(nil, nil)

	_, err := runner.Run(context.Background(), []string{sh, "-c", "echo boom >&2; exit 3"})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Equal(t, "boom", exitErr.Stderr)
}

func TestExecRunner_MissingProgram(t *testing.T) {
	runner := NewExecRunner(nil, nil)

	_, err := runner.Run(context.Background(), []string{"/nonexistent/definitely-not-here"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start process")

	_, err = runner.Run(context.Background(), nil)
	require.Error(t, err)
}

func TestExecRunner_Cancellation(t *testing.T) {
	sh := requireShell(t)
	runner := NewExecRunner(nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := runner.Run(ctx, []string{sh, "-c", "sleep 10"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}
