package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// waitDelay bounds how long Run waits for output pipes after the process has been killed
const waitDelay = 2 * time.Second

// IRunner runs an external program and hands back what it wrote to stdout
type IRunner interface {
	Run(ctx context.Context, argv []string) ([]byte, error)
}

// ExitError is returned when the program ran but did not exit cleanly
type ExitError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("process %q exited with code %d", e.Argv[0], e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

type ExecRunnerConfig struct {
	// DumpTo receives a copy of stdout as the program writes it. Nil keeps the output captured only.
	DumpTo io.Writer
	Env    []string
	Dir    string
}

type ExecRunner struct {
	config *ExecRunnerConfig
	logger *zap.Logger
}

func NewExecRunner(cfg *ExecRunnerConfig, logger *zap.Logger) *ExecRunner {
	if cfg == nil {
		cfg = &ExecRunnerConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{config: cfg, logger: logger}
}

// Run executes argv[0] with the remaining arguments. The process is killed when ctx is done.
func (r *ExecRunner) Run(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("no program given")
	}

	r.logger.Sugar().Debugw("Running process", "program", argv[0], "args", len(argv)-1)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.config.Dir
	cmd.WaitDelay = waitDelay
	if len(r.config.Env) > 0 {
		cmd.Env = r.config.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if r.config.DumpTo != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.config.DumpTo)
	}
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("process %q interrupted: %w", argv[0], ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Sugar().Debugw("Process failed",
				"program", argv[0],
				"exitCode", exitErr.ExitCode(),
			)
			return nil, &ExitError{
				Argv:     argv,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("failed to start process %q: %w", argv[0], err)
	}

	return stdout.Bytes(), nil
}
