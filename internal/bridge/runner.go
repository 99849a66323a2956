package bridge

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

const defaultCommandTimeout = 30 * time.Second

// Result holds the outcome of one external command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func (r Result) OK() bool { return r.ExitCode == 0 }

// Runner executes a command line through the host shell and reports
// the captured output. Implementations never return an error: every
// failure mode is normalized into the Result so callers have a single
// success check (ExitCode == 0).
type Runner interface {
	Run(ctx context.Context, command string) Result
}

// ShellRunner runs commands via `sh -c`, which handles pipes, quotes
// and redirects the same way the interactive shell would.
type ShellRunner struct {
	Timeout time.Duration
}

func (s ShellRunner) Run(ctx context.Context, command string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Stderr: "empty command", ExitCode: 1}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode <= 0 {
			res.ExitCode = 1
		}
		return res
	}

	// Spawn failure, timeout or cancellation: same result shape.
	res.Stdout = ""
	res.ExitCode = 1
	if msg := err.Error(); msg != "" {
		res.Stderr = msg
	} else {
		res.Stderr = "unknown error"
	}
	if ctx.Err() != nil {
		res.Stderr = "command timed out or cancelled"
	}
	return res
}
