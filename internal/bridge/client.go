package bridge

import (
	"context"
	"fmt"
	"strings"
)

// Log is the sink for run-log lines. Satisfied by *debuglog.Logger.
type Log interface {
	Logf(format string, args ...any)
}

// Status classifies the outcome of a bridge operation. Routines return
// statuses instead of panicking or swallowing errors; the caller decides
// whether the chain continues.
type Status int

const (
	StatusOK Status = iota
	StatusCommandFailed
	StatusOffline
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCommandFailed:
		return "command-failed"
	case StatusOffline:
		return "device-offline"
	default:
		return "error"
	}
}

// Outcome pairs a routine's status with the raw command result.
type Outcome struct {
	Status Status
	Result Result
}

// Client issues adb commands against a resolved tool path. The path is
// resolved once per run (see Locate) and read-only afterwards.
type Client struct {
	tool string
	run  Runner
	log  Log
}

func NewClient(tool string, run Runner, log Log) *Client {
	return &Client{tool: tool, run: run, log: log}
}

// Tool returns the resolved executable path.
func (c *Client) Tool() string { return c.tool }

// Devices runs `adb devices` and returns the raw result.
func (c *Client) Devices(ctx context.Context) Result {
	return c.exec(ctx, fmt.Sprintf("%s devices", c.tool))
}

// IsDeviceConnected probes for an attached device. Heuristic: the first
// output line is a header, so with exit 0 any additional non-blank line
// means at least one device row. A device in "offline" or "unauthorized"
// state still counts as a row here; this does not parse per-device state.
func (c *Client) IsDeviceConnected(ctx context.Context) bool {
	res := c.Devices(ctx)
	if !res.OK() {
		return false
	}
	return countNonBlankLines(res.Stdout) > 1
}

// Pair runs `adb pair <addr>:<port> <code>`. On success the caller is
// expected to follow up with Connect for the same address and port.
func (c *Client) Pair(ctx context.Context, addr, port, code string) Outcome {
	res := c.exec(ctx, fmt.Sprintf("%s pair %s:%s %s", c.tool, addr, port, code))
	return classify(res)
}

// Connect runs `adb connect <addr>:<port>`.
func (c *Client) Connect(ctx context.Context, addr, port string) Outcome {
	res := c.exec(ctx, fmt.Sprintf("%s connect %s:%s", c.tool, addr, port))
	return classify(res)
}

// ListPackages runs `adb shell pm list packages` on the connected device.
func (c *Client) ListPackages(ctx context.Context) Outcome {
	res := c.exec(ctx, fmt.Sprintf("%s shell pm list packages", c.tool))
	return classify(res)
}

// DiskFree runs `adb shell df -h` on the connected device.
func (c *Client) DiskFree(ctx context.Context) Outcome {
	res := c.exec(ctx, fmt.Sprintf("%s shell df -h", c.tool))
	return classify(res)
}

func (c *Client) exec(ctx context.Context, command string) Result {
	res := c.run.Run(ctx, command)
	c.log.Logf("run %q: exit=%d", command, res.ExitCode)
	if out := strings.TrimSpace(res.Stdout); out != "" {
		c.log.Logf("stdout: %s", out)
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		c.log.Logf("stderr: %s", errOut)
	}
	return res
}

func classify(res Result) Outcome {
	if res.OK() {
		return Outcome{Status: StatusOK, Result: res}
	}
	if strings.Contains(res.Stderr, "device offline") || strings.Contains(res.Stdout, "device offline") {
		return Outcome{Status: StatusOffline, Result: res}
	}
	return Outcome{Status: StatusCommandFailed, Result: res}
}
