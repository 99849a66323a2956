package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"wearctl/internal/bridge"
	"wearctl/internal/config"
	"wearctl/internal/debuglog"
	"wearctl/internal/history"
	"wearctl/internal/prompt"
)

const offlineHint = "Device is offline. Re-pair or re-connect wireless debugging on the watch and try again."

// Params are the pairing inputs. A preset without a pairing code (e.g.
// from a saved profile) skips pairing and connects directly.
type Params struct {
	Address string
	Port    string
	Code    string
}

func (p Params) Target() string { return p.Address + ":" + p.Port }

// Session runs the interactive pair/connect flow. All collaborators are
// explicit so the flow is testable with fakes; nothing lives in package
// state.
type Session struct {
	Config  *config.Config
	Runner  bridge.Runner
	Log     *debuglog.Logger
	History *history.Store // nil disables recording
	Prompt  *prompt.Reader
	Out     io.Writer
	Logger  *slog.Logger
}

// Run executes the linear flow: locate adb, probe for a device, then
// either report on the connected device or prompt, pair and connect
// first. The accumulated run log is printed before returning. The only
// error returned is a failure to locate adb; every other outcome is
// reported and recorded but does not abort the run.
func (s *Session) Run(ctx context.Context, preset *Params) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "wearctl - wearable wireless debugging helper")
	fmt.Fprintln(out, "--------------------------------------------")

	tool := s.Config.Bridge.Tool
	path, err := bridge.Locate(ctx, s.Runner, tool, s.fallbackPaths(), s.Log)
	if err != nil {
		fmt.Fprintf(out, "Error: %s not found. Install platform-tools or set bridge.tool in the config.\n", tool)
		return err
	}
	client := bridge.NewClient(path, s.Runner, s.Log)

	// The probe doubles as the device snapshot: the client logs the
	// full `adb devices` output to the run log.
	if client.IsDeviceConnected(ctx) {
		fmt.Fprintln(out, "Device already connected.")
		s.deviceInfo(ctx, client, out)
	} else {
		s.pairAndConnect(ctx, client, preset, out)
	}

	fmt.Fprintln(out, "\n---- run log ----")
	fmt.Fprint(out, s.Log.Dump())
	return nil
}

func (s *Session) fallbackPaths() []string {
	if len(s.Config.Bridge.FallbackPaths) > 0 {
		return s.Config.Bridge.FallbackPaths
	}
	return bridge.DefaultFallbackPaths()
}

func (s *Session) pairAndConnect(ctx context.Context, client *bridge.Client, preset *Params, out io.Writer) {
	params, err := s.resolveParams(preset, out)
	if err != nil {
		s.Log.Logf("reading pairing input: %v", err)
		fmt.Fprintf(out, "Error: %v\n", err)
		s.record(ctx, "pair", "", bridge.Outcome{
			Status: bridge.StatusError,
			Result: bridge.Result{Stderr: err.Error(), ExitCode: 1},
		})
		return
	}

	if params.Code == "" {
		// Already-paired target, e.g. from a profile.
		s.connect(ctx, client, params, out)
		return
	}

	outcome := client.Pair(ctx, params.Address, params.Port, params.Code)
	s.record(ctx, "pair", params.Target(), outcome)
	if outcome.Status != bridge.StatusOK {
		fmt.Fprintf(out, "Pairing failed: %s\n", failureText(outcome))
		return
	}
	fmt.Fprintln(out, "Paired successfully.")
	// A successful pairing is always followed by a connect attempt
	// against the same address and port.
	s.connect(ctx, client, params, out)
}

func (s *Session) connect(ctx context.Context, client *bridge.Client, params Params, out io.Writer) {
	outcome := client.Connect(ctx, params.Address, params.Port)
	s.record(ctx, "connect", params.Target(), outcome)
	if outcome.Status != bridge.StatusOK {
		fmt.Fprintf(out, "Connection failed: %s\n", failureText(outcome))
		return
	}
	fmt.Fprintf(out, "Connected to %s.\n", params.Target())
	s.deviceInfo(ctx, client, out)
}

func (s *Session) deviceInfo(ctx context.Context, client *bridge.Client, out io.Writer) {
	apps := client.ListPackages(ctx)
	s.record(ctx, "packages", "", apps)
	s.report(apps, "Installed packages:", out)

	storage := client.DiskFree(ctx)
	s.record(ctx, "storage", "", storage)
	s.report(storage, "Storage:", out)
}

func (s *Session) report(outcome bridge.Outcome, header string, out io.Writer) {
	switch outcome.Status {
	case bridge.StatusOK:
		fmt.Fprintln(out, header)
		fmt.Fprintln(out, strings.TrimRight(outcome.Result.Stdout, "\n"))
	case bridge.StatusOffline:
		fmt.Fprintln(out, offlineHint)
	default:
		fmt.Fprintf(out, "Error: %s\n", failureText(outcome))
	}
}

func (s *Session) resolveParams(preset *Params, out io.Writer) (Params, error) {
	if preset != nil {
		fmt.Fprintf(out, "Using saved target %s.\n", preset.Target())
		return *preset, nil
	}
	fmt.Fprintln(out, "No device connected. Enter wireless debugging pairing details.")
	addr, port, code, err := s.Prompt.PairingParams()
	if err != nil {
		return Params{}, fmt.Errorf("reading input: %w", err)
	}
	return Params{Address: addr, Port: port, Code: code}, nil
}

func (s *Session) record(ctx context.Context, action, target string, outcome bridge.Outcome) {
	if s.History == nil {
		return
	}
	detail := strings.TrimSpace(outcome.Result.Stdout)
	if detail == "" {
		detail = strings.TrimSpace(outcome.Result.Stderr)
	}
	rec := history.Record{
		Action:   action,
		Target:   target,
		ExitCode: outcome.Result.ExitCode,
		Detail:   detail,
	}
	if err := s.History.Append(ctx, rec); err != nil && s.Logger != nil {
		s.Logger.Warn("cannot record operation", "action", action, "err", err)
	}
}

func failureText(outcome bridge.Outcome) string {
	if msg := strings.TrimSpace(outcome.Result.Stderr); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(outcome.Result.Stdout); msg != "" {
		return msg
	}
	return "unknown error"
}
