package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the OMDb API key and connectivity",
		Long:  "Report whether an API key is configured, whether OMDb accepts it, and whether the API is reachable.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.OutOrStdout())
		},
	}
}

func runStatus(w io.Writer) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	var p pinger
	if catalog, err := initCatalog(cfg, logger); err == nil {
		p = catalog
	}

	report := checkStatus(ctx, p)
	fmt.Fprintln(w, styleHeader.Render("OMDb status"))
	fmt.Fprint(w, report.render())
	if !report.ok() {
		return fmt.Errorf("status check failed: %s", report.problem())
	}
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// checkState is a tri-state result; unknown means the check could not run.
type checkState int

const (
	checkUnknown checkState = iota
	checkOK
	checkFailed
)

// statusReport holds the outcome of each status check.
type statusReport struct {
	KeyPresent checkState
	KeyValid   checkState
	Reachable  checkState
	Err        error
}

// checkStatus pings the catalog; a nil pinger means no key is configured.
func checkStatus(ctx context.Context, p pinger) statusReport {
	if p == nil {
		return statusReport{KeyPresent: checkFailed, Err: core.ErrMissingAPIKey}
	}
	r := statusReport{KeyPresent: checkOK}
	err := p.Ping(ctx)
	switch {
	case err == nil:
		r.KeyValid, r.Reachable = checkOK, checkOK
	case core.IsAuth(err):
		r.KeyValid, r.Reachable = checkFailed, checkOK
	case core.IsTransport(err), ctx.Err() != nil:
		r.Reachable = checkFailed
	default:
		// OMDb answered with a non-auth error, so the key was accepted.
		r.KeyValid, r.Reachable = checkOK, checkOK
	}
	r.Err = err
	return r
}

func (r statusReport) ok() bool {
	return r.KeyPresent == checkOK && r.KeyValid == checkOK && r.Reachable == checkOK
}

func (r statusReport) problem() string {
	if r.Err == nil {
		return "unknown"
	}
	return frontend.UserMessage(r.Err)
}

func (r statusReport) render() string {
	var b strings.Builder
	b.WriteString(statusLine("API key configured", r.KeyPresent))
	b.WriteString(statusLine("API key accepted", r.KeyValid))
	b.WriteString(statusLine("API reachable", r.Reachable))
	if r.Err != nil && !r.ok() {
		b.WriteString(styleDim.Render("  "+frontend.UserMessage(r.Err)) + "\n")
	}
	return b.String()
}

func statusLine(label string, state checkState) string {
	var mark string
	switch state {
	case checkOK:
		mark = styleSuccess.Render("✓")
	case checkFailed:
		mark = styleError.Render("✗")
	default:
		mark = styleWarn.Render("?")
	}
	return fmt.Sprintf("%s %s\n", mark, label)
}
