package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/xcusage/internal/logging"
	"github.com/ppiankov/xcusage/internal/xc"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitAuth       = 4
	ExitNetwork    = 5
	ExitPartial    = 6
)

// PartialError indicates the run completed but some namespaces could not
// be fully collected.
type PartialError struct {
	Count int
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d namespaces had collection issues", e.Count)
}

func main() {
	logging.Init(false)

	root := &cobra.Command{
		Use:   "xcusage",
		Short: "F5 Distributed Cloud usage reporter",
		Long: `xcusage audits an F5 Distributed Cloud tenant: per namespace it
counts billable objects (load balancers, WAF, bot protection and other
security add-ons) and totals the HTTP request volume over a lookback
window, then writes the results as a CSV, JSON or text report.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewReportCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())

	if err := root.Execute(); err != nil {
		exitCode := classifyError(err)
		var pe *PartialError
		if errors.As(err, &pe) {
			slog.Warn("collection incomplete", slog.Int("failed_namespaces", pe.Count))
		} else {
			slog.Error("command failed", slog.String("error", err.Error()))
		}
		os.Exit(exitCode)
	}
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var pe *PartialError
	if errors.As(err, &pe) {
		return ExitPartial
	}

	var statusErr *xc.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 401, 403:
			return ExitAuth
		case 404:
			return ExitNotFound
		}
	}

	if os.IsNotExist(err) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such file") ||
		strings.Contains(msg, "not found") {
		return ExitNotFound
	}

	if strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "invalid token") {
		return ExitAuth
	}

	if strings.Contains(msg, "dial") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "network is unreachable") {
		return ExitNetwork
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "expected") {
		return ExitInvalidArg
	}

	return ExitInternal
}
