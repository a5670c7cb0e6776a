package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/xcusage/internal/collector"
	"github.com/ppiankov/xcusage/internal/history"
	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/internal/reporter"
	"github.com/ppiankov/xcusage/pkg/config"
	"github.com/spf13/cobra"
)

// apiTokenEnvVar is consulted when neither flag nor config file set a token.
const apiTokenEnvVar = "XC_API_TOKEN"

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	// String variables for custom duration parsing
	var lookbackStr string
	var requestTimeoutStr string
	var configPath string

	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"collect"},
		Short:   "Collect namespace usage and generate report",
		Long: `Collect billable object counts and HTTP request totals for every
namespace of the tenant, then write a usage report.

Billable counts come from the application inventory API; request totals
come from the service graph API over the lookback window.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			applyFileConfig(cmd, cfg, fileCfg, &lookbackStr, &requestTimeoutStr)

			if cfg.APIToken == "" {
				cfg.APIToken = strings.TrimSpace(os.Getenv(apiTokenEnvVar))
			}

			if lookbackStr != "" {
				cfg.Lookback, err = config.ParseDuration(lookbackStr)
				if err != nil {
					return fmt.Errorf("invalid --lookback duration: %w", err)
				}
			}

			if requestTimeoutStr != "" {
				cfg.RequestTimeout, err = config.ParseDuration(requestTimeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --request-timeout duration: %w", err)
				}
			}

			if !reporter.IsValidFormat(cfg.Format) {
				return fmt.Errorf("invalid --format value %q (expected csv, json, or text)", cfg.Format)
			}

			if strings.TrimSpace(cfg.BaseURL) == "" {
				return fmt.Errorf("--base-url is required (flag, config file, or %s)", config.DefaultConfigFileYAML)
			}
			if strings.TrimSpace(cfg.APIToken) == "" {
				return fmt.Errorf("--api-token is required (flag, config file, or %s env)", apiTokenEnvVar)
			}

			cfg.Normalize()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cfg)
		},
	}

	// Tenant API flags
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "", "Base URL of the XC tenant (e.g. https://mytenant.console.ves.volterra.io)")
	cmd.Flags().StringVar(&cfg.APIToken, "api-token", "", "API token for authentication")
	cmd.Flags().BoolVar(&cfg.Insecure, "insecure", false, "Disable TLS certificate verification")
	cmd.Flags().StringVar(&requestTimeoutStr, "request-timeout", "", "Per-request timeout (e.g., 30s, 2m)")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", 10, "Tenant API rate limit (requests/sec)")

	// Collection flags
	cmd.Flags().StringVar(&lookbackStr, "lookback", "", "Time horizon for HTTP request statistics (e.g., 7d, 30d, 720h)")
	cmd.Flags().StringVar(&lookbackStr, "days", "", "Alias for --lookback")
	cmd.Flags().StringSliceVar(&cfg.Namespaces, "namespace", nil, "Restrict the run to specific namespaces (repeatable, glob)")
	cmd.Flags().StringSliceVar(&cfg.ExcludeNamespaces, "exclude-namespace", nil, "Skip matching namespaces (repeatable, glob)")
	cmd.Flags().BoolVar(&cfg.FailFast, "fail-fast", false, "Abort the run on the first namespace error")

	// Output flags
	cmd.Flags().StringVar(&cfg.OutputDir, "output", "./report", "Output directory")
	cmd.Flags().StringVar(&cfg.Format, "format", "csv", "Output format (csv, json, text)")

	// History flags
	cmd.Flags().StringVar(&cfg.HistoryDSN, "history-dsn", "", "Optional ClickHouse DSN for usage trend history")

	// Operational flags
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Dry run mode (don't write output)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .xcusage.yaml)")

	_ = cmd.Flags().MarkHidden("days")

	return cmd
}

func loadFileConfig(configPath string) (*config.FileConfig, error) {
	if strings.TrimSpace(configPath) != "" {
		return config.LoadFile(configPath)
	}

	fileCfg, path, err := config.AutoLoadFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		slog.Debug("loaded config file", slog.String("path", path))
	}
	return fileCfg, nil
}

// applyFileConfig merges config file values under explicit flags.
func applyFileConfig(cmd *cobra.Command, cfg *config.Config, fileCfg *config.FileConfig, lookbackStr, requestTimeoutStr *string) {
	if fileCfg == nil {
		return
	}

	if !cmd.Flags().Changed("base-url") && fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if !cmd.Flags().Changed("api-token") && fileCfg.APIToken != "" {
		cfg.APIToken = fileCfg.APIToken
	}
	if !cmd.Flags().Changed("format") && fileCfg.Format != "" {
		cfg.Format = fileCfg.Format
	}
	if !cmd.Flags().Changed("insecure") && fileCfg.Insecure != nil {
		cfg.Insecure = *fileCfg.Insecure
	}
	if !cmd.Flags().Changed("history-dsn") && fileCfg.HistoryDSN != "" {
		cfg.HistoryDSN = fileCfg.HistoryDSN
	}
	if *lookbackStr == "" && fileCfg.Lookback != "" {
		*lookbackStr = fileCfg.Lookback
	}
	if *requestTimeoutStr == "" && fileCfg.RequestTimeout != "" {
		*requestTimeoutStr = fileCfg.RequestTimeout
	}
	if len(fileCfg.ExcludeNamespaces) > 0 {
		cfg.ExcludeNamespaces = append(cfg.ExcludeNamespaces, fileCfg.ExcludeNamespaces...)
	}
}

// runReport executes the collection workflow
func runReport(cfg *config.Config) error {
	startTime := time.Now()
	ctx := context.Background()

	if cfg.Verbose {
		slog.Debug("starting collection",
			slog.String("base_url", cfg.BaseURL),
			slog.Duration("lookback", cfg.Lookback),
			slog.Int("rate_limit", cfg.RateLimit),
			slog.String("format", cfg.Format),
		)
	}

	fmt.Println("🔌 Connecting to tenant...")
	col, err := collector.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}

	fmt.Println("📊 Collecting namespace usage...")
	result, err := col.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect namespace usage: %w", err)
	}
	fmt.Printf("✓ Collected %d namespaces\n", len(result.Reports))

	report := buildReport(cfg, result, startTime)

	if !cfg.DryRun {
		fmt.Println("📝 Writing report...")
		rep := reporter.New(cfg)
		if err := rep.Generate(report); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		fmt.Printf("✓ Report written to: %s\n", cfg.OutputDir)

		recordHistory(ctx, cfg, report)
	} else {
		fmt.Println("🏃 Dry run mode - skipping output")
	}

	duration := time.Since(startTime)
	fmt.Printf("\n✅ Collection complete in %s!\n", duration.Round(time.Second))

	if failed := len(result.FailedNamespaces); failed > 0 {
		return &PartialError{Count: failed}
	}
	return nil
}

// recordHistory ships the run to ClickHouse when a history DSN is set.
// History is best effort and never fails the report run.
func recordHistory(ctx context.Context, cfg *config.Config, report *models.Report) {
	if cfg.HistoryDSN == "" {
		return
	}

	sink, err := history.Open(cfg.HistoryDSN)
	if err != nil {
		slog.Warn("history sink unavailable", slog.String("error", err.Error()))
		return
	}
	defer sink.Close()

	if err := sink.EnsureSchema(ctx); err != nil {
		slog.Warn("failed to ensure history schema", slog.String("error", err.Error()))
		return
	}
	if err := sink.Record(ctx, report); err != nil {
		slog.Warn("failed to record history", slog.String("error", err.Error()))
		return
	}
	fmt.Println("✓ Usage history recorded")
}

// buildReport constructs the final report
func buildReport(cfg *config.Config, result *collector.Result, startTime time.Time) *models.Report {
	generatedAt := time.Now().UTC()

	return &models.Report{
		Tool:      "xcusage",
		Version:   version,
		Timestamp: generatedAt.Format(time.RFC3339),
		Metadata: models.Metadata{
			GeneratedAt:        generatedAt,
			TenantHost:         tenantHost(cfg.BaseURL),
			LookbackDays:       cfg.LookbackDays(),
			NamespaceCount:     len(result.Reports),
			PartialFailures:    len(result.FailedNamespaces),
			CollectionDuration: time.Since(startTime).Round(time.Second).String(),
			Version:            version,
		},
		Namespaces: result.Reports,
	}
}

// tenantHost extracts the host from the base URL for report metadata.
func tenantHost(baseURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Host
}
