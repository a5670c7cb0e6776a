package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/pkg/config"
)

const (
	// TextFileName is the file the text writer produces in the output directory.
	TextFileName = "report.txt"

	textANSIReset = "\x1b[0m"
	textANSIBold  = "\x1b[1m"
)

// WriteText writes a human-readable text report to report.txt and stdout.
func WriteText(report *models.Report, cfg *config.Config) error {
	return writeText(report, cfg, os.Stdout)
}

func writeText(report *models.Report, cfg *config.Config, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rendered := renderTextReport(report, supportsANSI(out))
	outputPath := filepath.Join(cfg.OutputDir, TextFileName)

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", TextFileName, err)
	}

	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write text report to output: %w", err)
	}

	return nil
}

func renderTextReport(report *models.Report, useANSI bool) string {
	var b strings.Builder

	generatedAt := strings.TrimSpace(report.Timestamp)
	if generatedAt == "" {
		if !report.Metadata.GeneratedAt.IsZero() {
			generatedAt = report.Metadata.GeneratedAt.UTC().Format(time.RFC3339)
		} else {
			generatedAt = "unknown"
		}
	}

	host := strings.TrimSpace(report.Metadata.TenantHost)
	if host == "" {
		host = "unknown"
	}

	writeTextSectionHeader(&b, "XC Namespace Usage Report", useANSI)
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt)
	fmt.Fprintf(&b, "Tenant: %s\n", host)
	fmt.Fprintf(&b, "Lookback days: %d\n", report.Metadata.LookbackDays)
	fmt.Fprintf(&b, "Namespaces: %d\n", len(report.Namespaces))
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Totals", useANSI)
	totals, totalRequests := reportTotals(report)
	for _, category := range models.Categories() {
		fmt.Fprintf(&b, "%-26s %d\n", models.DisplayName(category)+":", totals[category])
	}
	fmt.Fprintf(&b, "%-26s %d\n", "HTTP Requests:", totalRequests)
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Namespaces", useANSI)
	if len(report.Namespaces) == 0 {
		b.WriteString("No namespaces collected.\n")
	} else {
		b.WriteString("NAMESPACE                                    TOTAL LBS  HTTP REQUESTS  ISSUES\n")
		b.WriteString("------------------------------------------------------------------------------\n")
		for i := range report.Namespaces {
			ns := &report.Namespaces[i]
			fmt.Fprintf(&b, "%-44s %-10s %-14s %d\n",
				truncateTextValue(ns.Namespace, 44),
				textCount(ns, models.CategoryLoadBalancers),
				textRequests(ns),
				len(ns.Issues),
			)
		}
	}

	issues := namespaceIssues(report)
	if len(issues) > 0 {
		b.WriteString("\n")
		writeTextSectionHeader(&b, "Issues", useANSI)
		for _, issue := range issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	return b.String()
}

func reportTotals(report *models.Report) (map[string]int64, int64) {
	totals := make(map[string]int64, len(models.Categories()))
	var totalRequests int64
	for i := range report.Namespaces {
		ns := &report.Namespaces[i]
		for _, category := range models.Categories() {
			if count, ok := ns.Count(category); ok {
				totals[category] += count
			}
		}
		if ns.HTTPRequests != nil {
			totalRequests += *ns.HTTPRequests
		}
	}
	return totals, totalRequests
}

func namespaceIssues(report *models.Report) []string {
	var issues []string
	for i := range report.Namespaces {
		ns := &report.Namespaces[i]
		for _, issue := range ns.Issues {
			issues = append(issues, fmt.Sprintf("%s: %s", ns.Namespace, issue))
		}
	}
	return issues
}

func textCount(report *models.NamespaceReport, category string) string {
	if count, ok := report.Count(category); ok {
		return fmt.Sprintf("%d", count)
	}
	return "n/a"
}

func textRequests(report *models.NamespaceReport) string {
	if report.HTTPRequests != nil {
		return fmt.Sprintf("%d", *report.HTTPRequests)
	}
	return "n/a"
}

func writeTextSectionHeader(b *strings.Builder, title string, useANSI bool) {
	header := title
	if useANSI {
		header = textANSIBold + title + textANSIReset
	}
	fmt.Fprintf(b, "%s\n", header)
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", len(title)))
}

func supportsANSI(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

func truncateTextValue(value string, width int) string {
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}
