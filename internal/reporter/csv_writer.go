package reporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/pkg/config"
)

// CSVFileName is the file the CSV writer produces in the output directory.
const CSVFileName = "usage.csv"

// WriteCSV writes one header row plus one row per namespace to usage.csv.
// Count cells are blank when the inventory fetch failed for the row's
// namespace; present-but-zero counts render as 0.
func WriteCSV(report *models.Report, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(cfg.OutputDir, CSVFileName)
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", CSVFileName, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range report.Namespaces {
		if err := writer.Write(csvRow(&report.Namespaces[i])); err != nil {
			return fmt.Errorf("failed to write CSV row for namespace %q: %w", report.Namespaces[i].Namespace, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", CSVFileName, err)
	}

	slog.Debug("csv report written", slog.String("path", outputPath))
	return nil
}

func csvHeader() []string {
	header := []string{"Namespace"}
	for _, category := range models.Categories() {
		header = append(header, models.DisplayName(category))
	}
	return append(header, "HTTP Requests", "Issues")
}

func csvRow(report *models.NamespaceReport) []string {
	row := []string{report.Namespace}
	for _, category := range models.Categories() {
		if count, ok := report.Count(category); ok {
			row = append(row, strconv.FormatInt(count, 10))
		} else {
			row = append(row, "")
		}
	}

	if report.HTTPRequests != nil {
		row = append(row, strconv.FormatInt(*report.HTTPRequests, 10))
	} else {
		row = append(row, "")
	}

	return append(row, strings.Join(report.Issues, "; "))
}
