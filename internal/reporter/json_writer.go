package reporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/pkg/config"
)

// JSONFileName is the file the JSON writer produces in the output directory.
const JSONFileName = "report.json"

// WriteJSON writes the report to a JSON file
func WriteJSON(report *models.Report, cfg *config.Config) error {
	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Marshal report to JSON with pretty printing
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	outputPath := filepath.Join(cfg.OutputDir, JSONFileName)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", JSONFileName, err)
	}

	slog.Debug("json report written", slog.String("path", outputPath))
	return nil
}
