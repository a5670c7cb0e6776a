package reporter

import (
	"fmt"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/pkg/config"
)

// Output formats supported by the reporter.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatText = "text"
)

// IsValidFormat reports whether format names a supported writer.
func IsValidFormat(format string) bool {
	switch format {
	case FormatCSV, FormatJSON, FormatText:
		return true
	}
	return false
}

// Reporter interface for generating reports
type Reporter interface {
	Generate(report *models.Report) error
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
}

// New creates a new reporter instance
func New(cfg *config.Config) Reporter {
	return &reporter{
		config: cfg,
	}
}

// Generate writes the report in the configured format.
func (r *reporter) Generate(report *models.Report) error {
	switch r.config.Format {
	case FormatCSV, "":
		return WriteCSV(report, r.config)
	case FormatJSON:
		return WriteJSON(report, r.config)
	case FormatText:
		return WriteText(report, r.config)
	}
	return fmt.Errorf("unsupported report format %q", r.config.Format)
}
