package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/pkg/config"
)

func TestIsValidFormat(t *testing.T) {
	for _, format := range []string{FormatCSV, FormatJSON, FormatText} {
		if !IsValidFormat(format) {
			t.Errorf("expected %q to be valid", format)
		}
	}
	for _, format := range []string{"", "yaml", "CSV", "html"} {
		if IsValidFormat(format) {
			t.Errorf("expected %q to be invalid", format)
		}
	}
}

func TestGenerateDispatchesOnFormat(t *testing.T) {
	tests := []struct {
		format   string
		wantFile string
	}{
		{format: FormatCSV, wantFile: CSVFileName},
		{format: FormatJSON, wantFile: JSONFileName},
		{format: FormatText, wantFile: TextFileName},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.OutputDir = t.TempDir()
			cfg.Format = tc.format

			if err := New(cfg).Generate(sampleReport()); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if _, err := os.Stat(filepath.Join(cfg.OutputDir, tc.wantFile)); err != nil {
				t.Fatalf("expected %s to exist: %v", tc.wantFile, err)
			}
		})
	}
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Format = "html"

	err := New(cfg).Generate(sampleReport())
	if err == nil || !strings.Contains(err.Error(), "unsupported report format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	report := sampleReport()
	if err := WriteJSON(report, cfg); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, JSONFileName))
	if err != nil {
		t.Fatalf("failed to read report.json: %v", err)
	}

	var decoded models.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report.json is not valid JSON: %v", err)
	}
	if decoded.Tool != "xcusage" {
		t.Errorf("unexpected tool name: %q", decoded.Tool)
	}
	if len(decoded.Namespaces) != len(report.Namespaces) {
		t.Errorf("expected %d namespaces, got %d", len(report.Namespaces), len(decoded.Namespaces))
	}
	if decoded.Namespaces[0].HTTPRequests == nil || *decoded.Namespaces[0].HTTPRequests != 432000 {
		t.Errorf("unexpected request total: %v", decoded.Namespaces[0].HTTPRequests)
	}
	if decoded.Namespaces[2].Counts != nil {
		t.Errorf("expected failed namespace counts to stay absent, got %v", decoded.Namespaces[2].Counts)
	}
}

func TestWriteTextReport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	var out bytes.Buffer
	if err := writeText(sampleReport(), cfg, &out); err != nil {
		t.Fatalf("writeText failed: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{
		"XC Namespace Usage Report",
		"Tenant: tenant.example.com",
		"Lookback days: 30",
		"Total LBs:",
		"prod",
		"broken: failed to retrieve application inventory",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected text report to contain %q", want)
		}
	}

	// Buffer output must not include ANSI escapes.
	if strings.Contains(rendered, textANSIBold) {
		t.Error("expected no ANSI codes for non-TTY output")
	}

	onDisk, err := os.ReadFile(filepath.Join(cfg.OutputDir, TextFileName))
	if err != nil {
		t.Fatalf("failed to read report.txt: %v", err)
	}
	if string(onDisk) != rendered {
		t.Error("file contents must match stdout output")
	}
}

func TestWriteTextNilArguments(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	if err := writeText(nil, cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected error for nil report")
	}
	if err := writeText(sampleReport(), nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for nil config")
	}
	if err := writeText(sampleReport(), cfg, nil); err == nil {
		t.Error("expected error for nil writer")
	}
}
