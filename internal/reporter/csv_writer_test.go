package reporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/pkg/config"
)

func int64Ptr(v int64) *int64 { return &v }

func zeroCounts() map[string]int64 {
	counts := make(map[string]int64, len(models.Categories()))
	for _, category := range models.Categories() {
		counts[category] = 0
	}
	return counts
}

func sampleReport() *models.Report {
	prodCounts := zeroCounts()
	prodCounts[models.CategoryLoadBalancers] = 3
	prodCounts[models.CategoryWAF] = 2

	return &models.Report{
		Tool:      "xcusage",
		Version:   "test",
		Timestamp: "2026-08-30T00:00:00Z",
		Metadata: models.Metadata{
			GeneratedAt:  time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			TenantHost:   "tenant.example.com",
			LookbackDays: 30,
		},
		Namespaces: []models.NamespaceReport{
			{
				Namespace:    "prod",
				Counts:       prodCounts,
				HTTPRequests: int64Ptr(432000),
			},
			{
				Namespace: "empty",
				Counts:    zeroCounts(),
				Issues:    []string{"no HTTP request rate metrics found in graph/service response"},
			},
			{
				Namespace: "broken",
				Issues: []string{
					"failed to retrieve application inventory for namespace \"broken\": unexpected status 500",
					"graph service request failed for namespace \"broken\": unexpected status 500",
				},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open CSV: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	return records
}

func TestWriteCSV(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	report := sampleReport()
	if err := WriteCSV(report, cfg); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records := readCSV(t, filepath.Join(cfg.OutputDir, CSVFileName))

	// Header plus one row per namespace.
	if len(records) != len(report.Namespaces)+1 {
		t.Fatalf("expected %d records, got %d", len(report.Namespaces)+1, len(records))
	}

	header := records[0]
	wantColumns := len(models.Categories()) + 3 // Namespace + counts + HTTP Requests + Issues
	if len(header) != wantColumns {
		t.Fatalf("expected %d columns, got %d: %v", wantColumns, len(header), header)
	}
	if header[0] != "Namespace" || header[1] != "Total LBs" || header[4] != "WAF" {
		t.Errorf("unexpected header columns: %v", header)
	}
	if header[len(header)-2] != "HTTP Requests" || header[len(header)-1] != "Issues" {
		t.Errorf("unexpected trailing header columns: %v", header)
	}

	prod := records[1]
	if prod[0] != "prod" || prod[1] != "3" || prod[4] != "2" {
		t.Errorf("unexpected prod row: %v", prod)
	}
	if prod[len(prod)-2] != "432000" {
		t.Errorf("expected request total 432000, got %q", prod[len(prod)-2])
	}
	if prod[len(prod)-1] != "" {
		t.Errorf("expected empty issues cell, got %q", prod[len(prod)-1])
	}
}

func TestWriteCSVZeroCountsRenderAsZero(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	if err := WriteCSV(sampleReport(), cfg); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records := readCSV(t, filepath.Join(cfg.OutputDir, CSVFileName))
	empty := records[2]
	for i := 1; i <= len(models.Categories()); i++ {
		if empty[i] != "0" {
			t.Errorf("expected column %d to be 0 for empty namespace, got %q", i, empty[i])
		}
	}
	if empty[len(empty)-2] != "" {
		t.Errorf("expected blank request cell when metrics missing, got %q", empty[len(empty)-2])
	}
}

func TestWriteCSVFailedFetchLeavesCellsBlank(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()

	if err := WriteCSV(sampleReport(), cfg); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records := readCSV(t, filepath.Join(cfg.OutputDir, CSVFileName))
	broken := records[3]
	for i := 1; i <= len(models.Categories()); i++ {
		if broken[i] != "" {
			t.Errorf("expected blank count cell %d after inventory failure, got %q", i, broken[i])
		}
	}
	issues := broken[len(broken)-1]
	if issues == "" || !containsAll(issues, "application inventory", "graph service") {
		t.Errorf("expected both issues joined in cell, got %q", issues)
	}
}

func containsAll(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
