package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ppiankov/xcusage/internal/reporter"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var dir string
	var port int

	cmd := &cobra.Command{
		Use:   "serve [directory]",
		Short: "Serve generated report directory",
		Long: `Start a local HTTP server to share a generated report.
The report files will be available at http://localhost:PORT`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				dir = args[0]
			}

			return runServe(dir, port)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./report", "Directory to serve")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")

	return cmd
}

// runServe starts the HTTP server
func runServe(dir string, port int) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("directory not found: %s", dir)
	}

	if !hasReportFile(dir) {
		return fmt.Errorf("no report found in %s\nRun 'xcusage report' first to generate one", dir)
	}

	http.Handle("/", http.FileServer(http.Dir(dir)))
	addr := fmt.Sprintf(":%d", port)

	url := "http://localhost:" + strconv.Itoa(port)
	fmt.Fprintf(os.Stderr, "Serving %s at %s (Ctrl+C to stop)\n", dir, url)
	slog.Debug("report server started",
		slog.String("url", url),
		slog.String("dir", dir),
	)

	if err := http.ListenAndServe(addr, nil); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// hasReportFile reports whether dir contains output from any writer.
func hasReportFile(dir string) bool {
	for _, name := range []string{reporter.CSVFileName, reporter.JSONFileName, reporter.TextFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
