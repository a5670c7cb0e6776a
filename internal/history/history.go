// Package history records per-run usage rows in ClickHouse so tenants can
// trend billable counts over time. The sink is optional; failures here are
// surfaced as warnings and never fail the report run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ppiankov/xcusage/internal/models"
)

// TableName is the ClickHouse table the sink writes to.
const TableName = "xcusage_history"

const createTableDDL = `
CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	collected_at DateTime,
	tenant_host  String,
	namespace    String,
	metric       String,
	value        Int64
) ENGINE = MergeTree
ORDER BY (namespace, metric, collected_at)
`

const insertStatement = `INSERT INTO ` + TableName + ` (collected_at, tenant_host, namespace, metric, value)`

// metricHTTPRequests is the metric name used for request totals, stored
// alongside the billable category metrics.
const metricHTTPRequests = "http_requests"

type row struct {
	Namespace string
	Metric    string
	Value     int64
}

// Sink writes usage history rows to ClickHouse.
type Sink struct {
	conn *sql.DB
}

// Open connects to ClickHouse using a DSN and verifies the connection.
func Open(dsn string) (*Sink, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history DSN: %w", err)
	}

	opts.MaxOpenConns = 2
	opts.MaxIdleConns = 1
	opts.ConnMaxLifetime = time.Hour
	opts.DialTimeout = 30 * time.Second
	// Readonly-compatible: don't force query settings on the session.
	opts.Settings = nil

	conn := clickhouse.OpenDB(opts)
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Sink{conn: conn}, nil
}

// EnsureSchema creates the history table when it does not exist yet.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, createTableDDL); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableName, err)
	}
	return nil
}

// Record inserts one row per namespace metric for this run. All rows share
// the report's generation timestamp so a run can be queried as a unit.
func (s *Sink) Record(ctx context.Context, report *models.Report) error {
	rows := historyRows(report)
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	collectedAt := report.Metadata.GeneratedAt.UTC()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, collectedAt, report.Metadata.TenantHost, r.Namespace, r.Metric, r.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to append history row for namespace %q: %w", r.Namespace, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history batch: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Sink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// historyRows flattens a report into insertable rows. Namespaces with a
// failed inventory fetch contribute no count rows; a missing request total
// contributes no http_requests row.
func historyRows(report *models.Report) []row {
	var rows []row
	for i := range report.Namespaces {
		ns := &report.Namespaces[i]
		if ns.Counts != nil {
			for _, category := range models.Categories() {
				count, _ := ns.Count(category)
				rows = append(rows, row{Namespace: ns.Namespace, Metric: category, Value: count})
			}
		}
		if ns.HTTPRequests != nil {
			rows = append(rows, row{Namespace: ns.Namespace, Metric: metricHTTPRequests, Value: *ns.HTTPRequests})
		}
	}
	return rows
}
