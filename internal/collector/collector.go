package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/xcusage/internal/models"
	"github.com/ppiankov/xcusage/internal/xc"
	"github.com/ppiankov/xcusage/pkg/config"
)

// Client is the subset of the tenant API the collector needs.
type Client interface {
	ListNamespaces(ctx context.Context) ([]string, error)
	ApplicationInventory(ctx context.Context, namespace string) (*xc.Inventory, error)
	HTTPRequestTotal(ctx context.Context, namespace string, start, end time.Time) (int64, error)
}

// Result holds the collected rows plus the namespaces where at least one
// API call failed. A namespace with no traffic metrics gets an issue in
// its row but does not count as failed.
type Result struct {
	Reports          []models.NamespaceReport
	FailedNamespaces []string
}

// Collector walks every namespace of the tenant and assembles usage
// reports. Namespaces are fetched one at a time; the API client applies
// rate limiting and retries underneath.
type Collector struct {
	config *config.Config
	client Client
}

// New creates a collector backed by a real tenant API client.
func New(cfg *config.Config) (*Collector, error) {
	client, err := xc.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant API client: %w", err)
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a collector with an explicit client.
func NewWithClient(cfg *config.Config, client Client) *Collector {
	return &Collector{
		config: cfg,
		client: client,
	}
}

// Collect lists namespaces and gathers inventory counts plus HTTP request
// totals for each. A namespace failure aborts the run only in fail-fast
// mode; otherwise it is recorded in the report row and collection
// continues. Context cancellation always aborts.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	namespaces, err := c.client.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	start := end.Add(-c.config.Lookback)

	result := &Result{
		Reports: make([]models.NamespaceReport, 0, len(namespaces)),
	}
	for _, namespace := range namespaces {
		if c.config.IsNamespaceExcluded(namespace) {
			slog.Debug("namespace excluded", slog.String("namespace", namespace))
			continue
		}

		report, err := c.collectNamespace(ctx, namespace, start, end)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if c.config.FailFast {
				return nil, fmt.Errorf("namespace %q: %w", namespace, err)
			}
			result.FailedNamespaces = append(result.FailedNamespaces, namespace)
		}
		result.Reports = append(result.Reports, report)
	}

	return result, nil
}

// collectNamespace builds the report row for one namespace. The returned
// error is the first fetch failure, already recorded in the row's issues.
func (c *Collector) collectNamespace(ctx context.Context, namespace string, start, end time.Time) (models.NamespaceReport, error) {
	report := models.NamespaceReport{Namespace: namespace}
	var firstErr error

	inventory, err := c.client.ApplicationInventory(ctx, namespace)
	if err != nil {
		report.Issues = append(report.Issues, err.Error())
		firstErr = err
		slog.Warn("inventory fetch failed",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
	} else {
		report.Counts = inventory.ObjectCounts()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if firstErr == nil {
			firstErr = ctxErr
		}
		return report, firstErr
	}

	total, err := c.client.HTTPRequestTotal(ctx, namespace, start, end)
	switch {
	case errors.Is(err, xc.ErrNoMetrics):
		// Namespace served no traffic in the window. Noted, not a failure.
		report.Issues = append(report.Issues, err.Error())
	case err != nil:
		report.Issues = append(report.Issues, err.Error())
		if firstErr == nil {
			firstErr = err
		}
		slog.Warn("service graph fetch failed",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()),
		)
	default:
		report.HTTPRequests = &total
	}

	return report, firstErr
}
