package xc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// ErrNoMetrics indicates the graph response carried no HTTP request rate
// samples for the namespace and time window.
var ErrNoMetrics = errors.New("no HTTP request rate metrics found in graph/service response")

// HTTPRequestTotal returns the total number of HTTP requests served by
// the namespace's load balancers between start and end. The service graph
// reports per-second request rates; each raw sample is scaled to a daily
// volume and summed.
func (c *Client) HTTPRequestTotal(ctx context.Context, namespace string, start, end time.Time) (int64, error) {
	path := fmt.Sprintf("/api/data/namespaces/%s/graph/service", url.PathEscape(namespace))

	payload := serviceGraphRequest{
		FieldSelector: fieldSelector{
			Node: nodeSelector{
				Metric: metricSelector{
					Downstream: []string{"HTTP_REQUEST_RATE"},
				},
			},
		},
		Step:      "auto",
		EndTime:   strconv.FormatInt(end.Unix(), 10),
		StartTime: strconv.FormatInt(start.Unix(), 10),
		LabelFilter: []labelFilter{
			{
				Label: "LABEL_VHOST_TYPE",
				Op:    "EQ",
				Value: "HTTP_LOAD_BALANCER",
			},
		},
		GroupBy: []string{"VIRTUAL_HOST_TYPE"},
	}

	var resp serviceGraphResponse
	if err := c.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return 0, fmt.Errorf("graph service request failed for namespace %q: %w", namespace, err)
	}

	total := sumRequestRates(resp.nodes())
	if total <= 0 {
		return 0, ErrNoMetrics
	}
	return int64(total), nil
}

func sumRequestRates(nodes []graphNode) float64 {
	var total float64
	for _, node := range nodes {
		for _, series := range node.Data.Metric.Downstream {
			for _, sample := range series.Value.Raw {
				rate, err := sample.Value.Float64()
				if err != nil {
					continue
				}
				total += rate * secondsPerDay
			}
		}
	}
	return total
}
