package xc

import "encoding/json"

// namespaceListResponse is the shape of GET /api/web/namespaces.
type namespaceListResponse struct {
	Items []namespaceItem `json:"items"`
}

type namespaceItem struct {
	Name string `json:"name"`
}

// Inventory is the application inventory document for one namespace.
// Counts arrive as JSON numbers; absent fields count as zero.
type Inventory struct {
	LoadBalancers     json.Number            `json:"loadbalancers"`
	HTTPLoadBalancers map[string]json.Number `json:"http_loadbalancers"`
}

// serviceGraphRequest is the POST body for the graph/service endpoint.
// The platform expects start/end as decimal epoch-second strings.
type serviceGraphRequest struct {
	FieldSelector fieldSelector `json:"field_selector"`
	Step          string        `json:"step"`
	EndTime       string        `json:"end_time"`
	StartTime     string        `json:"start_time"`
	LabelFilter   []labelFilter `json:"label_filter"`
	GroupBy       []string      `json:"group_by"`
}

type fieldSelector struct {
	Node nodeSelector `json:"node"`
}

type nodeSelector struct {
	Metric metricSelector `json:"metric"`
}

type metricSelector struct {
	Downstream []string `json:"downstream"`
}

type labelFilter struct {
	Label string `json:"label"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// serviceGraphResponse decodes the graph/service response. Depending on
// tenant version the node list appears under "data" or at the top level.
type serviceGraphResponse struct {
	Data  *graphData  `json:"data"`
	Nodes []graphNode `json:"nodes"`
}

func (r *serviceGraphResponse) nodes() []graphNode {
	if r.Data != nil && len(r.Data.Nodes) > 0 {
		return r.Data.Nodes
	}
	return r.Nodes
}

type graphData struct {
	Nodes []graphNode `json:"nodes"`
}

type graphNode struct {
	Data nodeData `json:"data"`
}

type nodeData struct {
	Metric nodeMetric `json:"metric"`
}

type nodeMetric struct {
	Downstream []metricSeries `json:"downstream"`
}

type metricSeries struct {
	Value metricValue `json:"value"`
}

type metricValue struct {
	Raw []rawSample `json:"raw"`
}

type rawSample struct {
	Timestamp json.Number `json:"timestamp"`
	Value     json.Number `json:"value"`
}
