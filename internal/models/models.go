package models

// Billable object categories reported per namespace. CategoryLoadBalancers
// is a top-level inventory field; the rest live under http_loadbalancers.
const (
	CategoryLoadBalancers          = "loadbalancers"
	CategoryPublicAdvertisment     = "public_advertisment"
	CategoryPrivateAdvertisement   = "private_advertisement"
	CategoryWAF                    = "waf"
	CategoryBotProtection          = "bot_protection"
	CategoryClientSideDefense      = "client_side_defense"
	CategoryAPIDiscovery           = "api_discovery"
	CategoryAPIProtection          = "api_protection"
	CategoryDDoSProtection         = "ddos_protection"
	CategoryMaliciousUserDetection = "malicious_user_detection"
	CategoryMalwareProtection      = "malware_protection"
)

var categories = []string{
	CategoryLoadBalancers,
	CategoryPublicAdvertisment,
	CategoryPrivateAdvertisement,
	CategoryWAF,
	CategoryBotProtection,
	CategoryClientSideDefense,
	CategoryAPIDiscovery,
	CategoryAPIProtection,
	CategoryDDoSProtection,
	CategoryMaliciousUserDetection,
	CategoryMalwareProtection,
}

var displayNames = map[string]string{
	CategoryLoadBalancers:          "Total LBs",
	CategoryPublicAdvertisment:     "Public LBs",
	CategoryPrivateAdvertisement:   "Private LBs",
	CategoryWAF:                    "WAF",
	CategoryBotProtection:          "Bot Protection",
	CategoryClientSideDefense:      "Client-Side Defense",
	CategoryAPIDiscovery:           "API Discovery",
	CategoryAPIProtection:          "API Protection",
	CategoryDDoSProtection:         "DDoS Protection",
	CategoryMaliciousUserDetection: "Malicious User Detection",
	CategoryMalwareProtection:      "Malware Protection",
}

// Categories returns all billable categories in report column order.
// Callers must not mutate the returned slice.
func Categories() []string {
	return categories
}

// HTTPLBCategories returns the categories nested under the
// http_loadbalancers inventory document.
func HTTPLBCategories() []string {
	return categories[1:]
}

// DisplayName returns the human-readable column name for a category.
// Unknown categories are returned unchanged.
func DisplayName(category string) string {
	if name, ok := displayNames[category]; ok {
		return name
	}
	return category
}

// NamespaceReport holds everything collected for a single namespace.
// A nil Counts map means the inventory fetch failed; a nil HTTPRequests
// means no request metrics could be retrieved. Both cases carry an entry
// in Issues. Reports are built once and never mutated afterwards.
type NamespaceReport struct {
	Namespace    string           `json:"namespace"`
	Counts       map[string]int64 `json:"counts,omitempty"`
	HTTPRequests *int64           `json:"http_requests,omitempty"`
	Issues       []string         `json:"issues,omitempty"`
}

// Count returns the count for a category and whether inventory data
// is present for this namespace.
func (r *NamespaceReport) Count(category string) (int64, bool) {
	if r.Counts == nil {
		return 0, false
	}
	return r.Counts[category], true
}

// HasIssues reports whether any fetch failed for this namespace.
func (r *NamespaceReport) HasIssues() bool {
	return len(r.Issues) > 0
}
