package xc

import (
	"encoding/json"

	"github.com/ppiankov/xcusage/internal/models"
)

// ObjectCounts flattens the inventory document into counts per billable
// category. Every category is present in the result; fields the API did
// not return count as zero.
func (inv *Inventory) ObjectCounts() map[string]int64 {
	counts := make(map[string]int64, len(models.Categories()))
	for _, category := range models.Categories() {
		counts[category] = 0
	}
	if inv == nil {
		return counts
	}

	counts[models.CategoryLoadBalancers] = numberToInt64(inv.LoadBalancers)
	for _, category := range models.HTTPLBCategories() {
		if value, ok := inv.HTTPLoadBalancers[category]; ok {
			counts[category] = numberToInt64(value)
		}
	}
	return counts
}

// numberToInt64 converts a JSON number to an int64 count. The API should
// only return integers here, but a float still truncates cleanly.
func numberToInt64(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}
