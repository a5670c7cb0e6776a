package config

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string with support for days (d).
// "30d" and "7d" style values are common for lookback windows; anything
// else falls back to standard Go duration parsing ("720h", "5m", "30s").
func ParseDuration(s string) (time.Duration, error) {
	if digits, ok := strings.CutSuffix(s, "d"); ok {
		if value, err := strconv.Atoi(digits); err == nil && value >= 0 {
			return time.Duration(value) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
