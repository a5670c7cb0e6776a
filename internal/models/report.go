package models

import "time"

// Report is the complete output structure
type Report struct {
	Tool       string            `json:"tool"`
	Version    string            `json:"version"`
	Timestamp  string            `json:"timestamp"`
	Metadata   Metadata          `json:"metadata"`
	Namespaces []NamespaceReport `json:"namespaces"`
}

// Metadata contains report generation info
type Metadata struct {
	GeneratedAt        time.Time `json:"generated_at"`
	TenantHost         string    `json:"tenant_host"`
	LookbackDays       int       `json:"lookback_days"`
	NamespaceCount     int       `json:"namespace_count"`
	PartialFailures    int       `json:"partial_failures"`
	CollectionDuration string    `json:"collection_duration"`
	Version            string    `json:"version"`
}
