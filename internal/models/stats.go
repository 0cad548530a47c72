package models

import "time"

// HostStats is a point-in-time sample of host resource usage.
type HostStats struct {
	CPUPercent float64   `json:"cpuPercent"`
	MemPercent float64   `json:"memPercent"`
	SampledAt  time.Time `json:"sampledAt"`
}
