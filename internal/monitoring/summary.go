package monitoring

import "time"

// Summary is the operator view served by the monitoring endpoint.
type Summary struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	StartedAt     time.Time          `json:"started_at"`
	UptimeSeconds float64            `json:"uptime_seconds"`
	Maintenance   MaintenanceSummary `json:"maintenance"`
	Probes        []ProbeSummary     `json:"probes"`
}

type MaintenanceSummary struct {
	Jobs []MaintenanceJobSummary `json:"jobs"`
}

type MaintenanceJobSummary struct {
	Job                 string        `json:"job"`
	LastStatus          string        `json:"last_status"`
	LastRunAt           time.Time     `json:"last_run_at"`
	LastDuration        time.Duration `json:"last_duration"`
	LastError           string        `json:"last_error,omitempty"`
	LastRemoved         int64         `json:"last_removed"`
	TotalRemoved        int64         `json:"total_removed"`
	ConsecutiveFailures uint64        `json:"consecutive_failures"`
	ConsecutiveSuccess  uint64        `json:"consecutive_success"`
	LastSuccessAt       time.Time     `json:"last_success_at"`
	TotalRuns           uint64        `json:"total_runs"`
}

// ProbeSummary is the latest outcome of one health component.
type ProbeSummary struct {
	Component string      `json:"component"`
	Status    ProbeStatus `json:"status"`
	Details   string      `json:"details,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Snapshot returns the summary of the installed module.
func Snapshot() Summary {
	return CurrentModule().Summary()
}
