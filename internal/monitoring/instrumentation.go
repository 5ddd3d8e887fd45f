package monitoring

import (
	"strings"
	"time"
)

// MaintenanceRun describes one finished cleanup job.
type MaintenanceRun struct {
	Job      string
	Removed  int64
	Duration time.Duration
	Err      error
}

func (r MaintenanceRun) result() string {
	if r.Err != nil {
		return "failure"
	}
	return "success"
}

// RecordMaintenanceRun reports run to the installed module. It is a no-op without one.
func RecordMaintenanceRun(run MaintenanceRun) {
	module := CurrentModule()
	if module == nil {
		return
	}

	job := normalizeLabel(run.Job)
	result := run.result()
	duration := nonNegative(run.Duration)

	module.metrics.maintenanceRuns.WithLabelValues(job, result).Inc()
	module.metrics.maintenanceDuration.WithLabelValues(job).Observe(duration.Seconds())
	if run.Err == nil {
		module.metrics.maintenanceLastOK.WithLabelValues(job).SetToCurrentTime()
		if run.Removed > 0 {
			module.metrics.maintenanceRemoved.WithLabelValues(job).Add(float64(run.Removed))
		}
	}

	module.stats.recordMaintenance(job, run, duration)
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
