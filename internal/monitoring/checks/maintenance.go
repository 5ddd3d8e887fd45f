package checks

import (
	"context"
	"strings"
	"time"

	"github.com/charlesng35/corpman/internal/monitoring"
)

// Maintenance reports on the cleanup jobs named in jobs. A job that keeps failing takes the
// service down; one that has not succeeded within maxAge degrades it. Jobs that have not run
// yet are listed but do not affect the status.
func Maintenance(module *monitoring.Module, jobs []string, maxAge time.Duration) monitoring.Check {
	return monitoring.NewCheck("maintenance", func(context.Context) monitoring.ProbeResult {
		start := time.Now()
		if len(jobs) == 0 {
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "no maintenance jobs scheduled"}
		}

		seen := make(map[string]monitoring.MaintenanceJobSummary)
		for _, job := range module.Summary().Maintenance.Jobs {
			seen[job.Job] = job
		}

		status := monitoring.StatusUp
		var notes []string
		for _, name := range jobs {
			job, ok := seen[name]
			switch {
			case !ok:
				notes = append(notes, name+": pending first run")
			case job.ConsecutiveFailures > 0:
				status = status.Worse(monitoring.StatusDown)
				notes = append(notes, name+": "+job.LastError)
			case maxAge > 0 && start.Sub(job.LastSuccessAt) > maxAge:
				status = status.Worse(monitoring.StatusDegraded)
				notes = append(notes, name+": last success "+job.LastSuccessAt.UTC().Format(time.RFC3339))
			}
		}

		return monitoring.ProbeResult{
			Status:   status,
			Details:  strings.Join(notes, "; "),
			Duration: time.Since(start),
		}
	})
}
