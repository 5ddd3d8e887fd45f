package monitoring

import (
	"sort"
	"sync"
	"time"
)

type statStore struct {
	startedAt time.Time

	mu          sync.Mutex
	maintenance map[string]*MaintenanceJobSummary
	probes      map[string]ProbeSummary
}

func newStatStore() *statStore {
	return &statStore{
		startedAt:   time.Now(),
		maintenance: make(map[string]*MaintenanceJobSummary),
		probes:      make(map[string]ProbeSummary),
	}
}

func (s *statStore) recordMaintenance(job string, run MaintenanceRun, duration time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.maintenance[job]
	if !ok {
		entry = &MaintenanceJobSummary{Job: job}
		s.maintenance[job] = entry
	}

	entry.TotalRuns++
	entry.LastRunAt = now
	entry.LastDuration = duration
	entry.LastStatus = run.result()

	if run.Err != nil {
		entry.LastError = run.Err.Error()
		entry.ConsecutiveFailures++
		entry.ConsecutiveSuccess = 0
		return
	}

	entry.LastError = ""
	entry.LastRemoved = run.Removed
	entry.TotalRemoved += run.Removed
	entry.ConsecutiveFailures = 0
	entry.ConsecutiveSuccess++
	entry.LastSuccessAt = now
}

func (s *statStore) recordProbe(component string, result ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.probes[component] = ProbeSummary{
		Component: component,
		Status:    result.Status,
		Details:   result.Details,
		CheckedAt: time.Now(),
	}
}

func (s *statStore) summary() Summary {
	now := time.Now()

	s.mu.Lock()
	jobs := make([]MaintenanceJobSummary, 0, len(s.maintenance))
	for _, entry := range s.maintenance {
		jobs = append(jobs, *entry)
	}
	probes := make([]ProbeSummary, 0, len(s.probes))
	for _, probe := range s.probes {
		probes = append(probes, probe)
	}
	s.mu.Unlock()

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Job < jobs[j].Job })
	sort.Slice(probes, func(i, j int) bool { return probes[i].Component < probes[j].Component })

	return Summary{
		GeneratedAt:   now,
		StartedAt:     s.startedAt,
		UptimeSeconds: now.Sub(s.startedAt).Seconds(),
		Maintenance:   MaintenanceSummary{Jobs: jobs},
		Probes:        probes,
	}
}
