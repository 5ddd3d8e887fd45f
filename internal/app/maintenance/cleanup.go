package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/corpman/internal/monitoring"
	"github.com/charlesng35/corpman/pkg/logger"
)

const (
	defaultSchedule         = "@every 15m"
	defaultHistoryRetention = 90 * 24 * time.Hour

	JobCachePurge        = "cache_purge"
	JobLoginHistoryPurge = "login_history_purge"
)

// CachePurger removes lapsed entries from a database-backed cache.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// LoginHistoryPurger deletes login records older than a cutoff.
type LoginHistoryPurger interface {
	PurgeLoginHistory(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner runs the periodic cleanup jobs: expired rows of the database-backed cache and
// login history past its retention. Accounts and verification codes are never deleted.
type Cleaner struct {
	cache     CachePurger
	history   LoginHistoryPurger
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	schedule  string
	retention time.Duration
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithSchedule overrides the cron expression shared by all jobs.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// WithLoginHistoryRetention adjusts how long login records are kept.
func WithLoginHistoryRetention(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.retention = d
		}
	}
}

// NewCleaner constructs a Cleaner. A nil purger skips the corresponding job.
func NewCleaner(cache CachePurger, history LoginHistoryPurger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		cache:     cache,
		history:   history,
		now:       time.Now,
		schedule:  defaultSchedule,
		retention: defaultHistoryRetention,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

type job struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

func (c *Cleaner) jobs() []job {
	var jobs []job
	if c.cache != nil {
		jobs = append(jobs, job{name: JobCachePurge, run: c.cache.PurgeExpired})
	}
	if c.history != nil {
		jobs = append(jobs, job{name: JobLoginHistoryPurge, run: func(ctx context.Context) (int64, error) {
			return c.history.PurgeLoginHistory(ctx, c.now().Add(-c.retention))
		}})
	}
	return jobs
}

// Jobs lists the names of the jobs this cleaner runs.
func (c *Cleaner) Jobs() []string {
	jobs := c.jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.name)
	}
	return names
}

// Start registers cleanup jobs with the cron scheduler and launches it if at least one job is enabled.
func (c *Cleaner) Start() error {
	jobs := c.jobs()
	if len(jobs) == 0 {
		return nil
	}

	for _, j := range jobs {
		j := j
		if _, err := c.cron.AddFunc(c.schedule, func() {
			if err := c.execute(context.Background(), j); err != nil {
				c.log.Warn("maintenance job failed", zap.String("job", j.name), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", j.name, err)
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	for _, j := range c.jobs() {
		errs = multierr.Append(errs, c.execute(ctx, j))
	}
	return errs
}

func (c *Cleaner) execute(ctx context.Context, j job) error {
	started := time.Now()
	removed, err := j.run(ctx)
	elapsed := time.Since(started)

	monitoring.RecordMaintenanceRun(monitoring.MaintenanceRun{
		Job:      j.name,
		Removed:  removed,
		Duration: elapsed,
		Err:      err,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}

	if removed > 0 {
		c.log.Debug("maintenance job completed", zap.String("job", j.name), zap.Int64("removed", removed))
	}
	return nil
}
