package godb

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StatsRefresher periodically recomputes every table's TableStats in
// the background, so a long-running process's selectivity estimates
// don't go stale as tables grow. It's optional: a process that never
// starts one just keeps whatever stats ComputeAllTableStats produced at
// startup.
type StatsRefresher struct {
	catalog *Catalog
	cron    *cron.Cron
}

// NewStatsRefresher builds a refresher over catalog that has not yet
// been started.
func NewStatsRefresher(catalog *Catalog) *StatsRefresher {
	return &StatsRefresher{
		catalog: catalog,
		cron:    cron.New(),
	}
}

// Start schedules a recompute of every table's stats on schedule (a
// standard five-field cron expression, e.g. "0 */6 * * *" for every six
// hours) and begins running it in the background.
func (r *StatsRefresher) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		if err := r.catalog.ComputeAllTableStats(); err != nil {
			log.Printf("stats refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop cancels the schedule, waiting for any in-flight refresh to
// finish.
func (r *StatsRefresher) Stop() {
	<-r.cron.Stop().Done()
}
