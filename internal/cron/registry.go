package cron

import (
	"context"
	"time"
)

// Job is one unit of housekeeping work. Name doubles as its lock name and metrics label.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	job   Job
	every time.Duration
	next  time.Time
}

// Registry tracks when each job is next due. It is only touched from the service loop.
type Registry struct {
	entries []*entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Every schedules job to run each interval, first one interval from start. Nil jobs and
// non-positive intervals are ignored.
func (r *Registry) Every(every time.Duration, job Job) *Registry {
	if job != nil && every > 0 {
		r.entries = append(r.entries, &entry{job: job, every: every})
	}
	return r
}

func (r *Registry) start(now time.Time) {
	for _, e := range r.entries {
		e.next = now.Add(e.every)
	}
}

// due returns the jobs whose time has come, in registration order, and moves each one's next run
// a whole interval past now so a slow cycle does not queue up catch-up runs.
func (r *Registry) due(now time.Time) []Job {
	var jobs []Job
	for _, e := range r.entries {
		if now.Before(e.next) {
			continue
		}
		jobs = append(jobs, e.job)
		e.next = now.Add(e.every)
	}
	return jobs
}

// tick is the loop resolution: the shortest job interval.
func (r *Registry) tick() time.Duration {
	var shortest time.Duration
	for _, e := range r.entries {
		if shortest == 0 || e.every < shortest {
			shortest = e.every
		}
	}
	return shortest
}

func (r *Registry) Len() int { return len(r.entries) }
