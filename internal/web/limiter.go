package web

// limiter.go bounds how many merge jobs run at once.
//
// Each job holds one slot of a buffered channel. A request that cannot get a
// slot within the wait window fails with ErrTooManyJobs rather than queueing
// indefinitely. Shutdown calls WaitForDrain so in-flight merges finish their
// atomic write before the process exits.

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyJobs is returned when every job slot stays busy for the whole
// wait window.
var ErrTooManyJobs = errors.New("too many concurrent jobs, please try again later")

const (
	defaultMaxJobs = 2
	defaultJobWait = 10 * time.Second
)

// JobLimiter is a counting semaphore over merge jobs.
type JobLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewJobLimiter allows at most maxJobs concurrent jobs; callers wait up to
// maxWait for a slot. Non-positive values select the defaults.
func NewJobLimiter(maxJobs int, maxWait time.Duration) *JobLimiter {
	if maxJobs <= 0 {
		maxJobs = defaultMaxJobs
	}
	if maxWait <= 0 {
		maxWait = defaultJobWait
	}
	return &JobLimiter{
		slots:   make(chan struct{}, maxJobs),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it when the job ends.
func (l *JobLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrTooManyJobs
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *JobLimiter) Release() {
	<-l.slots
}

// Active returns the number of running jobs.
func (l *JobLimiter) Active() int {
	return len(l.slots)
}

// WaitForDrain blocks until no job is running or ctx is done.
func (l *JobLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// JobLimiterStatus is a snapshot for the health endpoint.
type JobLimiterStatus struct {
	Active    int `json:"active"`
	Available int `json:"available"`
	Max       int `json:"max"`
}

// Status returns the current limiter state.
func (l *JobLimiter) Status() JobLimiterStatus {
	active := len(l.slots)
	return JobLimiterStatus{
		Active:    active,
		Available: cap(l.slots) - active,
		Max:       cap(l.slots),
	}
}
