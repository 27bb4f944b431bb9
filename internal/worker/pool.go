// Package worker provides background fan-out of per-user analysis runs.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

// DayRecorder is the service-side operation a job executes.
type DayRecorder interface {
	RecordDay(ctx context.Context, userID string, day time.Time) ([]domain.AlbumListen, error)
}

// Job represents one user's analysis of one calendar day.
type Job struct {
	UserID string
	Day    time.Time
}

// Pool manages background workers for analysis jobs. Each user's run is
// independent; a failure for one user never aborts the others.
type Pool struct {
	svc  DayRecorder
	jobs chan Job
	wg   sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewPool creates a worker pool with the given queue size.
func NewPool(svc DayRecorder, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{svc: svc, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue. Safe to call
// more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

// Submit queues a job without blocking. Jobs submitted after Stop are
// dropped; producers may still be winding down when shutdown begins.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		log.Printf("WARN worker: pool stopped, dropping analysis job for user %s", job.UserID)
		return
	}
	select {
	case p.jobs <- job:
	default:
		log.Printf("WARN worker: dropping analysis job for user %s", job.UserID)
	}
}

func (p *Pool) processJob(job Job) {
	listens, err := p.svc.RecordDay(context.Background(), job.UserID, job.Day)
	if err != nil {
		log.Printf("WARN worker: analysis failed for user %s: %v", job.UserID, err)
		return
	}
	log.Printf("worker: user %s, %s: %d album(s) recorded", job.UserID, job.Day.Format("2006-01-02"), len(listens))
}
