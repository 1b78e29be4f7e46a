// Package queue provides an in-memory job queue system with worker pool
// for concurrent processing of driver planning tasks.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// JobStatus represents the state of a planning job
type JobStatus string

// Job status constants define the lifecycle states
const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

var (
	// ErrJobNotFound is returned when a job ID is unknown
	ErrJobNotFound = errors.New("job not found")
	// ErrQueueFull is returned when the pending buffer has no room
	ErrQueueFull = errors.New("queue is full")
)

// Job represents a request to plan one driver's days
type Job struct {
	ID           string
	DriverID     int64
	StartDate    string
	EndDate      string
	Status       JobStatus
	QueuedAt     time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage string
	Result       *JobResult

	seq uint64
}

// JobResult contains the output of a completed planning job
type JobResult struct {
	CSVPath          string
	XLSXPath         string
	DaysOptimized    int
	DaysSkipped      int
	TotalStops       int
	TotalBeforeKM    float64
	TotalAfterKM     float64
	TotalSavingsKM   float64
	SavingsPercent   float64
	ProcessingTimeMS int64
}

// ProcessFunc is a function that processes a job
type ProcessFunc func(ctx context.Context, job *Job) (*JobResult, error)

// Queue manages planning jobs with a worker pool
type Queue struct {
	mu           sync.RWMutex
	jobs         map[string]*Job
	seq          uint64
	pendingQueue chan *Job
	workers      int
	processor    ProcessFunc
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewQueue creates a new job queue with the specified number of workers
func NewQueue(workers int, processor ProcessFunc) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		jobs:         make(map[string]*Job),
		pendingQueue: make(chan *Job, 100),
		workers:      workers,
		processor:    processor,
		ctx:          ctx,
		cancel:       cancel,
	}

	// Start worker pool
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	return q
}

// Enqueue adds a new planning job to the queue
func (q *Queue) Enqueue(driverID int64, startDate, endDate string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	job := &Job{
		ID:        uuid.New().String(),
		DriverID:  driverID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusQueued,
		QueuedAt:  time.Now().UTC(),
		seq:       q.seq,
	}

	// Add to pending queue (non-blocking)
	select {
	case q.pendingQueue <- job:
		q.jobs[job.ID] = job
		return job.ID, nil
	default:
		return "", ErrQueueFull
	}
}

// GetJob retrieves a copy of a job by ID
func (q *Queue) GetJob(jobID string) (*Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, exists := q.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	return copyJob(job), nil
}

// ListJobs returns jobs filtered by status, newest first
func (q *Queue) ListJobs(status JobStatus, limit, offset int) []*Job {
	q.mu.RLock()
	var filtered []*Job
	for _, job := range q.jobs {
		if status == "" || job.Status == status {
			filtered = append(filtered, copyJob(job))
		}
	}
	q.mu.RUnlock()

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].seq > filtered[j].seq
	})

	// Apply pagination
	start := offset
	if start > len(filtered) {
		return []*Job{}
	}

	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end]
}

// Stats counts stored jobs per lifecycle state
type Stats struct {
	Total      int
	Queued     int
	Processing int
	Completed  int
	Failed     int
}

// Count returns the number of jobs in status; an empty status means all jobs
func (s Stats) Count(status JobStatus) int {
	switch status {
	case "":
		return s.Total
	case StatusQueued:
		return s.Queued
	case StatusProcessing:
		return s.Processing
	case StatusCompleted:
		return s.Completed
	case StatusFailed:
		return s.Failed
	}
	return 0
}

// GetStats returns a snapshot of job counts
func (q *Queue) GetStats() Stats {
	q.mu.RLock()
	defer q.mu.RUnlock()

	stats := Stats{Total: len(q.jobs)}
	for _, job := range q.jobs {
		switch job.Status {
		case StatusQueued:
			stats.Queued++
		case StatusProcessing:
			stats.Processing++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		}
	}

	return stats
}

// copyJob returns a copy that does not share pointers with the stored job
func copyJob(job *Job) *Job {
	jobCopy := *job
	if job.StartedAt != nil {
		startedCopy := *job.StartedAt
		jobCopy.StartedAt = &startedCopy
	}
	if job.CompletedAt != nil {
		completedCopy := *job.CompletedAt
		jobCopy.CompletedAt = &completedCopy
	}
	if job.Result != nil {
		resultCopy := *job.Result
		jobCopy.Result = &resultCopy
	}
	return &jobCopy
}

// worker processes jobs from the queue
func (q *Queue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.pendingQueue:
			q.processJob(id, job)
		}
	}
}

// processJob executes a single job
func (q *Queue) processJob(workerID int, job *Job) {
	startTime := time.Now()

	// Update status to processing and hand the processor a snapshot
	q.mu.Lock()
	job.Status = StatusProcessing
	now := time.Now().UTC()
	job.StartedAt = &now
	snapshot := copyJob(job)
	q.mu.Unlock()

	log.Debug().
		Int("worker", workerID).
		Str("job_id", job.ID).
		Int64("driver_id", job.DriverID).
		Msg("Processing job")

	result, err := q.processor(q.ctx, snapshot)

	q.mu.Lock()
	defer q.mu.Unlock()

	completedAt := time.Now().UTC()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = StatusFailed
		job.ErrorMessage = err.Error()
		log.Error().Err(err).Str("job_id", job.ID).Msg("Job failed")
		return
	}

	job.Status = StatusCompleted
	job.Result = result
	if result != nil {
		result.ProcessingTimeMS = time.Since(startTime).Milliseconds()
	}
}

// Shutdown cancels the workers' context and waits up to timeout for
// in-flight jobs to return
func (q *Queue) Shutdown(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.wg.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout exceeded after %s", timeout)
	}
}
