// Package jobmgr runs named, cancellable background jobs and delayed jobs,
// with status callbacks and in-memory tracking of everything still pending.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	_, err := jm.After("delete:123", 20*time.Second, func(ctx context.Context) error {
//	    return deleteMessage(ctx)
//	})
//
//	// on shutdown
//	jm.Close()
//
// There is no retry logic and no persistence. Jobs run in their own goroutines
// and are removed on completion or cancellation.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned when scheduling on a closed Manager.
var ErrClosed = errors.New("job manager is closed")

// Job is a pending or running unit of work.
type Job struct {
	Name   string
	Due    time.Time
	Cancel context.CancelFunc
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:delete:123
//	error:delete:123:not found
//	done:delete:123
//	cancelled:delete:123
type StatusReporter func(string)

// Manager tracks jobs by name. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	seq      uint64
	closed   bool
	wg       sync.WaitGroup
	Reporter StatusReporter
}

// NewManager creates a new Manager. The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// If a job with the same name is pending, an error is returned.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	_, err := m.After(name, 0, runner)
	return err
}

// After runs runner once delay has elapsed, unless the job is stopped first.
// An empty name gets a generated one. The job name is returned.
func (m *Manager) After(name string, delay time.Duration, runner func(ctx context.Context) error) (string, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}
	m.seq++
	if name == "" {
		name = fmt.Sprintf("job-%d", m.seq)
	}
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return "", fmt.Errorf("job '%s' is already scheduled", name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, Due: time.Now().Add(delay), Cancel: cancel}
	m.jobs[name] = job
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(ctx, job, delay, runner)
	return name, nil
}

func (m *Manager) run(ctx context.Context, job *Job, delay time.Duration, runner func(ctx context.Context) error) {
	defer m.wg.Done()
	defer m.remove(job)
	defer job.Cancel()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.report("cancelled:" + job.Name)
			return
		case <-timer.C:
		}
	}

	m.report("running:" + job.Name)
	if err := runner(ctx); err != nil {
		m.report("error:" + job.Name + ":" + err.Error())
		return
	}
	m.report("done:" + job.Name)
}

// remove drops job from the table unless the name was reused in the meantime.
func (m *Manager) remove(job *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.jobs[job.Name]; ok && cur == job {
		delete(m.jobs, job.Name)
	}
}

// Stop cancels a pending or running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every job and returns how many were cancelled.
func (m *Manager) StopAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.jobs)
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
	return n
}

// Close rejects new jobs, cancels the pending ones and waits for their
// goroutines to return.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.StopAll()
	m.wg.Wait()
}

// Wait blocks until every job started so far has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// List returns the sorted names of pending and running jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	m.mu.Unlock()

	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs.
// Example:
//
//	"Pending jobs: delete:1, timer:2"
//
// If none are pending: "No jobs are pending."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are pending."
	}
	return fmt.Sprintf("Pending jobs: %s", strings.Join(active, ", "))
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
