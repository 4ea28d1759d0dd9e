package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"checky/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const InventoryAlertsJob = "inventory-alerts"

// JobStatus describes one registered job.
type JobStatus struct {
	Name    string     `json:"name"`
	NextRun *time.Time `json:"next_run,omitempty"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// JobScheduler runs the periodic maintenance jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.InventoryAlertService
	queue     jobs.TaskEnqueuer
	logger    *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(alerts *jobs.InventoryAlertService, alertInterval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.AddJob(InventoryAlertsJob, alertInterval, js.scanInventory); err != nil {
		return nil, err
	}
	return js, nil
}

// UseQueue switches the alert scan to enqueueing one task per restaurant.
func (js *JobScheduler) UseQueue(queue jobs.TaskEnqueuer) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.queue = queue
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) scanInventory() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	js.mu.RLock()
	queue := js.queue
	js.mu.RUnlock()

	var err error
	if queue != nil {
		_, err = js.alerts.EnqueueAllTenants(ctx, queue)
	} else {
		_, err = js.alerts.ScanAllTenants(ctx)
	}
	if err != nil {
		js.logger.Error("scheduled inventory alert scan failed", zap.Error(err))
	}
}

// AddJob registers task to run every interval. Overlapping runs of the same
// job are rescheduled rather than stacked.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task func()) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}
	js.jobs[name] = job
	js.logger.Info("registered background job", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, exists := js.jobs[name]
	if !exists {
		return nil
	}
	delete(js.jobs, name)
	return js.scheduler.RemoveJob(job.ID())
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, exists := js.jobs[name]
	js.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s: %w", name, ErrUnknownJob)
	}
	return job.RunNow()
}

// Status lists the registered jobs sorted by name.
func (js *JobScheduler) Status() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		status := JobStatus{Name: name}
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			status.NextRun = &next
		}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			status.LastRun = &last
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
