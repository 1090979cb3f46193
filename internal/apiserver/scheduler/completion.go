// Package scheduler runs the apiserver background jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/common/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned by Start on a running scheduler
var ErrAlreadyRunning = errors.New("completion scheduler is already running")

// Completer moves bookings whose travel has ended to completed
type Completer interface {
	CompleteEndedBookings(ctx context.Context, batch int) (*service.BulkResult, error)
}

// RetryPolicy defines how a failed run is retried
type RetryPolicy struct {
	MaxRetries    int           `json:"maxRetries"`
	BaseDelay     time.Duration `json:"baseDelay"`
	MaxDelay      time.Duration `json:"maxDelay"`
	BackoffFactor float64       `json:"backoffFactor"`
}

// RunResult is the outcome of one run
type RunResult struct {
	RunID      string        `json:"runId"`
	Status     string        `json:"status"` // success, partial, failed
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Duration   time.Duration `json:"duration"`
	Completed  int           `json:"completed"`
	FailedIDs  []uint        `json:"failedIds,omitempty"`
	Error      string        `json:"error,omitempty"`
	RetryCount int           `json:"retryCount"`
}

// Status is a snapshot of the scheduler
type Status struct {
	Running    bool       `json:"running"`
	Interval   string     `json:"interval"`
	Runs       int        `json:"runs"`
	Failures   int        `json:"failures"`
	NextRun    time.Time  `json:"nextRun"`
	LastRun    *time.Time `json:"lastRun,omitempty"`
	LastResult *RunResult `json:"lastResult,omitempty"`
}

// CompletionScheduler periodically completes confirmed bookings whose
// travel_end lies before today
type CompletionScheduler struct {
	logger    *zap.Logger
	completer Completer
	interval  time.Duration
	batch     int
	retry     RetryPolicy
	sleep     func(ctx context.Context, d time.Duration) error

	mu         sync.RWMutex
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
	runs       int
	failures   int
	nextRun    time.Time
	lastRun    *time.Time
	lastResult *RunResult
}

// NewCompletionScheduler creates a scheduler from cfg
func NewCompletionScheduler(cfg config.SchedulerConfig, completer Completer, logger *zap.Logger) *CompletionScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	retry := RetryPolicy{
		MaxRetries:    cfg.MaxRetries,
		BaseDelay:     cfg.BaseDelay,
		MaxDelay:      cfg.MaxDelay,
		BackoffFactor: 2.0,
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = 30 * time.Second
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CompletionScheduler{
		logger:    logger.Named("scheduler.completion"),
		completer: completer,
		interval:  cfg.Interval,
		batch:     cfg.BatchSize,
		retry:     retry,
		sleep:     sleepContext,
	}
}

// Start runs one pass immediately and then one per interval until ctx is
// done or Stop is called
func (cs *CompletionScheduler) Start(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.running {
		return ErrAlreadyRunning
	}
	ctx, cs.cancel = context.WithCancel(ctx)
	cs.done = make(chan struct{})
	cs.running = true
	cs.logger.Info("starting completion scheduler",
		zap.Duration("interval", cs.interval),
		zap.Int("batch_size", cs.batch))

	go cs.loop(ctx, cs.done)
	return nil
}

// Stop cancels the loop and waits for the current run to return
func (cs *CompletionScheduler) Stop() {
	cs.mu.Lock()
	if !cs.running {
		cs.mu.Unlock()
		return
	}
	cs.cancel()
	done := cs.done
	cs.mu.Unlock()

	<-done
	cs.logger.Info("completion scheduler stopped")
}

// GetStatus returns the scheduler state and the last run
func (cs *CompletionScheduler) GetStatus() Status {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return Status{
		Running:    cs.running,
		Interval:   cs.interval.String(),
		Runs:       cs.runs,
		Failures:   cs.failures,
		NextRun:    cs.nextRun,
		LastRun:    cs.lastRun,
		LastResult: cs.lastResult,
	}
}

func (cs *CompletionScheduler) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		cs.mu.Lock()
		cs.running = false
		cs.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(cs.interval)
	defer ticker.Stop()

	cs.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cs.RunOnce(ctx)
		}
	}
}

// RunOnce completes one batch, retrying with backoff when the store fails
func (cs *CompletionScheduler) RunOnce(ctx context.Context) *RunResult {
	result := &RunResult{RunID: uuid.NewString(), StartTime: time.Now()}
	logger := cs.logger.With(zap.String("run_id", result.RunID))

	for attempt := 0; ; attempt++ {
		res, err := cs.completer.CompleteEndedBookings(ctx, cs.batch)
		result.RetryCount = attempt
		if err == nil {
			result.Completed = res.ProcessedCount
			result.FailedIDs = res.FailedIDs
			result.Status = "success"
			if len(res.FailedIDs) > 0 {
				result.Status = "partial"
			}
			break
		}

		if attempt >= cs.retry.MaxRetries || ctx.Err() != nil {
			result.Status = "failed"
			result.Error = err.Error()
			break
		}
		delay := cs.backoffDelay(attempt + 1)
		logger.Warn("completion run failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := cs.sleep(ctx, delay); err != nil {
			result.Status = "failed"
			result.Error = fmt.Sprintf("retry interrupted: %v", err)
			break
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	cs.record(result)

	fields := []zap.Field{
		zap.String("status", result.Status),
		zap.Int("completed", result.Completed),
		zap.Int("failed", len(result.FailedIDs)),
		zap.Duration("duration", result.Duration),
	}
	if result.Status == "failed" {
		logger.Error("completion run failed", append(fields, zap.String("error", result.Error))...)
	} else if result.Completed > 0 || result.Status == "partial" {
		logger.Info("completion run finished", fields...)
	} else {
		logger.Debug("completion run finished", fields...)
	}
	return result
}

func (cs *CompletionScheduler) record(result *RunResult) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.runs++
	if result.Status == "failed" {
		cs.failures++
	}
	end := result.EndTime
	cs.lastRun = &end
	cs.lastResult = result
	cs.nextRun = end.Add(cs.interval)
}

func (cs *CompletionScheduler) backoffDelay(attempt int) time.Duration {
	delay := time.Duration(float64(cs.retry.BaseDelay) * math.Pow(cs.retry.BackoffFactor, float64(attempt-1)))
	if delay > cs.retry.MaxDelay {
		delay = cs.retry.MaxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
