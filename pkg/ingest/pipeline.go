package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vnykmshr/goadmit/pkg/admission/gate"
	gaerrors "github.com/vnykmshr/goadmit/pkg/common/errors"
	"github.com/vnykmshr/goadmit/pkg/common/validation"
)

const checkpointTimeout = 5 * time.Second

// Pipeline buffers events into batches, paces batch creation through an
// admission gate, and commits sealed batches to a sink from background
// workers.
type Pipeline interface {
	// Ingest appends events to the pipeline. It blocks while the gate
	// holds the caller in the waiting room for batch room and returns
	// ErrGateFull when the waiting room is full, ErrClosed after Close,
	// or the context error when ctx ends first. Rejected events are
	// never partially retried by the pipeline.
	Ingest(ctx context.Context, events ...Event) error

	// Flush seals the open batch and blocks until every pending batch
	// has been committed or ctx ends.
	Flush(ctx context.Context) error

	// Close seals the open batch, drains the commit workers, and stops
	// the pipeline. Further Ingest calls fail with ErrClosed.
	Close() error

	// Stats returns a snapshot of pipeline counters.
	Stats() Stats

	// IsClosed reports whether the pipeline has been closed.
	IsClosed() bool

	// Pending returns the number of batches open, sealed, or committing.
	Pending() int
}

// Stats holds a snapshot of pipeline counters.
type Stats struct {
	// EventsIngested is the total number of events accepted.
	EventsIngested int64

	// EventsRejected is the total number of events turned away by
	// backpressure, cancellation, or close.
	EventsRejected int64

	// BatchesCommitted is the total number of batches written to the
	// sink.
	BatchesCommitted int64

	// CommitFailures is the total number of failed sink commits,
	// including recovered panics.
	CommitFailures int64

	// CheckpointFailures is the total number of failed checkpoint
	// saves.
	CheckpointFailures int64

	// PendingBatches is the number of batches open, sealed, or
	// committing.
	PendingBatches int64

	// Position is the cumulative count of committed events, restored
	// from the checkpoint store on construction when one is configured.
	Position uint64
}

// Config holds pipeline configuration.
type Config struct {
	// Name identifies the pipeline in logs, metrics, and checkpoints.
	Name string

	// MaxPendingBatches bounds how many batches may be alive at once,
	// open, sealed, or committing. Opening a batch takes a permit that
	// is returned when its commit finishes.
	MaxPendingBatches int

	// MaxIngestWaiters bounds how many Ingest callers may wait for
	// batch room. Zero rejects immediately with ErrGateFull instead of
	// waiting. The bound is a soft cap.
	MaxIngestWaiters int

	// MaxBatchEvents is the number of events that seals a batch.
	MaxBatchEvents int

	// CommitWorkers is the number of goroutines committing sealed
	// batches.
	CommitWorkers int

	// CommitTimeout bounds each sink commit.
	CommitTimeout time.Duration

	// FlushSchedule optionally seals the open batch on a cron schedule,
	// e.g. "@every 1s" or "*/5 * * * * *". Empty disables scheduled
	// flushes.
	FlushSchedule string

	// Checkpoints optionally persists the committed position. Nil
	// disables checkpointing.
	Checkpoints CheckpointStore

	// Logger receives pipeline logs. Nil defaults to a no-op logger.
	Logger *zap.Logger

	// OnError is called for commit and checkpoint failures.
	OnError func(err error)

	// OnCommit is called after each successful commit.
	OnCommit func(batch *Batch, duration time.Duration)
}

// DefaultConfig returns a configuration suitable for most pipelines.
func DefaultConfig() Config {
	return Config{
		Name:              "default",
		MaxPendingBatches: 8,
		MaxIngestWaiters:  32,
		MaxBatchEvents:    512,
		CommitWorkers:     2,
		CommitTimeout:     30 * time.Second,
	}
}

type pipeline struct {
	config Config
	sink   Sink
	gate   gate.Gate
	logger *zap.Logger

	// mu guards the open batch and the draining flag. Every send on
	// commitCh happens with mu held, so closing the channel under mu
	// after setting draining rules out sends on a closed channel.
	mu       sync.Mutex
	current  *Batch
	draining bool

	commitCh chan *Batch
	wg       sync.WaitGroup
	cancel   context.CancelFunc

	closed atomic.Bool

	pending            atomic.Int64
	eventsIngested     atomic.Int64
	eventsRejected     atomic.Int64
	batchesCommitted   atomic.Int64
	commitFailures     atomic.Int64
	checkpointFailures atomic.Int64
	position           atomic.Uint64
	checkpointed       atomic.Uint64
}

// NewSafe creates a pipeline with default configuration.
// Returns an error if sink is nil.
func NewSafe(sink Sink) (Pipeline, error) {
	return NewWithConfigSafe(sink, DefaultConfig())
}

// NewWithConfigSafe creates a pipeline with custom configuration.
// Zero values fall back to DefaultConfig, except MaxIngestWaiters where
// zero means Ingest callers never wait for batch room.
// Returns an error if sink is nil or the configuration is invalid.
func NewWithConfigSafe(sink Sink, config Config) (Pipeline, error) {
	if err := validation.ValidateNotNil("ingest", "sink", sink); err != nil {
		return nil, err
	}

	config = applyConfigDefaults(config)
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var schedule cron.Schedule
	if config.FlushSchedule != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		var err error
		schedule, err = parser.Parse(config.FlushSchedule)
		if err != nil {
			return nil, gaerrors.NewValidationError("ingest", "flush_schedule", config.FlushSchedule, "invalid cron expression").
				WithHint("use a six-field cron expression or a descriptor like @every 1s")
		}
	}

	g, err := gate.NewSafe(config.MaxPendingBatches, config.MaxIngestWaiters)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		config: config,
		sink:   sink,
		gate:   g,
		logger: config.Logger,
		// The gate bounds live batches at MaxPendingBatches, so a
		// channel of that capacity can never block a send.
		commitCh: make(chan *Batch, config.MaxPendingBatches),
	}

	p.restorePosition()

	for i := 0; i < config.CommitWorkers; i++ {
		p.wg.Add(1)
		go p.commitLoop()
	}

	if schedule != nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.wg.Add(1)
		go p.flushLoop(ctx, schedule)
	}

	p.logger.Debug("pipeline started",
		zap.String("pipeline", config.Name),
		zap.Int("max_pending_batches", config.MaxPendingBatches),
		zap.Int("commit_workers", config.CommitWorkers),
		zap.Uint64("position", p.position.Load()))

	return p, nil
}

// applyConfigDefaults fills zero fields from DefaultConfig.
// MaxIngestWaiters is left alone because zero is meaningful there.
func applyConfigDefaults(config Config) Config {
	defaults := DefaultConfig()
	if config.Name == "" {
		config.Name = defaults.Name
	}
	if config.MaxPendingBatches == 0 {
		config.MaxPendingBatches = defaults.MaxPendingBatches
	}
	if config.MaxBatchEvents == 0 {
		config.MaxBatchEvents = defaults.MaxBatchEvents
	}
	if config.CommitWorkers == 0 {
		config.CommitWorkers = defaults.CommitWorkers
	}
	if config.CommitTimeout == 0 {
		config.CommitTimeout = defaults.CommitTimeout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return config
}

func validateConfig(config Config) error {
	if err := validation.ValidatePositive("ingest", "max_pending_batches", config.MaxPendingBatches); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("ingest", "max_ingest_waiters", config.MaxIngestWaiters); err != nil {
		return err
	}
	if err := validation.ValidatePositive("ingest", "max_batch_events", config.MaxBatchEvents); err != nil {
		return err
	}
	if err := validation.ValidatePositive("ingest", "commit_workers", config.CommitWorkers); err != nil {
		return err
	}
	return validation.ValidatePositiveDuration("ingest", "commit_timeout", config.CommitTimeout)
}

// restorePosition loads the last checkpoint. A missing checkpoint starts
// the pipeline at zero; a failing store is reported and does the same.
func (p *pipeline) restorePosition() {
	if p.config.Checkpoints == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()

	cp, err := p.config.Checkpoints.Load(ctx, p.config.Name)
	if errors.Is(err, ErrNoCheckpoint) {
		return
	}
	if err != nil {
		p.reportError(gaerrors.NewOperationError("ingest", "Load", err).WithContext("checkpoint store"))
		p.logger.Warn("checkpoint restore failed, starting from zero",
			zap.String("pipeline", p.config.Name),
			zap.Error(err))
		return
	}

	p.position.Store(cp.Position)
	p.checkpointed.Store(cp.Position)
}

func (p *pipeline) Ingest(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	if p.IsClosed() {
		p.eventsRejected.Add(int64(len(events)))
		return gaerrors.ErrClosed
	}

	now := time.Now()
	for i := range events {
		if events[i].ReceivedAt.IsZero() {
			events[i].ReceivedAt = now
		}
	}

	remaining := events
	for len(remaining) > 0 {
		n, err := p.append(ctx, remaining)
		p.eventsIngested.Add(int64(n))
		remaining = remaining[n:]
		if err != nil {
			p.eventsRejected.Add(int64(len(remaining)))
			return err
		}
	}
	return nil
}

// append adds events to the open batch, opening one if needed, and
// seals the batch when it reaches MaxBatchEvents. Returns how many
// events were taken.
func (p *pipeline) append(ctx context.Context, events []Event) (int, error) {
	p.mu.Lock()

	if p.current == nil {
		// Opening a batch is the paced step: the gate bounds how many
		// batches may be alive and how many callers may wait for room.
		p.mu.Unlock()
		pm, err := p.gate.Acquire(ctx)
		if err != nil {
			return 0, err
		}

		p.mu.Lock()
		if p.IsClosed() {
			p.mu.Unlock()
			pm.Release()
			return 0, gaerrors.ErrClosed
		}
		if p.current == nil {
			p.current = newBatch(pm)
			p.pending.Add(1)
		} else {
			// Another caller opened a batch while we waited.
			pm.Release()
		}
	}

	batch := p.current
	n := p.config.MaxBatchEvents - len(batch.Events)
	if n > len(events) {
		n = len(events)
	}
	batch.Events = append(batch.Events, events[:n]...)

	if len(batch.Events) >= p.config.MaxBatchEvents {
		p.sealLocked()
	}
	p.mu.Unlock()
	return n, nil
}

// sealLocked hands the open batch to the commit workers. Callers hold mu.
func (p *pipeline) sealLocked() {
	if p.current == nil || p.draining {
		return
	}
	batch := p.current
	p.current = nil
	p.commitCh <- batch
}

// commitLoop drains sealed batches until the channel closes.
func (p *pipeline) commitLoop() {
	defer p.wg.Done()
	for batch := range p.commitCh {
		p.commit(batch)
	}
}

// commit writes one batch to the sink and returns its admission permit.
func (p *pipeline) commit(batch *Batch) {
	defer func() {
		batch.release()
		p.pending.Add(-1)
		if r := recover(); r != nil {
			p.commitFailures.Add(1)
			p.reportError(gaerrors.NewOperationError("ingest", "Commit", fmt.Errorf("panic: %v", r)).
				WithContext("batch " + batch.ID))
			p.logger.Error("sink panicked",
				zap.String("pipeline", p.config.Name),
				zap.String("batch_id", batch.ID),
				zap.Any("panic", r))
		}
	}()

	ctx := context.Background()
	if p.config.CommitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.CommitTimeout)
		defer cancel()
	}

	start := time.Now()
	err := p.sink.Commit(ctx, batch)
	duration := time.Since(start)

	if err != nil {
		p.commitFailures.Add(1)
		p.reportError(gaerrors.NewOperationError("ingest", "Commit", err).
			WithContext("batch " + batch.ID))
		p.logger.Warn("batch commit failed",
			zap.String("pipeline", p.config.Name),
			zap.String("batch_id", batch.ID),
			zap.Int("events", batch.Len()),
			zap.Error(err))
		return
	}

	p.batchesCommitted.Add(1)
	pos := p.position.Add(uint64(batch.Len()))

	p.logger.Debug("batch committed",
		zap.String("pipeline", p.config.Name),
		zap.String("batch_id", batch.ID),
		zap.Int("events", batch.Len()),
		zap.Duration("elapsed", duration))

	if p.config.OnCommit != nil {
		p.config.OnCommit(batch, duration)
	}

	p.saveCheckpoint(pos)
}

// saveCheckpoint persists pos. Workers finish commits out of order, so
// saves that would move the checkpoint backwards are skipped.
func (p *pipeline) saveCheckpoint(pos uint64) {
	if p.config.Checkpoints == nil {
		return
	}

	for {
		last := p.checkpointed.Load()
		if pos <= last {
			return
		}
		if p.checkpointed.CompareAndSwap(last, pos) {
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()

	cp := Checkpoint{
		Pipeline:    p.config.Name,
		Position:    pos,
		CommittedAt: time.Now(),
	}
	if err := p.config.Checkpoints.Save(ctx, cp); err != nil {
		p.checkpointFailures.Add(1)
		p.reportError(gaerrors.NewOperationError("ingest", "Save", err).WithContext("checkpoint store"))
		p.logger.Warn("checkpoint save failed",
			zap.String("pipeline", p.config.Name),
			zap.Uint64("position", pos),
			zap.Error(err))
	}
}

// flushLoop seals the open batch on the configured schedule.
func (p *pipeline) flushLoop(ctx context.Context, schedule cron.Schedule) {
	defer p.wg.Done()
	for {
		timer := time.NewTimer(time.Until(schedule.Next(time.Now())))
		select {
		case <-timer.C:
			p.mu.Lock()
			p.sealLocked()
			p.mu.Unlock()
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (p *pipeline) Flush(ctx context.Context) error {
	if p.IsClosed() {
		return gaerrors.ErrClosed
	}

	p.mu.Lock()
	p.sealLocked()
	p.mu.Unlock()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for p.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (p *pipeline) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	if p.cancel != nil {
		p.cancel()
	}

	p.mu.Lock()
	if p.current != nil {
		batch := p.current
		p.current = nil
		p.commitCh <- batch
	}
	p.draining = true
	close(p.commitCh)
	p.mu.Unlock()

	p.wg.Wait()

	p.logger.Info("pipeline closed",
		zap.String("pipeline", p.config.Name),
		zap.Int64("events_ingested", p.eventsIngested.Load()),
		zap.Int64("batches_committed", p.batchesCommitted.Load()),
		zap.Uint64("position", p.position.Load()))
	return nil
}

func (p *pipeline) Stats() Stats {
	return Stats{
		EventsIngested:     p.eventsIngested.Load(),
		EventsRejected:     p.eventsRejected.Load(),
		BatchesCommitted:   p.batchesCommitted.Load(),
		CommitFailures:     p.commitFailures.Load(),
		CheckpointFailures: p.checkpointFailures.Load(),
		PendingBatches:     p.pending.Load(),
		Position:           p.position.Load(),
	}
}

func (p *pipeline) IsClosed() bool {
	return p.closed.Load()
}

func (p *pipeline) Pending() int {
	return int(p.pending.Load())
}

func (p *pipeline) reportError(err error) {
	if p.config.OnError != nil {
		p.config.OnError(err)
	}
}
