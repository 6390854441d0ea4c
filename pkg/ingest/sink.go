package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
)

// Batch is one buffered group of events on its way to the sink. The
// admission permit acquired when the batch was opened travels with it
// and is returned once the commit outcome is known, which is what keeps
// the number of live batches bounded.
type Batch struct {
	// ID uniquely identifies the batch.
	ID string

	// Events holds the batched events in arrival order.
	Events []Event

	// CreatedAt is when the batch was opened.
	CreatedAt time.Time

	permit *permit.Permit
}

func newBatch(p *permit.Permit) *Batch {
	return &Batch{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		permit:    p,
	}
}

// release returns the batch's admission permit. Subsequent calls are
// no-ops.
func (b *Batch) release() {
	if b.permit != nil {
		b.permit.Release()
		b.permit = nil
	}
}

// Len returns the number of events in the batch.
func (b *Batch) Len() int {
	return len(b.Events)
}

// Sink receives sealed batches from the pipeline's commit workers.
type Sink interface {
	// Commit durably stores one batch. A non-nil error counts as a
	// commit failure; the pipeline reports it and moves on without
	// retrying.
	Commit(ctx context.Context, batch *Batch) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, batch *Batch) error

// Commit calls the function.
func (f SinkFunc) Commit(ctx context.Context, batch *Batch) error {
	return f(ctx, batch)
}
