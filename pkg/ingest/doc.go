/*
Package ingest provides a batching event pipeline whose buffering is
paced by admission control instead of an unbounded queue.

Events are appended to an open batch. Opening a batch takes a permit
from an internal gate, so at most MaxPendingBatches batches exist at
once across open, sealed, and committing states. When every permit is
held, Ingest callers wait in the gate's bounded waiting room; once that
is full too, Ingest fails fast with ErrGateFull. The permit travels
with the batch and is returned when the sink commit finishes, which is
the moment room for a new batch opens up.

Batches seal when they reach MaxBatchEvents, when Flush is called, on
the optional cron flush schedule, or at Close. Sealed batches are
committed by a pool of background workers, each commit bounded by
CommitTimeout. Commit failures and sink panics are counted, reported
through OnError, and never retried.

Key Features:
  - Bounded buffering: batch count capped by an admission gate
  - Backpressure to producers: ErrGateFull instead of unbounded growth
  - Background commit workers with panic recovery
  - Scheduled flushes using cron expressions or @every descriptors
  - Durable progress checkpoints, in memory or in Redis
  - Callbacks and statistics for observability

Basic Usage:

	sink := ingest.SinkFunc(func(ctx context.Context, batch *ingest.Batch) error {
		return store.Write(ctx, batch.Events)
	})

	pipeline, err := ingest.NewSafe(sink)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	err = pipeline.Ingest(ctx, events...)
	if errors.IsBackpressure(err) {
		// Tell the producer to slow down or retry later.
	}

Checkpointing:

	store, err := ingest.NewRedisCheckpointStore(client)
	if err != nil {
		return err
	}

	config := ingest.DefaultConfig()
	config.Name = "orders"
	config.Checkpoints = store

	pipeline, err := ingest.NewWithConfigSafe(sink, config)

The committed position is saved after each successful commit and
restored on construction, so a restarted pipeline knows how far its
predecessor got. Positions only move forward; out-of-order worker
finishes never move a checkpoint backwards.

Request Handling:

	handler := ingest.NewHandler(pipeline, logger)

	resp, err := handler.Handle(ctx, payload)

Handler parses JSON request envelopes, assigns missing request and
event identifiers, and logs each request's outcome. Backpressure errors
pass through unwrapped for the transport layer to translate.

Error Handling:
  - ErrGateFull: too many waiters, surface backpressure to the producer
  - ErrClosed: the pipeline was closed
  - Context errors: the caller's ctx ended while waiting for batch room
  - ValidationError: invalid configuration or request payload

Thread Safety:

All pipeline operations are safe for concurrent use. Events from
concurrent Ingest calls may interleave within a batch, but each call's
own events stay in order.
*/
package ingest
