/*
Package gate provides permit admission with a bounded waiting room.

A gate hands out permits up to a fixed capacity, like a semaphore, but
also caps how many callers may block waiting for a permit. Once both the
permits and the waiting room are exhausted, further acquires fail
immediately with errors.ErrGateFull. This keeps saturation visible as
backpressure instead of letting waiters pile up without bound.

Basic usage:

	g, err := gate.NewSafe(10, 50) // 10 permits, at most 50 waiting
	if err != nil {
		log.Fatal(err)
	}

	p, err := g.Acquire(ctx)
	if err != nil {
		if errors.IsBackpressure(err) {
			return err // tell the caller to back off
		}
		return err // canceled while waiting
	}
	defer p.Release()

	// do admitted work

Key Features:

The gate provides:
  - Non-blocking fast path when permits are free (TryAcquire)
  - Context-aware blocking acquisition with a bounded waiting room
  - Immediate ErrGateFull rejection once the waiting room is full
  - Comprehensive state inspection (Permits, Waiting, InFlight, Available)

Use Cases:

Bounded waiting is ideal for:
  - Pacing buffer or batch creation in ingest pipelines
  - Admission control in front of a slow downstream
  - Any semaphore use where unbounded waiter buildup would hide overload

Waiter Bound Semantics:

The waiter bound is a soft cap. The fast path never touches the waiter
count, and the saturation check is decoupled from the waiter-count
increment, so a burst of simultaneous arrivals can briefly exceed
MaxWaiters before settling. Size MaxWaiters as an order of magnitude,
not an exact ceiling.

A MaxWaiters of zero is valid and turns the gate into a fail-fast
admission check: acquires beyond capacity never block.

Cancellation:

A caller canceled while waiting leaves the waiting room exactly once and
gets ctx.Err() back; no permit is consumed.

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	p, err := g.Acquire(ctx)
	if err != nil {
		// context.DeadlineExceeded after a second in the waiting room,
		// or ErrGateFull if the room was already full
		return err
	}
	defer p.Release()

Error Handling:

Acquire returns:
  - errors.ErrGateFull when the waiting room is full
  - ctx.Err() when canceled before a permit frees

Releasing the same permit twice panics; see package permit.

Thread Safety:

All operations are safe for concurrent use. The permit itself is a
single-owner handle and must be released by exactly one goroutine.
*/
package gate
