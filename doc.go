/*
Package goadmit provides a Go library for admission control with load
shedding, permit-based concurrency ceilings, and gate-paced ingestion.

Admission Control (pkg/admission):
  - permit: Counted permits capping concurrent work
  - gate: Permits with a bounded waiting room
  - loadshed: Fail-fast limiter wrapping a backend service

Ingestion (pkg/ingest):
  - Batching pipeline paced by a gate
  - Durable progress checkpoints (memory, Redis)
  - Envelope parsing and request handling

Middleware (pkg/middleware):
  - httplimit: Concurrency ceilings for HTTP handlers
  - grpclimit: Interceptors rejecting with ResourceExhausted

Example usage:

	import (
		"github.com/vnykmshr/goadmit/pkg/admission/gate"
		"github.com/vnykmshr/goadmit/pkg/ingest"
	)

	g, _ := gate.NewSafe(8, 32) // 8 permits, 32 waiters
	pipeline, _ := ingest.NewSafe(sink)

	p, err := g.Acquire(ctx)
	if err != nil {
		return err // shed instead of queueing unboundedly
	}
	defer p.Release()
*/
package goadmit
