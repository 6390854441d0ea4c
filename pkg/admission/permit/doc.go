// Package permit provides the permit pool that underpins admission control.
//
// A Pool hands out Permit handles up to a fixed capacity. Holding a permit
// means one unit of work has been admitted; releasing it makes room for the
// next. Higher-level packages build on this: gate bounds how many callers
// may block waiting for a permit, and loadshed turns permit exhaustion into
// load-shedding decisions.
//
// Basic usage:
//
//	pool, err := permit.NewSafe(10)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	p, err := pool.Acquire(ctx)
//	if err != nil {
//		return err // canceled while waiting
//	}
//	defer p.Release()
//
//	// do admitted work
//
// Each permit must be released exactly once. Releasing twice indicates a
// bookkeeping bug in the caller and panics rather than silently corrupting
// the pool's accounting.
package permit
