// Package httplimit provides net/http middleware that caps concurrent
// requests using an admission permit pool.
//
// Requests beyond the ceiling are not queued: they receive
// 503 Service Unavailable with a Retry-After hint so well-behaved
// clients back off.
package httplimit

import (
	"net/http"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Limit wraps next with an in-flight ceiling of max concurrent requests.
// Returns an error if max is not positive.
func Limit(max int, next http.Handler) (http.Handler, error) {
	pool, err := permit.NewSafe(max)
	if err != nil {
		return nil, err
	}
	return LimitWithPool(pool, next), nil
}

// LimitWithPool wraps next with an existing pool, letting several
// handlers share one ceiling.
func LimitWithPool(pool *permit.Pool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := pool.TryAcquire()
		if !ok {
			w.Header().Set("Retry-After", "1")
			http.Error(w, errors.ErrOverloaded.Error(), http.StatusServiceUnavailable)
			return
		}
		defer p.Release()

		next.ServeHTTP(w, r)
	})
}
