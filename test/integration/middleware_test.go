package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vnykmshr/goadmit/internal/testutil"
	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/ingest"
	"github.com/vnykmshr/goadmit/pkg/middleware/grpclimit"
	"github.com/vnykmshr/goadmit/pkg/middleware/httplimit"
)

// TestHTTPCeilingUnderConcurrentLoad drives a limited endpoint with more
// concurrent requests than the ceiling allows and verifies it holds.
func TestHTTPCeilingUnderConcurrentLoad(t *testing.T) {
	const ceiling = 5
	const requests = 40

	var inFlight, peak int32

	handler, err := httplimit.Limit(ceiling, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.WriteHeader(http.StatusOK)
	}))
	if err != nil {
		t.Fatalf("failed to create limited handler: %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()

	var served, shed int32
	var wg sync.WaitGroup
	wg.Add(requests)
	for i := 0; i < requests; i++ {
		go func() {
			defer wg.Done()
			resp, err := http.Get(server.URL)
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			defer func() { _ = resp.Body.Close() }()
			_, _ = io.Copy(io.Discard, resp.Body)

			switch resp.StatusCode {
			case http.StatusOK:
				atomic.AddInt32(&served, 1)
			case http.StatusServiceUnavailable:
				if resp.Header.Get("Retry-After") == "" {
					t.Error("shed response missing Retry-After header")
				}
				atomic.AddInt32(&shed, 1)
			default:
				t.Errorf("unexpected status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got > ceiling {
		t.Errorf("peak concurrency = %d, want at most %d", got, ceiling)
	}
	if served+shed != requests {
		t.Errorf("served+shed = %d, want %d", served+shed, requests)
	}
	if served < ceiling {
		t.Errorf("served = %d, want at least %d", served, ceiling)
	}

	t.Logf("HTTP ceiling: %d served, %d shed, peak concurrency %d", served, shed, peak)
}

// TestSharedCeilingAcrossTransports verifies that one permit pool caps HTTP
// and gRPC admission together.
func TestSharedCeilingAcrossTransports(t *testing.T) {
	pool, err := permit.NewSafe(1)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})

	handler := httplimit.LimitWithPool(pool, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	server := httptest.NewServer(handler)
	defer server.Close()

	httpDone := make(chan error, 1)
	go func() {
		resp, err := http.Get(server.URL)
		if err != nil {
			httpDone <- err
			return
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)
		httpDone <- nil
	}()

	<-entered

	// The HTTP request holds the only permit, so gRPC unary calls shed.
	unary := grpclimit.UnaryServerInterceptorWithPool(pool)
	info := &grpc.UnaryServerInfo{FullMethod: "/events.Gateway/Push"}
	_, err = unary(context.Background(), "req", info, func(context.Context, interface{}) (interface{}, error) {
		t.Error("handler ran while the shared ceiling was exhausted")
		return nil, nil
	})
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("status = %v, want ResourceExhausted", status.Code(err))
	}

	close(release)
	if err := <-httpDone; err != nil {
		t.Fatalf("HTTP request failed: %v", err)
	}
	testutil.Eventually(t, func() bool { return pool.InFlight() == 0 }, 2*time.Second,
		"permit not returned after the HTTP request finished")

	var ran int32
	_, err = unary(context.Background(), "req", info, func(context.Context, interface{}) (interface{}, error) {
		atomic.AddInt32(&ran, 1)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unary call failed after release: %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Error("handler did not run after the permit was returned")
	}

	t.Log("Shared ceiling enforced across HTTP and gRPC transports")
}

// TestEventsEndpointEndToEnd exercises the full path from an HTTP request
// through envelope parsing into committed batches.
func TestEventsEndpointEndToEnd(t *testing.T) {
	var committed int32
	sink := ingest.SinkFunc(func(_ context.Context, batch *ingest.Batch) error {
		atomic.AddInt32(&committed, int32(batch.Len()))
		return nil
	})

	config := ingest.DefaultConfig()
	config.Name = "api"
	config.CommitWorkers = 1

	pipeline, err := ingest.NewWithConfigSafe(sink, config)
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}
	defer func() { _ = pipeline.Close() }()

	ingestHandler := ingest.NewHandler(pipeline, nil)

	endpoint, err := httplimit.Limit(10, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		resp, err := ingestHandler.Handle(r.Context(), payload)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	if err != nil {
		t.Fatalf("failed to create endpoint: %v", err)
	}

	server := httptest.NewServer(endpoint)
	defer server.Close()

	body := `{"source":"web","events":[{"data":{"page":"/"}},{"data":{"page":"/about"}}]}`
	resp, err := http.Post(server.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}

	var out ingest.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.RequestID == "" {
		t.Error("response missing request id")
	}
	if out.Ingested != 2 {
		t.Errorf("ingested = %d, want 2", out.Ingested)
	}

	bad, err := http.Post(server.URL, "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer func() { _ = bad.Body.Close() }()
	_, _ = io.Copy(io.Discard, bad.Body)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad payload status = %d, want %d", bad.StatusCode, http.StatusBadRequest)
	}

	if err := pipeline.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if got := atomic.LoadInt32(&committed); got != 2 {
		t.Errorf("committed events = %d, want 2", got)
	}

	t.Logf("Events endpoint accepted request %s with %d event(s)", out.RequestID, out.Ingested)
}
