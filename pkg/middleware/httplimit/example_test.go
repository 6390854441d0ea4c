package httplimit_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/middleware/httplimit"
)

// Example demonstrates capping concurrent requests on a handler.
func Example() {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "hello")
	})

	limited, err := httplimit.Limit(100, handler)
	if err != nil {
		panic(fmt.Sprintf("Failed to create middleware: %v", err))
	}

	server := httptest.NewServer(limited)
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		panic(fmt.Sprintf("Request failed: %v", err))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%d %s", resp.StatusCode, body)

	// Output:
	// 200 hello
}

// Example_sharedCeiling shows several routes drawing from one pool.
func Example_sharedCeiling() {
	pool, err := permit.NewSafe(50)
	if err != nil {
		panic(fmt.Sprintf("Failed to create pool: %v", err))
	}

	mux := http.NewServeMux()
	mux.Handle("/ingest", httplimit.LimitWithPool(pool, http.HandlerFunc(ingestRoute)))
	mux.Handle("/search", httplimit.LimitWithPool(pool, http.HandlerFunc(searchRoute)))

	fmt.Printf("available: %d\n", pool.Available())

	// Output:
	// available: 50
}

func ingestRoute(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusAccepted)
}

func searchRoute(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
