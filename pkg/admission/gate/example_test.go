package gate_test

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/goadmit/pkg/admission/gate"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Example demonstrates basic usage of the gate
func Example() {
	// Two permits, up to five callers may wait
	g, err := gate.NewSafe(2, 5)
	if err != nil {
		panic(fmt.Sprintf("Failed to create gate: %v", err))
	}

	p, err := g.Acquire(context.Background())
	if err != nil {
		fmt.Println("Admission denied:", err)
		return
	}
	fmt.Println("Admitted")
	// Do work...
	p.Release()

	// Output: Admitted
}

// Example_failFast demonstrates a gate with no waiting room
func Example_failFast() {
	// One permit, nobody waits
	g, err := gate.NewSafe(1, 0)
	if err != nil {
		panic(fmt.Sprintf("Failed to create gate: %v", err))
	}

	first, _ := g.TryAcquire()

	_, err = g.Acquire(context.Background())
	if errors.IsBackpressure(err) {
		fmt.Println("Busy, come back later")
	}

	first.Release()

	// Output: Busy, come back later
}

// Example_boundedWaiting demonstrates the waiting room bound
func Example_boundedWaiting() {
	g, err := gate.NewSafe(1, 1)
	if err != nil {
		panic(fmt.Sprintf("Failed to create gate: %v", err))
	}

	held, _ := g.TryAcquire()

	// One caller fits in the waiting room
	go func() {
		p, err := g.Acquire(context.Background())
		if err == nil {
			p.Release()
		}
	}()

	// Give the waiter time to enqueue
	for g.Waiting() == 0 {
		time.Sleep(time.Millisecond)
	}

	// The next caller finds the waiting room full
	_, err = g.Acquire(context.Background())
	fmt.Println(err)

	held.Release()

	// Output: too many waiters
}

// Example_stateInspection demonstrates gate state inspection
func Example_stateInspection() {
	g, err := gate.NewSafe(3, 10)
	if err != nil {
		panic(fmt.Sprintf("Failed to create gate: %v", err))
	}

	p, _ := g.TryAcquire()
	fmt.Printf("permits=%d in_flight=%d available=%d waiting=%d\n",
		g.Permits(), g.InFlight(), g.Available(), g.Waiting())

	p.Release()
	fmt.Printf("permits=%d in_flight=%d available=%d waiting=%d\n",
		g.Permits(), g.InFlight(), g.Available(), g.Waiting())

	// Output:
	// permits=3 in_flight=1 available=2 waiting=0
	// permits=3 in_flight=0 available=3 waiting=0
}
