package pool

import (
	"sync"
	"testing"
	"time"
)

func TestPoolPriorityOrder(t *testing.T) {
	p := New(1) // single worker makes ordering deterministic
	defer p.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	// Block the single worker until all tasks are queued, so priority
	// ordering (not submission order) decides execution order.
	started := make(chan struct{})
	release := make(chan struct{})
	wg.Add(1)
	p.Push("blocker", 0, func() {
		defer wg.Done()
		close(started)
		<-release
	})
	<-started

	wg.Add(3)
	for _, prio := range []int{1, 5, 3} {
		prio := prio
		p.Push("t", prio, func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, prio)
			mu.Unlock()
		})
	}
	close(release)
	wg.Wait()

	want := []int{5, 3, 1}
	mu.Lock()
	defer mu.Unlock()
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPoolRemoveByID(t *testing.T) {
	p := New(1)
	defer p.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	p.Push("blocker", 0, func() {
		close(started)
		<-release
	})
	<-started

	ran := make(chan string, 4)
	p.Push("session-a", 0, func() { ran <- "a" })
	p.Push("session-b", 0, func() { ran <- "b" })

	removed := p.RemoveByID("session-a")
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	close(release)

	select {
	case r := <-ran:
		if r != "b" {
			t.Fatalf("ran = %q, want %q", r, "b")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for surviving task")
	}
	select {
	case r := <-ran:
		t.Fatalf("unexpected second task ran: %q", r)
	case <-time.After(50 * time.Millisecond):
	}
}
