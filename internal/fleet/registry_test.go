package fleet

import (
	"sync"
	"testing"

	"github.com/chaz8081/ledctl/internal/light"
)

func TestRegistryAddAndSnapshot(t *testing.T) {
	r := NewRegistry()
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}

	a := newHandle("id-a", "New LED", 10)
	b := newHandle("id-b", "aa:bb:cc:dd:ee:ff", 10)
	r.Add(a)
	r.Add(b)

	handles := r.Handles()
	if len(handles) != 2 {
		t.Fatalf("Handles() returned %d, want 2", len(handles))
	}
	if handles[0] != a || handles[1] != b {
		t.Error("Handles() order should match insertion order")
	}

	// The snapshot is a copy; mutating it must not affect the registry.
	handles[0] = nil
	if r.Handles()[0] != a {
		t.Error("mutating the snapshot leaked into the registry")
	}
}

func TestRegistryConcurrentAdds(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(newHandle("id", "LED", 1))
		}()
	}
	wg.Wait()

	if r.Len() != 50 {
		t.Errorf("Len() = %d, want 50", r.Len())
	}
}

func TestHandleSendReportsQueueFull(t *testing.T) {
	h := newHandle("id", "LED", 2)

	s := light.Default(10)
	if !h.Send(s) || !h.Send(s) {
		t.Fatal("Send should accept while the queue has room")
	}
	if h.Send(s) {
		t.Error("Send should report false once the queue is full")
	}

	// Draining one slot makes room again.
	<-h.updates
	if !h.Send(s) {
		t.Error("Send should accept after the queue drains")
	}
}
