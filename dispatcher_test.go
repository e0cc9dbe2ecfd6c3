package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

type countingProcessor struct {
	mu     sync.Mutex
	events []string
	done   chan struct{}
}

func (p *countingProcessor) ProcessEvent(_ context.Context, event *stripe.Event) error {
	p.mu.Lock()
	p.events = append(p.events, event.ID)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func TestDispatcherProcessesSubmittedEvents(t *testing.T) {
	processor := &countingProcessor{done: make(chan struct{}, 16)}

	dispatcher := NewDispatcher(4, 16, processor, zap.NewNop())
	dispatcher.Run()
	defer dispatcher.Stop()

	for i := 0; i < 8; i++ {
		dispatcher.Submit(context.Background(), &stripe.Event{ID: "evt_pool"})
	}

	for i := 0; i < 8; i++ {
		select {
		case <-processor.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("processed %d of 8 events before timeout", i)
		}
	}

	processor.mu.Lock()
	defer processor.mu.Unlock()
	if len(processor.events) != 8 {
		t.Errorf("processed %d events, want 8", len(processor.events))
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	processor := &countingProcessor{done: make(chan struct{}, 1)}

	// No workers started: submissions accumulate in the queue only.
	dispatcher := NewDispatcher(1, 2, processor, zap.NewNop())

	for i := 0; i < 10; i++ {
		dispatcher.Submit(context.Background(), &stripe.Event{ID: "evt_overflow"})
	}

	if got := len(dispatcher.jobQueue); got != 2 {
		t.Errorf("queued %d jobs, want 2", got)
	}
}
