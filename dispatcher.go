package checkout

import (
	"context"
	"sync"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

// Dispatcher feeds a bounded worker pool from a bounded job queue so
// slow downstream calls never block the request accept path.
type Dispatcher struct {
	WorkerPool chan chan WorkRequest
	maxWorkers int
	jobQueue   chan WorkRequest
	processor  eventProcessor
	logger     *zap.Logger
	workers    []Worker
	stop       chan bool
	mu         sync.Mutex
}

func NewDispatcher(maxWorkers, jobQueueSize int, processor eventProcessor, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		WorkerPool: make(chan chan WorkRequest, maxWorkers),
		maxWorkers: maxWorkers,
		jobQueue:   make(chan WorkRequest, jobQueueSize),
		processor:  processor,
		logger:     logger,
		stop:       make(chan bool),
	}
}

func (d *Dispatcher) Run() {
	d.mu.Lock()
	for i := 0; i < d.maxWorkers; i++ {
		worker := NewWorker(i+1, d.WorkerPool, d.processor, d.logger)
		worker.Start()
		d.workers = append(d.workers, worker)
	}
	d.mu.Unlock()

	go d.dispatch()
}

// Submit enqueues an event for asynchronous processing. When the queue
// is full the event is dropped and logged rather than blocking the
// caller.
func (d *Dispatcher) Submit(ctx context.Context, event *stripe.Event) {
	select {
	case d.jobQueue <- WorkRequest{Event: event, Ctx: ctx}:
	default:
		d.logger.Warn("Job queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
	}
}

func (d *Dispatcher) dispatch() {
	var wg sync.WaitGroup

	for {
		select {
		case job := <-d.jobQueue:
			wg.Add(1)
			go func(job WorkRequest) {
				defer wg.Done()
				select {
				case jobChannel := <-d.WorkerPool:
					select {
					case jobChannel <- job:
					case <-job.Ctx.Done():
						d.logger.Warn("Job context canceled before processing",
							zap.Error(job.Ctx.Err()),
							zap.String("event_id", job.Event.ID))
					}
				case <-job.Ctx.Done():
					d.logger.Warn("Job context canceled while waiting for available worker",
						zap.Error(job.Ctx.Err()),
						zap.String("event_id", job.Event.ID))
				}
			}(job)

		case <-d.stop:
			wg.Wait()
			return
		}
	}
}

func (d *Dispatcher) Stop() {
	close(d.stop)
	var wg sync.WaitGroup

	d.mu.Lock()
	for _, worker := range d.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			w.Stop()
		}(worker)
	}
	d.mu.Unlock()

	wg.Wait()
}
