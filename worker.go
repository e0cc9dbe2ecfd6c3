package checkout

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

type eventProcessor interface {
	ProcessEvent(ctx context.Context, event *stripe.Event) error
}

type WorkRequest struct {
	Event *stripe.Event
	Ctx   context.Context
}

type Worker struct {
	ID         int
	WorkerPool chan chan WorkRequest
	JobChannel chan WorkRequest
	quit       chan bool
	processor  eventProcessor
	logger     *zap.Logger
}

func NewWorker(id int, workerPool chan chan WorkRequest, processor eventProcessor, logger *zap.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan WorkRequest),
		quit:       make(chan bool),
		processor:  processor,
		logger:     logger,
	}
}

func (w Worker) Start() {
	go func() {
		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.logger.Info("Processing event",
					zap.String("event_type", string(job.Event.Type)),
					zap.String("event_id", job.Event.ID))

				if err := w.processor.ProcessEvent(job.Ctx, job.Event); err != nil {
					w.logger.Error("Event processing failed",
						zap.Error(err),
						zap.String("event_type", string(job.Event.Type)),
						zap.String("event_id", job.Event.ID))
				} else {
					w.logger.Info("Event processing finished",
						zap.String("event_type", string(job.Event.Type)),
						zap.String("event_id", job.Event.ID))
				}

			case <-w.quit:
				return
			}
		}
	}()
}

func (w Worker) Stop() {
	close(w.quit)
}
