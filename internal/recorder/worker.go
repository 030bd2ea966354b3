package recorder

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/metrics"
	"github.com/actilog/actilog/internal/models"
)

// Job is one event queued for recording, together with the session context
// captured at enqueue time.
type Job struct {
	Event   models.Event
	Session *models.Session
}

// Worker buffers events and records them via a single goroutine so request
// handlers never block on the store.
type Worker struct {
	recorder *Recorder
	log      *logrus.Logger
	jobs     chan *Job
}

// NewWorker creates a Worker with the given queue capacity.
func NewWorker(recorder *Recorder, log *logrus.Logger, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 1000
	}

	return &Worker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan *Job, queueSize),
	}
}

// Enqueue adds a job. Non-blocking; drops the job if the queue is full.
func (w *Worker) Enqueue(job *Job) {
	select {
	case w.jobs <- job:
		metrics.RecorderQueueDepth.Set(float64(len(w.jobs)))
	default:
		metrics.EventsDropped.Inc()
		w.log.WithField("category", job.Event.Category).Warn("recorder queue full, dropping event")
	}
}

// Run processes jobs until the context is cancelled, then drains the queue.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *Worker) process(job *Job) {
	w.recorder.Record(context.Background(), job.Event, job.Session)
	metrics.RecorderQueueDepth.Set(float64(len(w.jobs)))
}
