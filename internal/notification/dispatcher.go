package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultQueueSize = 256
	jobTimeout       = 30 * time.Second
)

type Job func(ctx context.Context)

type namedJob struct {
	name string
	run  Job
}

// Dispatcher runs fan-out jobs on a single background worker. Jobs are
// dropped when the queue is full and never retried.
type Dispatcher struct {
	queue chan namedJob
	log   zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(size int, log zerolog.Logger) *Dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}

	d := &Dispatcher{
		queue: make(chan namedJob, size),
		log:   log,
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for job := range d.queue {
		d.run(job)
	}
}

func (d *Dispatcher) run(job namedJob) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("job", job.name).Msg("notification job panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	job.run(ctx)
}

// Enqueue reports whether the job was accepted. Jobs arriving after Close
// are dropped.
func (d *Dispatcher) Enqueue(name string, job Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("job", name).Msg("notification queue closed, dropping job")
		return false
	}

	select {
	case d.queue <- namedJob{name: name, run: job}:
		return true
	default:
		d.log.Warn().Str("job", name).Msg("notification queue full, dropping job")
		return false
	}
}

// Close drains pending jobs.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
