package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const queueSize = 100

type Event struct {
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
	IPAddress string
	UserAgent string
}

// Dispatcher writes audit events off the request path. A full queue drops
// the event; auditing never fails a request. A nil Dispatcher discards.
type Dispatcher struct {
	sink  Sink
	log   zerolog.Logger
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("action", ev.Action).Msg("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

// Origin identifies where a request came from.
type Origin struct {
	IPAddress string
	UserAgent string
}

func (o Origin) Event(userID uint, action, entity string, entityID uint) Event {
	ev := Event{
		UserID:    &userID,
		Action:    action,
		Entity:    entity,
		IPAddress: o.IPAddress,
		UserAgent: o.UserAgent,
	}
	if entityID != 0 {
		ev.EntityID = &entityID
	}
	return ev
}
