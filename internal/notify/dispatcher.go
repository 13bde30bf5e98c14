package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Event kinds.
const (
	KindFormSubmitted = "form-submitted"
)

// Event is one notification request handed to the dispatcher.
type Event struct {
	Kind         string
	SubmissionID int
}

// Dispatcher accepts events for asynchronous delivery. Enqueue never blocks
// the caller; it reports whether the event was accepted.
type Dispatcher interface {
	Enqueue(evt Event) bool
}

// Handler processes a dequeued event.
type Handler interface {
	HandleNotification(ctx context.Context, evt Event) error
}

// EmailDispatcher queues events on a bounded channel and delivers them on a
// single background worker. A full queue drops the event rather than stalling
// the HTTP request that produced it.
type EmailDispatcher struct {
	handler Handler
	events  chan Event
}

// NewEmailDispatcher constructs an EmailDispatcher with the given queue size.
func NewEmailDispatcher(handler Handler, queueSize int) *EmailDispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &EmailDispatcher{
		handler: handler,
		events:  make(chan Event, queueSize),
	}
}

// Enqueue offers an event to the queue without blocking.
func (d *EmailDispatcher) Enqueue(evt Event) bool {
	select {
	case d.events <- evt:
		return true
	default:
		log.Warn().
			Str("kind", evt.Kind).
			Int("submission_id", evt.SubmissionID).
			Msg("Notification queue full, dropping event")
		return false
	}
}

// Start begins the delivery loop and listens for context cancellation.
func (d *EmailDispatcher) Start(ctx context.Context) {
	log.Info().Int("queue_size", cap(d.events)).Msg("Starting notification dispatcher")

	for {
		select {
		case evt := <-d.events:
			if err := d.handler.HandleNotification(ctx, evt); err != nil {
				log.Error().
					Err(err).
					Str("kind", evt.Kind).
					Int("submission_id", evt.SubmissionID).
					Msg("Failed to process notification")
			}
		case <-ctx.Done():
			log.Info().Msg("Notification dispatcher stopped")
			return
		}
	}
}
