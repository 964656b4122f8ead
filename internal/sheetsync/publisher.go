package sheetsync

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher decouples the engines from sheet delivery through a bounded
// buffer drained by a single worker goroutine. Publish never blocks the
// scan path; when the buffer is full the event is dropped and logged.
type Publisher struct {
	sender Sender
	logger *slog.Logger
	inbox  chan Event

	closeOnce  sync.Once
	done       chan struct{}
	drainGrace time.Duration
}

// NewPublisher starts the delivery worker.
func NewPublisher(sender Sender, logger *slog.Logger, buffer int, drainGrace time.Duration) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &Publisher{
		sender:     sender,
		logger:     logger,
		inbox:      make(chan Event, buffer),
		done:       make(chan struct{}),
		drainGrace: drainGrace,
	}
	go p.run()
	return p
}

// Publish enqueues an event without blocking. Overflow drops the event;
// the sheet is an audit convenience, not a system of record.
func (p *Publisher) Publish(event Event) {
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("sheet sync buffer full, dropping event",
			"type", event.Type,
			"key_code", event.KeyCode,
		)
	}
}

// Close stops accepting events and drains what is already buffered, bounded
// by the drain grace period.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.inbox)
		select {
		case <-p.done:
		case <-time.After(p.drainGrace):
			p.logger.Warn("sheet sync drain timed out")
		}
	})
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := p.sender.Send(ctx, event); err != nil {
			// No retry; the failure is logged and the event is gone.
			p.logger.Warn("sheet sync delivery failed",
				"type", event.Type,
				"key_code", event.KeyCode,
				"error", err,
			)
		}
		cancel()
	}
}
