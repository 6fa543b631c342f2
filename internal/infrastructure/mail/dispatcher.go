package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetgate/reservation-api/internal/api/metrics"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Dispatcher fans outbound mail across a fixed pool of workers. Delivery is
// best-effort: failures are logged and counted, never surfaced to the
// caller — the domain action that triggered the mail has already committed.
type Dispatcher struct {
	queue  chan ports.MailMessage
	mailer ports.Mailer
	count  int
	log    zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers delivery workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{
		queue:  make(chan ports.MailMessage, channelBuffer),
		mailer: mailer,
		count:  numWorkers,
		log:    log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.count; i++ {
		go d.runWorker(ctx, i)
	}
}

// Enqueue hands a message to the pool. When the queue is full the message
// is dropped with an error log instead of blocking the request path.
func (d *Dispatcher) Enqueue(msg ports.MailMessage) {
	select {
	case d.queue <- msg:
	default:
		metrics.MailsTotal.WithLabelValues("error").Inc()
		d.log.Error().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail queue full, message dropped")
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.queue:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := d.mailer.Send(sendCtx, msg)
			cancel()
			if err != nil {
				metrics.MailsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("to", msg.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.MailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
