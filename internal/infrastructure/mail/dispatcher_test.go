package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetgate/reservation-api/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
	done chan struct{}
}

func (m *recordingMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.err
}

func TestDispatcherDeliversEnqueuedMail(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}, 4)}
	d := NewDispatcher(2, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.MailMessage{To: "a@example.com", Subject: "one"})
	d.Enqueue(ports.MailMessage{To: "b@example.com", Subject: "two"})

	for i := 0; i < 2; i++ {
		select {
		case <-mailer.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 2 {
		t.Fatalf("delivered %d messages, want 2", len(mailer.sent))
	}
}

func TestDispatcherSwallowsDeliveryErrors(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("relay down"), done: make(chan struct{}, 1)}
	d := NewDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Enqueue never returns an error; a failing relay only shows up in
	// logs and metrics.
	d.Enqueue(ports.MailMessage{To: "a@example.com", Subject: "one"})

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery attempt")
	}
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	// Give the worker a moment to observe cancellation, then verify a
	// late enqueue is not delivered.
	time.Sleep(50 * time.Millisecond)
	d.Enqueue(ports.MailMessage{To: "late@example.com"})
	time.Sleep(50 * time.Millisecond)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no deliveries after cancel, got %d", len(mailer.sent))
	}
}
