package notification

import (
	"context"
	"errors"
	"log"
	"sync"
)

var (
	ErrQueueFull         = errors.New("notification queue is full")
	ErrDispatcherStopped = errors.New("notification dispatcher is stopped")
)

// Dispatcher is an in-process Publisher. Messages go through a buffered
// channel to a single delivery goroutine; a full buffer drops the message.
type Dispatcher struct {
	sender Sender
	queue  chan Message

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

func NewDispatcher(sender Sender, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, buffer),
		done:   make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Dispatcher) Publish(ctx context.Context, msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for msg := range d.queue {
		if err := d.sender.Send(context.Background(), msg); err != nil {
			log.Printf("⚠️ Failed to deliver %s notification to %s: %v", msg.Kind, msg.To, err)
		}
	}
}

// Close stops accepting messages and waits until the queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}
