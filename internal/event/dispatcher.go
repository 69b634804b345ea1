package event

import (
	"sync"
	"time"

	"github.com/lumocms/lumo-backend/pkg/logger"
)

// Domain event names raised by publication state transitions
const (
	ContentCreated     = "content.created"
	ContentUpdated     = "content.updated"
	ContentPublished   = "content.published"
	ContentUnpublished = "content.unpublished"
	ContentDeleted     = "content.deleted"
)

// Event is one domain event raised after a state transition commits
type Event struct {
	Name      string    `json:"name"`
	ContentID string    `json:"content_id"`
	SchemaID  uint64    `json:"schema_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscriber receives events asynchronously. Delivery outcome never
// affects the transition that raised the event.
type Subscriber interface {
	Notify(event Event)
}

// Dispatcher is an in-process outbox: mutations append events to a
// buffered channel and return immediately; a background worker fans
// them out to subscribers.
type Dispatcher struct {
	events      chan Event
	subscribers []Subscriber
	mu          sync.RWMutex
	done        chan struct{}
	wg          sync.WaitGroup
}

// NewDispatcher creates a dispatcher and starts its delivery worker
func NewDispatcher(buffer int, subscribers ...Subscriber) *Dispatcher {
	d := &Dispatcher{
		events:      make(chan Event, buffer),
		subscribers: subscribers,
		done:        make(chan struct{}),
	}
	d.wg.Add(1)
	go d.deliverLoop()
	return d
}

// Subscribe registers an additional subscriber
func (d *Dispatcher) Subscribe(s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, s)
}

// Dispatch appends an event without blocking the caller. When the
// buffer is full the event is dropped and logged; the state transition
// it belongs to has already committed.
func (d *Dispatcher) Dispatch(name, contentID string, schemaID uint64, status string) {
	ev := Event{
		Name:      name,
		ContentID: contentID,
		SchemaID:  schemaID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}

	select {
	case d.events <- ev:
	default:
		logger.GetLogger().Warn().
			Str("event", name).
			Str("content_id", contentID).
			Msg("event buffer full, dropping event")
	}
}

// Close stops accepting events and waits for pending deliveries
func (d *Dispatcher) Close() {
	close(d.done)
	d.wg.Wait()
}

func (d *Dispatcher) deliverLoop() {
	defer d.wg.Done()
	for {
		select {
		case ev := <-d.events:
			d.deliver(ev)
		case <-d.done:
			// drain whatever is still buffered
			for {
				select {
				case ev := <-d.events:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	d.mu.RLock()
	subs := make([]Subscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.RUnlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetLogger().Error().
						Str("event", ev.Name).
						Interface("panic", r).
						Msg("event subscriber panicked")
				}
			}()
			s.Notify(ev)
		}()
	}
}
