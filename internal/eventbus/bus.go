package eventbus

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Type string

const (
	TypeInquiryReceived Type = "inquiry.received"
	TypeContactReceived Type = "contact.received"
)

type Event struct {
	ID         string
	Type       Type
	ResourceID string
	Metadata   map[string]string
	CreatedAt  time.Time
}

// Bus fans events out to every subscriber. Delivery is best effort: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan *Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan *Event),
	}
}

func (b *Bus) Subscribe(bufSize int) (string, <-chan *Event) {
	id := ulid.Make().String()
	ch := make(chan *Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// subscriber is behind, drop
		}
	}
}

func (b *Bus) PublishNew(eventType Type, resourceID string, metadata map[string]string) *Event {
	event := &Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		ResourceID: resourceID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}
	b.Publish(event)
	return event
}
