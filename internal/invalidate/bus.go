// Package invalidate carries staleness signals from the mutation layer to
// display hosts. An event never carries data, only the scope whose cached
// children must be re-fetched before next display.
package invalidate

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// Event marks a subtree stale. Key is the structural key of the scope
// root; the empty key invalidates the whole tree.
type Event struct {
	Key string
}

// Everything is the event that invalidates the whole tree.
var Everything = Event{}

// Bus is a broadcast channel with an explicit subscribe/unsubscribe
// lifecycle. One Bus is shared by the tree provider and the mutation
// coordinator for the lifetime of the composition root.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe registers a listener and returns its id together with the
// channel events arrive on. The channel is closed by Unsubscribe.
func (b *Bus) Subscribe(bufSize int) (string, <-chan Event) {
	id := ulid.Make().String()
	ch := make(chan Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a listener and closes its channel. Unknown ids are
// ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}

// Close unsubscribes every listener.
func (b *Bus) Close() {
	b.mu.Lock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}
