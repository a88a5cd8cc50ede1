// Package events fans cart snapshots out to live subscribers.
package events

import (
	"sync"

	"github.com/google/uuid"

	"smartwiz/models"
)

// Subscription is one registered receiver of cart snapshots. C is closed
// once the subscription is removed or the broker shuts down.
type Subscription struct {
	ID uuid.UUID
	C  <-chan []models.LineItem

	ch     chan []models.LineItem
	broker *Broker
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	if s.broker != nil {
		s.broker.Unsubscribe(s.ID)
	}
}

// Broker keeps the set of active subscribers and delivers every published
// snapshot to each of them.
//
// Each subscriber owns a one-slot mailbox. Notify never blocks: when a
// subscriber has not consumed the previous snapshot yet, the stale one is
// replaced by the newer snapshot, so a slow reader always catches up to the
// latest cart without holding up the publisher. Snapshots must be treated as
// read-only by receivers because the same slice is handed to everyone.
type Broker struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]chan []models.LineItem
	closed bool
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[uuid.UUID]chan []models.LineItem),
	}
}

// Subscribe registers a new subscriber. On a closed broker the returned
// subscription is already closed.
func (b *Broker) Subscribe() *Subscription {
	ch := make(chan []models.LineItem, 1)
	sub := &Subscription{ID: uuid.New(), C: ch, ch: ch, broker: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub.ID] = ch
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Once it returns
// no further snapshot is delivered to that subscriber.
func (b *Broker) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
}

// Notify broadcasts snapshot to all current subscribers. There is no ordering
// between subscribers; each one sees snapshots in publication order.
func (b *Broker) Notify(snapshot []models.LineItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for _, ch := range b.subs {
		deliver(ch, snapshot)
	}
}

// deliver puts snapshot into the mailbox, evicting an unread older one.
// Callers hold b.mu, which makes Notify the only sender on ch.
func deliver(ch chan []models.LineItem, snapshot []models.LineItem) {
	select {
	case ch <- snapshot:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}

// Len returns the number of active subscribers
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Later Subscribe calls get closed
// subscriptions and Notify does nothing.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
