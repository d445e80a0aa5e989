package broadcast

import (
	"sync"

	"github.com/girojeri/backend/internal/models"
)

// subscriber channel buffer; a subscriber whose buffer is full misses the event
const subscriberBuffer = 8

// Subscriber is one open agency connection listening for new orders.
// It is owned by the Broadcaster for its lifetime and must be released
// with Unsubscribe when the connection closes.
type Subscriber struct {
	ch chan models.Order
}

// C returns the channel of orders published to this subscriber.
// The channel is closed by Unsubscribe.
func (s *Subscriber) C() <-chan models.Order {
	return s.ch
}

// Broadcaster fans out newly available orders to every connected agency.
// Delivery is best effort, at most once, within this process only: an agency
// connected to another instance would not see the event.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// New creates new Broadcaster instance
func New() *Broadcaster {
	return &Broadcaster{
		subs: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{
		ch: make(chan models.Order, subscriberBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[sub] = struct{}{}

	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
// Unsubscribing an already removed subscriber is a no-op.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}

// Close removes every subscriber and closes their channels. Streams blocked
// on a subscriber channel observe the close and terminate.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish delivers the order to every current subscriber. It never fails:
// a subscriber that can not take the event right now is skipped.
func (b *Broadcaster) Publish(order models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		select {
		case sub.ch <- order:
		default:
			// dead or slow connection, ignore
		}
	}
}
