// Package broker implements a topic-keyed publish/subscribe bus used to fan
// resource lifecycle and WebSocket connection events out to callers without
// coupling controllers directly to subscribers.
package broker

import (
	"sync"

	"github.com/sourcegraph/conc"
)

// Topic identifies the kind of message being published.
type Topic string

const (
	TopicResourceAdded    Topic = "add"
	TopicResourceUpdated  Topic = "update"
	TopicResourceDeleted  Topic = "delete"
	TopicRawResourceEvent Topic = "resource_event"
	TopicConnectionEvent  Topic = "connection_event"
)

// Message is anything published to the broker. Concrete message types
// report which topic they belong to via Topic().
type Message interface {
	Topic() Topic
}

// Callback receives a published message. Asynchronous subscribers run it on
// its own goroutine, so callbacks registered via Subscribe that touch shared
// state must synchronize themselves.
type Callback func(Message)

// Unsubscribe removes a previously registered callback.
type Unsubscribe func()

type subscription struct {
	id       uint64
	callback Callback
	async    bool
}

// Broker manages topic subscriptions and distributes messages to
// subscribers: synchronous ones inline, asynchronous ones on their own
// goroutines, mirroring the asyncio.create_task fan-out the Python
// implementation uses but with conc.WaitGroup tracking in-flight
// asynchronous deliveries instead of a bare set of tasks.
type Broker struct {
	mu            sync.Mutex
	nextID        uint64
	subscriptions map[Topic][]subscription
	inFlight      conc.WaitGroup
}

// New builds an empty Broker.
func New() *Broker {
	return &Broker{subscriptions: make(map[Topic][]subscription)}
}

// Subscribe registers an asynchronous callback against one or more topics:
// Publish spawns it on its own tracked goroutine rather than blocking the
// publisher on it. Returns a function that unregisters it from all topics.
func (b *Broker) Subscribe(callback Callback, topics ...Topic) Unsubscribe {
	return b.subscribe(callback, false, topics)
}

// SubscribeSync registers a synchronous callback: Publish invokes it inline,
// on the publishing goroutine, before returning. Use for cheap callbacks
// that must observe messages in publish order.
func (b *Broker) SubscribeSync(callback Callback, topics ...Topic) Unsubscribe {
	return b.subscribe(callback, true, topics)
}

func (b *Broker) subscribe(callback Callback, synchronous bool, topics []Topic) Unsubscribe {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	for _, topic := range topics {
		b.subscriptions[topic] = append(b.subscriptions[topic], subscription{id: id, callback: callback, async: !synchronous})
	}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, topic := range topics {
			b.subscriptions[topic] = removeSubscription(b.subscriptions[topic], id)
			if len(b.subscriptions[topic]) == 0 {
				delete(b.subscriptions, topic)
			}
		}
	}
}

func removeSubscription(subs []subscription, id uint64) []subscription {
	out := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

// Publish delivers message to every subscriber of its topic. Synchronous
// subscribers run inline, in subscribe order; asynchronous subscribers each
// run on their own goroutine tracked by the broker's wait group so Wait can
// block until every in-flight callback has returned.
func (b *Broker) Publish(message Message) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subscriptions[message.Topic()]...)
	b.mu.Unlock()

	for _, s := range subs {
		if !s.async {
			s.callback(message)
			continue
		}
		cb := s.callback
		b.inFlight.Go(func() { cb(message) })
	}
}

// Wait blocks until every in-flight Publish delivery has returned. Intended
// for graceful shutdown, not for use on the hot path.
func (b *Broker) Wait() {
	b.inFlight.Wait()
}
