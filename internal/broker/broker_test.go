package broker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPublish_DeliversToMatchingTopicOnly(t *testing.T) {
	b := New()

	var added, updated int32
	b.SubscribeSync(func(Message) { atomic.AddInt32(&added, 1) }, TopicResourceAdded)
	b.SubscribeSync(func(Message) { atomic.AddInt32(&updated, 1) }, TopicResourceUpdated)

	b.Publish(NewResourceMessage(TopicResourceAdded, "devices/lock", "123", nil))

	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}
}

func TestSubscribeSync_RunsInlineBeforePublishReturns(t *testing.T) {
	b := New()

	var delivered bool
	b.SubscribeSync(func(Message) { delivered = true }, TopicResourceAdded)

	b.Publish(NewResourceMessage(TopicResourceAdded, "devices/lock", "123", nil))

	if !delivered {
		t.Error("synchronous subscriber was not invoked before Publish returned")
	}
}

func TestSubscribe_DeliversAsynchronouslyButWaitBlocksUntilDone(t *testing.T) {
	b := New()

	var delivered int32
	b.Subscribe(func(Message) {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&delivered, 1)
	}, TopicResourceAdded)

	b.Publish(NewResourceMessage(TopicResourceAdded, "devices/lock", "123", nil))
	b.Wait()

	if delivered != 1 {
		t.Errorf("delivered = %d, want 1 after Wait", delivered)
	}
}

func TestUnsubscribe_StopsFurtherDelivery(t *testing.T) {
	b := New()

	var count int32
	unsubscribe := b.SubscribeSync(func(Message) { atomic.AddInt32(&count, 1) }, TopicResourceAdded)

	b.Publish(NewResourceMessage(TopicResourceAdded, "devices/lock", "123", nil))
	unsubscribe()
	b.Publish(NewResourceMessage(TopicResourceAdded, "devices/lock", "123", nil))

	if count != 1 {
		t.Errorf("count = %d, want 1 (no delivery after unsubscribe)", count)
	}
}

func TestSubscribe_MultipleTopicsSharedCallback(t *testing.T) {
	b := New()

	var mu sync.Mutex
	var topics []Topic
	b.SubscribeSync(func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, m.Topic())
	}, TopicResourceAdded, TopicResourceDeleted)

	b.Publish(NewResourceMessage(TopicResourceAdded, "devices/lock", "1", nil))
	b.Publish(NewResourceMessage(TopicResourceDeleted, "devices/lock", "1", nil))

	if len(topics) != 2 {
		t.Fatalf("got %d deliveries, want 2", len(topics))
	}
}

func TestConnectionMessage_Topic(t *testing.T) {
	msg := ConnectionMessage{State: ConnectionConnected}
	if msg.Topic() != TopicConnectionEvent {
		t.Errorf("Topic() = %v, want TopicConnectionEvent", msg.Topic())
	}
}
