package broadcast

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Topic names carried over the broadcaster.
const (
	TopicLocationUpdated = "location:updated"
	TopicFraudAlert      = "fraud:alert"
)

// Message is one published event.
type Message struct {
	Topic   string
	Payload any
}

// Broadcaster fans events out to topic subscribers. Delivery is at most once:
// a subscriber whose buffer is full loses the event instead of stalling the
// publisher.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[string]map[*Subscription]struct{}
	buffer  int
	dropped prometheus.Counter
	closed  bool
}

// Subscription is one subscriber's feed for a single topic.
type Subscription struct {
	topic string
	ch    chan Message
	b     *Broadcaster
	once  sync.Once
}

// New - creates a new Broadcaster.
func New(buffer int, dropped prometheus.Counter) *Broadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broadcaster{
		subs:    make(map[string]map[*Subscription]struct{}),
		buffer:  buffer,
		dropped: dropped,
	}
}

// Subscribe registers a new subscriber for the topic.
func (b *Broadcaster) Subscribe(topic string) *Subscription {
	s := &Subscription{
		topic: topic,
		ch:    make(chan Message, b.buffer),
		b:     b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]struct{})
	}
	b.subs[topic][s] = struct{}{}
	return s
}

// Publish delivers the payload to every current subscriber of the topic and
// returns how many actually received it.
func (b *Broadcaster) Publish(topic string, payload any) int {
	msg := Message{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}

	delivered := 0
	for s := range b.subs[topic] {
		select {
		case s.ch <- msg:
			delivered++
		default:
			b.dropped.Inc()
		}
	}
	return delivered
}

// Close shuts the broadcaster down and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, set := range b.subs {
		for s := range set {
			s.once.Do(func() { close(s.ch) })
		}
	}
	b.subs = nil
}

// Events returns the subscriber's receive channel. The channel is closed when
// the subscription or the broadcaster closes.
func (s *Subscription) Events() <-chan Message {
	return s.ch
}

// Close detaches the subscription. Safe to call twice.
func (s *Subscription) Close() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if s.b.closed {
		return
	}
	if set, ok := s.b.subs[s.topic]; ok {
		if _, member := set[s]; member {
			delete(set, s)
			s.once.Do(func() { close(s.ch) })
		}
	}
}
