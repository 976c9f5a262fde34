// Package events fans node activity out to subscribers such as websocket
// clients. Every message is routed by its topic, the text before the first
// colon ("state: pushBlock: ..." has topic "state").
package events

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// messageBuffer is how many events a slow subscriber may fall behind before
// new events are dropped for it.
const messageBuffer = 100

// Event is a single message delivered to subscribers.
type Event struct {
	Topic   string    `json:"topic"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type subscriber struct {
	ch     chan Event
	topics map[string]bool
}

func (s subscriber) wants(topic string) bool {
	return len(s.topics) == 0 || s.topics[topic]
}

// Events maintains the set of subscribers keyed by a unique id.
type Events struct {
	mu   sync.RWMutex
	subs map[string]subscriber
	now  func() time.Time
}

// New constructs an events feed.
func New() *Events {
	return &Events{
		subs: make(map[string]subscriber),
		now:  time.Now,
	}
}

// Shutdown closes and removes every subscription.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}
}

// Acquire registers the id and returns the channel its events arrive on.
// With no topics every event is delivered. Acquiring an existing id returns
// the channel already registered for it.
func (evt *Events) Acquire(id string, topics ...string) <-chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:     make(chan Event, messageBuffer),
		topics: make(map[string]bool, len(topics)),
	}
	for _, topic := range topics {
		sub.topics[topic] = true
	}

	evt.subs[id] = sub
	return sub.ch
}

// Release closes and removes the subscription for the id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)
	return nil
}

// Len returns the number of active subscriptions.
func (evt *Events) Len() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send delivers the message to every interested subscriber. Send never
// blocks; a subscriber with a full buffer misses the event.
func (evt *Events) Send(msg string) {
	e := Event{
		Topic:   topicOf(msg),
		Message: msg,
		Time:    evt.now().UTC(),
	}

	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.subs {
		if !sub.wants(e.Topic) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}

// Handler returns a printf style function that formats and sends events.
// It matches the event handler signature used by the blockchain packages.
func (evt *Events) Handler() func(v string, args ...any) {
	return func(v string, args ...any) {
		evt.Send(fmt.Sprintf(v, args...))
	}
}

func topicOf(msg string) string {
	topic, _, found := strings.Cut(msg, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(topic)
}
