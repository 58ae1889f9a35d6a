// Package events fans node activity out to subscribers such as the public
// websocket. Node code reports activity as "pkg: Func: detail" strings and
// each one is delivered as a typed Event.
package events

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// subscriberBuffer is the number of events held for a subscriber that is
// slow to read. Events beyond it are dropped for that subscriber.
const subscriberBuffer = 100

// Event is one piece of node activity.
type Event struct {
	Time    time.Time `json:"time"`
	Source  string    `json:"source"`          // Package that raised it: state, worker, consensus...
	Op      string    `json:"op,omitempty"`    // Function that raised it: MineNewBlock, Resolve...
	Message string    `json:"message"`         // Full text as reported.
	Error   bool      `json:"error,omitempty"` // The text carries an ERROR marker.
}

// Parse turns a reported line into an Event stamped with now. A line without
// the "pkg: Func:" prefix is kept whole with the source "node".
func Parse(now time.Time, msg string) Event {
	ev := Event{
		Time:    now.UTC(),
		Source:  "node",
		Message: msg,
		Error:   strings.Contains(msg, "ERROR"),
	}

	parts := strings.SplitN(msg, ": ", 3)
	if len(parts) < 2 || strings.ContainsAny(parts[0], " \t") {
		return ev
	}

	ev.Source = parts[0]
	if len(parts) == 3 && !strings.ContainsAny(parts[1], " \t") {
		ev.Op = parts[1]
	}

	return ev
}

// String returns the event in the form it was reported.
func (ev Event) String() string {
	return ev.Message
}

// =============================================================================

// subscriber is a registered receiver and the sources it asked for. An
// empty source set receives everything.
type subscriber struct {
	ch      chan Event
	sources map[string]bool
	dropped int
}

func (s *subscriber) wants(ev Event) bool {
	return len(s.sources) == 0 || s.sources[ev.Source]
}

// Events tracks the subscribers of node events by a unique id, the trace id
// of the websocket request in the node.
type Events struct {
	subs map[string]*subscriber
	mu   sync.RWMutex
	now  func() time.Time
}

// New constructs the set of subscribers for node events.
func New() *Events {
	return &Events{
		subs: make(map[string]*subscriber),
		now:  time.Now,
	}
}

// Shutdown closes and removes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}
}

// Acquire registers the id and returns the channel its events arrive on.
// When sources are named only events raised by those packages are
// delivered. Acquiring an id that is already registered returns the
// existing channel and leaves its sources as they were.
func (evt *Events) Acquire(id string, sources ...string) <-chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:      make(chan Event, subscriberBuffer),
		sources: make(map[string]bool, len(sources)),
	}
	for _, src := range sources {
		if src = strings.TrimSpace(src); src != "" {
			sub.sources[src] = true
		}
	}

	evt.subs[id] = &sub
	return sub.ch
}

// Release closes and removes the channel registered for the id. It returns
// the number of events the subscriber missed because it was too slow.
func (evt *Events) Release(id string) (int, error) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return 0, fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)
	return sub.dropped, nil
}

// Count returns the number of subscribers.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send parses the reported line and delivers it to every subscriber that
// wants its source. Send never blocks on a slow subscriber.
func (evt *Events) Send(msg string) {
	ev := Parse(evt.now(), msg)

	// The dropped counters change so a read lock isn't enough.
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for _, sub := range evt.subs {
		if !sub.wants(ev) {
			continue
		}

		select {
		case sub.ch <- ev:
		default:
			sub.dropped++
		}
	}
}
