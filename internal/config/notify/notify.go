// Package notify delivers configuration change notifications to
// subscribers.
package notify

import (
	"strings"
	"sync"
)

// ChangeType identifies the kind of configuration change.
type ChangeType uint8

const (
	ChangeSet ChangeType = iota
	ChangeDelete
	ChangeReload
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes a single configuration change. Path is a dot-separated
// setting path and is empty for a full reload.
type Change struct {
	Path   string
	Type   ChangeType
	Old    any
	New    any
	Source string
}

// Observer receives changes.
type Observer func(Change)

// Subscription identifies a registered observer.
type Subscription uint64

type subscriber struct {
	prefix   string
	observer Observer
}

// Notifier fans out changes to observers.
type Notifier struct {
	mu     sync.RWMutex
	nextID Subscription
	subs   map[Subscription]subscriber
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[Subscription]subscriber)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(o Observer) Subscription {
	return n.SubscribePath("", o)
}

// SubscribePath registers an observer for changes at or below prefix.
// Reloads are delivered to every subscriber.
func (n *Notifier) SubscribePath(prefix string, o Observer) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.subs[n.nextID] = subscriber{prefix: prefix, observer: o}
	return n.nextID
}

// Unsubscribe removes an observer. Unknown subscriptions are ignored.
func (n *Notifier) Unsubscribe(id Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Notify delivers c synchronously to matching observers. Observers may
// unsubscribe while being notified.
func (n *Notifier) Notify(c Change) {
	n.mu.RLock()
	targets := make([]Observer, 0, len(n.subs))
	for _, s := range n.subs {
		if c.Type == ChangeReload || matches(s.prefix, c.Path) {
			targets = append(targets, s.observer)
		}
	}
	n.mu.RUnlock()

	for _, o := range targets {
		o(c)
	}
}

func matches(prefix, path string) bool {
	if prefix == "" || prefix == path {
		return true
	}
	return strings.HasPrefix(path, prefix+".")
}
