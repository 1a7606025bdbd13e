package model

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
)

// Model is the record a view container renders.
type Model interface {
	// Get returns the value stored under key, or nil.
	Get(key string) any

	// Attrs returns a snapshot of every attribute.
	Attrs() map[string]any

	// Subscribe registers fn for change notifications and returns a function
	// that cancels the subscription. Cancel is idempotent.
	Subscribe(fn func(Change)) (cancel func())
}

// Change describes one notification: the changed keys with their previous
// and new values.
type Change struct {
	Source  Model
	Changed map[string]Delta
}

// Delta is the before/after value of one attribute.
type Delta struct {
	Prev any
	Next any
}

// Keys returns the changed keys in sorted order.
func (c Change) Keys() []string {
	keys := make([]string, 0, len(c.Changed))
	for k := range c.Changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is part of the change.
func (c Change) Has(key string) bool {
	_, ok := c.Changed[key]
	return ok
}

// IDAttr is the attribute that identifies a record.
const IDAttr = "id"

// subscriber is one registered change listener.
type subscriber struct {
	id uint64
	fn func(Change)
}

var nextSubID atomic.Uint64

// Record is a Model backed by a map.
// It is safe for concurrent use; notifications run on the writer's goroutine.
type Record struct {
	mu    sync.RWMutex
	attrs map[string]any

	subMu sync.RWMutex
	subs  []subscriber

	// equal decides whether a write changes a value.
	equal func(a, b any) bool
}

// NewRecord creates a record with the given id and attributes.
// The attributes map is copied.
func NewRecord(id string, attrs map[string]any) *Record {
	r := &Record{
		attrs: make(map[string]any, len(attrs)+1),
		equal: reflect.DeepEqual,
	}
	for k, v := range attrs {
		r.attrs[k] = v
	}
	if id != "" {
		r.attrs[IDAttr] = id
	}
	return r
}

// WithEquals configures the equality function used to suppress no-op writes.
func (r *Record) WithEquals(fn func(a, b any) bool) *Record {
	r.equal = fn
	return r
}

// ID returns the record's id attribute as a string.
func (r *Record) ID() string {
	s, _ := r.Get(IDAttr).(string)
	return s
}

// Get implements Model.
func (r *Record) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attrs[key]
}

// Attrs implements Model.
func (r *Record) Attrs() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Set stores value under key and notifies subscribers if it changed.
func (r *Record) Set(key string, value any) {
	r.SetAttrs(map[string]any{key: value})
}

// SetAttrs stores several attributes and sends a single notification
// covering every key whose value changed.
func (r *Record) SetAttrs(attrs map[string]any) {
	r.mu.Lock()
	changed := make(map[string]Delta)
	for k, v := range attrs {
		prev, ok := r.attrs[k]
		if ok && r.equal(prev, v) {
			continue
		}
		r.attrs[k] = v
		changed[k] = Delta{Prev: prev, Next: v}
	}
	r.mu.Unlock()

	if len(changed) > 0 {
		r.notify(Change{Source: r, Changed: changed})
	}
}

// Unset removes key and notifies subscribers if it was present.
func (r *Record) Unset(key string) {
	r.mu.Lock()
	prev, ok := r.attrs[key]
	delete(r.attrs, key)
	r.mu.Unlock()

	if ok {
		r.notify(Change{Source: r, Changed: map[string]Delta{key: {Prev: prev}}})
	}
}

// Subscribe implements Model.
func (r *Record) Subscribe(fn func(Change)) func() {
	if fn == nil {
		return func() {}
	}
	id := nextSubID.Add(1)

	r.subMu.Lock()
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (r *Record) Subscribers() int {
	r.subMu.RLock()
	defer r.subMu.RUnlock()
	return len(r.subs)
}

func (r *Record) unsubscribe(id uint64) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return
		}
	}
}

// notify delivers ch to a copy of the subscriber list so listeners may
// subscribe or cancel while being notified.
func (r *Record) notify(ch Change) {
	r.subMu.RLock()
	subs := make([]subscriber, len(r.subs))
	copy(subs, r.subs)
	r.subMu.RUnlock()

	for _, s := range subs {
		s.fn(ch)
	}
}
