package dom

import (
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Listener receives events. Listener values are compared with ==, so
// implementations must be comparable; pointer receivers are the usual choice.
// The store refuses listeners whose dynamic type is not comparable.
// https://dom.spec.whatwg.org/#callbackdef-eventlistener
type Listener interface {
	HandleEvent(ev *Event)
}

type funcListener struct {
	fn func(*Event)
}

func (l *funcListener) HandleEvent(ev *Event) { l.fn(ev) }

// NewListener wraps fn. Keep the returned value to remove the listener later;
// two calls with the same func yield distinct listeners.
func NewListener(fn func(ev *Event)) Listener {
	return &funcListener{fn: fn}
}

type ListenerEntry struct {
	Type     string
	Capture  bool
	Listener Listener
}

// ListenerStore is the per-target ordered multimap of registered listeners.
// Per-type slices are copy-on-write: every mutation installs a new slice, so
// a snapshot taken by a running dispatch never changes under it.
type ListenerStore struct {
	byType *orderedmap.OrderedMap[string, []ListenerEntry]
	count  int
}

func NewListenerStore() *ListenerStore {
	return &ListenerStore{
		byType: orderedmap.New[string, []ListenerEntry](),
	}
}

// Add registers (eventType, l, capture). It reports false, without side
// effects, if the same triple is already registered, l is nil, or l cannot
// be compared.
func (s *ListenerStore) Add(eventType string, l Listener, capture bool) bool {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return false
	}
	entries, _ := s.byType.Get(eventType)
	if indexOf(entries, l, capture) >= 0 {
		return false
	}
	next := make([]ListenerEntry, len(entries), len(entries)+1)
	copy(next, entries)
	next = append(next, ListenerEntry{Type: eventType, Capture: capture, Listener: l})
	s.byType.Set(eventType, next)
	s.count++
	return true
}

// Remove unregisters the matching triple and reports whether it was found.
func (s *ListenerStore) Remove(eventType string, l Listener, capture bool) bool {
	entries, ok := s.byType.Get(eventType)
	if !ok {
		return false
	}
	i := indexOf(entries, l, capture)
	if i < 0 {
		return false
	}
	s.count--
	if len(entries) == 1 {
		s.byType.Delete(eventType)
		return true
	}
	next := make([]ListenerEntry, 0, len(entries)-1)
	next = append(next, entries[:i]...)
	next = append(next, entries[i+1:]...)
	s.byType.Set(eventType, next)
	return true
}

// EntriesFor returns a copy of the listeners for eventType in registration order.
func (s *ListenerStore) EntriesFor(eventType string) []ListenerEntry {
	entries := s.snapshot(eventType)
	if len(entries) == 0 {
		return nil
	}
	out := make([]ListenerEntry, len(entries))
	copy(out, entries)
	return out
}

// snapshot returns the live copy-on-write slice. Callers must not modify it.
func (s *ListenerStore) snapshot(eventType string) []ListenerEntry {
	if s == nil {
		return nil
	}
	entries, _ := s.byType.Get(eventType)
	return entries
}

// Types returns the registered event types in first-registration order.
func (s *ListenerStore) Types() []string {
	types := make([]string, 0, s.byType.Len())
	for pair := s.byType.Oldest(); pair != nil; pair = pair.Next() {
		types = append(types, pair.Key)
	}
	return types
}

func (s *ListenerStore) HasType(eventType string) bool {
	_, ok := s.byType.Get(eventType)
	return ok
}

// Len returns the number of listeners across all types.
func (s *ListenerStore) Len() int { return s.count }

func (s *ListenerStore) Clear() {
	s.byType = orderedmap.New[string, []ListenerEntry]()
	s.count = 0
}

func indexOf(entries []ListenerEntry, l Listener, capture bool) int {
	for i, e := range entries {
		if e.Capture == capture && e.Listener == l {
			return i
		}
	}
	return -1
}
