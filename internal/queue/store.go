// Package queue holds the library of candidate videos, the play queue and
// the currently selected item.
package queue

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/llehouerou/tubewaves/internal/media"
)

// User-facing status messages.
const (
	MsgNoResults     = "No videos found for your search. Try different keywords."
	MsgNoCategoryFmt = "No %s videos found. Try a different category."
	MsgFailedToLoad  = "Failed to load videos. Please try again later."
)

// Status describes the last library fetch.
type Status struct {
	Term     string
	Category string // empty unless the fetch came from the category bar
	Loading  bool
	Err      string
}

// CurrentObserver is called after the current item changes. A nil
// pointer means no item.
type CurrentObserver func(prev, cur *media.Item)

// ReselectObserver is called when the current item is selected again.
type ReselectObserver func(item media.Item)

// Store owns the library, the queue and the current item.
//
// Invariants: the queue never holds two items with the same ID; the
// current item need not be in the queue or the library.
type Store struct {
	mu      sync.RWMutex
	library []media.Item
	queue   []media.Item
	current *media.Item
	status  Status

	obsMu      sync.RWMutex
	observers  []CurrentObserver
	reselected []ReselectObserver

	subsMu sync.Mutex
	subs   []*Subscription
	closed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// OnCurrentChange registers fn. Observers run synchronously on the
// mutating goroutine, after the store lock is released, so they may call
// back into the store.
func (s *Store) OnCurrentChange(fn CurrentObserver) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

// OnReselect registers fn, called like OnCurrentChange observers when
// Select is given the item that is already current.
func (s *Store) OnReselect(fn ReselectObserver) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.reselected = append(s.reselected, fn)
}

// Library returns a copy of the library in relevance order.
func (s *Store) Library() []media.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]media.Item(nil), s.library...)
}

// Queue returns a copy of the queue, front first.
func (s *Store) Queue() []media.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]media.Item(nil), s.queue...)
}

// QueueLen returns the number of queued items.
func (s *Store) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue)
}

// Current returns the selected item, if any.
func (s *Store) Current() (media.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return media.Item{}, false
	}
	return *s.current, true
}

// IsCurrent reports whether id is the selected item.
func (s *Store) IsCurrent(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.ID == id
}

// Status returns the last fetch status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetLibrary replaces the library wholesale.
func (s *Store) SetLibrary(items []media.Item) {
	s.mu.Lock()
	s.library = append([]media.Item(nil), items...)
	s.mu.Unlock()
	s.publish(PartLibrary)
}

// AppendLibrary adds a further page, skipping IDs already present.
func (s *Store) AppendLibrary(items []media.Item) {
	s.mu.Lock()
	s.library = lo.UniqBy(append(s.library, items...), itemID)
	s.mu.Unlock()
	s.publish(PartLibrary)
}

// BeginSearch marks a fetch for term as in flight. category is empty for
// free-text searches.
func (s *Store) BeginSearch(term, category string) {
	s.mu.Lock()
	s.status = Status{Term: term, Category: category, Loading: true}
	s.mu.Unlock()
	s.publish(PartStatus)
}

// FinishSearch completes the fetch started by BeginSearch. A failed fetch
// empties the library. An empty result sets a message worded for the kind
// of fetch.
func (s *Store) FinishSearch(items []media.Item, err error) {
	s.mu.Lock()
	s.status.Loading = false
	switch {
	case err != nil:
		s.library = nil
		s.status.Err = MsgFailedToLoad
	case len(items) == 0:
		s.library = nil
		s.status.Err = MsgNoResults
		if s.status.Category != "" {
			s.status.Err = fmt.Sprintf(MsgNoCategoryFmt, s.status.Category)
		}
	default:
		s.library = append([]media.Item(nil), items...)
		s.status.Err = ""
	}
	s.mu.Unlock()
	s.publish(PartStatus | PartLibrary)
}

// Select makes item current. Selecting the current item again leaves the
// store unchanged and only notifies reselect observers.
func (s *Store) Select(item media.Item) {
	s.mu.Lock()
	if s.current != nil && s.current.ID == item.ID {
		cur := *s.current
		s.mu.Unlock()
		s.reselect(cur)
		return
	}
	prev := s.current
	s.current = &item
	s.mu.Unlock()

	s.currentChanged(prev, &item, PartCurrent)
}

// Clear drops the current item.
func (s *Store) Clear() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		s.currentChanged(prev, nil, PartCurrent)
	}
}

// Enqueue appends item unless an item with the same ID is queued.
// Returns true if the queue grew.
func (s *Store) Enqueue(item media.Item) bool {
	s.mu.Lock()
	if lo.ContainsBy(s.queue, func(q media.Item) bool { return q.ID == item.ID }) {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, item)
	s.mu.Unlock()

	s.publish(PartQueue)
	return true
}

// Dequeue removes the queued item with id. Returns false if absent.
func (s *Store) Dequeue(id string) bool {
	s.mu.Lock()
	_, idx, found := lo.FindIndexOf(s.queue, func(q media.Item) bool { return q.ID == id })
	if !found {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue[:idx:idx], s.queue[idx+1:]...)
	s.mu.Unlock()

	s.publish(PartQueue)
	return true
}

// Advance pops the queue front and makes it current. No-op on an empty
// queue.
func (s *Store) Advance() (media.Item, bool) {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return media.Item{}, false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	prev := s.current
	s.current = &next
	s.mu.Unlock()

	s.currentChanged(prev, &next, PartCurrent|PartQueue)
	return next, true
}

// Rewind makes the library item before the current one current. It uses
// library order, not the queue. No-op without a current item, when the
// current item is not in the library, or at the first index.
func (s *Store) Rewind() (media.Item, bool) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return media.Item{}, false
	}
	id := s.current.ID
	_, idx, found := lo.FindIndexOf(s.library, func(l media.Item) bool { return l.ID == id })
	if !found || idx <= 0 {
		s.mu.Unlock()
		return media.Item{}, false
	}
	prevItem := s.library[idx-1]
	prev := s.current
	s.current = &prevItem
	s.mu.Unlock()

	s.currentChanged(prev, &prevItem, PartCurrent)
	return prevItem, true
}

// HasPrevious reports whether Rewind would change the current item.
func (s *Store) HasPrevious() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return false
	}
	id := s.current.ID
	_, idx, found := lo.FindIndexOf(s.library, func(l media.Item) bool { return l.ID == id })
	return found && idx > 0
}

func (s *Store) currentChanged(prev, cur *media.Item, parts Part) {
	s.publish(parts)

	s.obsMu.RLock()
	observers := append([]CurrentObserver(nil), s.observers...)
	s.obsMu.RUnlock()
	for _, fn := range observers {
		fn(prev, cur)
	}
}

func (s *Store) reselect(item media.Item) {
	s.obsMu.RLock()
	observers := append([]ReselectObserver(nil), s.reselected...)
	s.obsMu.RUnlock()
	for _, fn := range observers {
		fn(item)
	}
}

func (s *Store) publish(parts Part) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.send(Change{Parts: parts})
	}
}

// Subscribe registers a new subscriber.
func (s *Store) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Close signals every subscriber to stop. Idempotent.
func (s *Store) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
}

func itemID(i media.Item) string {
	return i.ID
}
