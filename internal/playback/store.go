// internal/playback/store.go
package playback

import (
	"sync"
	"time"
)

// DefaultVolume is the volume of a fresh store.
const DefaultVolume = 80

// Store is the process-wide transport state, independent of any player
// instance. Setters do no validation beyond clamping volume; callers keep
// the values semantically consistent.
type Store struct {
	mu    sync.RWMutex
	state State

	subsMu sync.Mutex
	subs   []*Subscription
	closed bool
}

// NewStore creates a store with the default volume, unmuted, in video mode.
func NewStore() *Store {
	return &Store{state: State{Volume: DefaultVolume, Mode: ModeVideo}}
}

// NewStoreWith creates a store seeded with initial preferences.
func NewStoreWith(volume int, muted bool, mode DisplayMode) *Store {
	return &Store{state: State{Volume: clampVolume(volume), Muted: muted, Mode: mode}}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsPlaying() bool            { return s.Snapshot().Playing }
func (s *Store) CurrentTime() time.Duration { return s.Snapshot().CurrentTime }
func (s *Store) Duration() time.Duration    { return s.Snapshot().Duration }
func (s *Store) Volume() int                { return s.Snapshot().Volume }
func (s *Store) IsMuted() bool              { return s.Snapshot().Muted }
func (s *Store) DisplayMode() DisplayMode   { return s.Snapshot().Mode }

func (s *Store) SetIsPlaying(playing bool) {
	s.update(FieldPlaying, func(st *State) { st.Playing = playing })
}

func (s *Store) SetCurrentTime(t time.Duration) {
	s.update(FieldCurrentTime, func(st *State) { st.CurrentTime = t })
}

func (s *Store) SetDuration(d time.Duration) {
	s.update(FieldDuration, func(st *State) { st.Duration = d })
}

// SetVolume stores volume clamped to [0, 100].
func (s *Store) SetVolume(volume int) {
	s.update(FieldVolume, func(st *State) { st.Volume = clampVolume(volume) })
}

func (s *Store) SetIsMuted(muted bool) {
	s.update(FieldMuted, func(st *State) { st.Muted = muted })
}

func (s *Store) SetDisplayMode(mode DisplayMode) {
	s.update(FieldMode, func(st *State) { st.Mode = mode })
}

// Sample publishes a position and playing flag read in the same tick as
// one change.
func (s *Store) Sample(currentTime time.Duration, playing bool) {
	s.update(FieldCurrentTime|FieldPlaying, func(st *State) {
		st.CurrentTime = currentTime
		st.Playing = playing
	})
}

// Reset sets position and duration for a newly active item.
func (s *Store) Reset(currentTime, duration time.Duration) {
	s.update(FieldCurrentTime|FieldDuration, func(st *State) {
		st.CurrentTime = currentTime
		st.Duration = duration
	})
}

func (s *Store) update(fields Field, fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	s.mu.Unlock()

	s.publish(Change{Fields: fields, State: snapshot})
}

func (s *Store) publish(c Change) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.send(c)
	}
}

// Subscribe registers a new subscriber. After Close the subscription is
// returned already done.
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

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}
