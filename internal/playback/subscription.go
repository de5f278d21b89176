// internal/playback/subscription.go
package playback

const eventBufferSize = 16

// Field names the part of the state a change touched.
type Field int

const (
	FieldPlaying Field = 1 << iota
	FieldCurrentTime
	FieldDuration
	FieldVolume
	FieldMuted
	FieldMode
)

// Change is emitted after every store mutation.
type Change struct {
	Fields Field
	State  State
}

// Has reports whether the change touched f.
func (c Change) Has(f Field) bool {
	return c.Fields&f != 0
}

// Subscription delivers store changes to one subscriber.
//
// Sends never block: when the buffer is full the change is dropped.
// A subscriber that falls behind still holds pending changes and should
// read Store.Snapshot for the latest state.
type Subscription struct {
	Changed <-chan Change
	Done    <-chan struct{}

	changeCh chan Change
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		changeCh: make(chan Change, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Changed = s.changeCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) send(c Change) {
	select {
	case s.changeCh <- c:
	default:
		// Drop if buffer full
	}
}
