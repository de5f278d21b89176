package queue

const eventBufferSize = 16

// Part names what a change touched.
type Part int

const (
	PartCurrent Part = 1 << iota
	PartQueue
	PartLibrary
	PartStatus
)

// Change is emitted after every store mutation.
type Change struct {
	Parts Part
}

// Has reports whether the change touched p.
func (c Change) Has(p Part) bool {
	return c.Parts&p != 0
}

// Subscription delivers store changes to one subscriber. Sends never
// block; a full buffer drops the change.
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
	}
}
