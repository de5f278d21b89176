// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/tubewaves/internal/media"
)

const mockEventBuffer = 16

// Mock is a test double for Instance. It is safe for concurrent use.
type Mock struct {
	mu       sync.Mutex
	playing  bool
	muted    bool
	volume   int
	video    bool
	position time.Duration
	length   time.Duration
	stream   Stream
	loadErr  error
	queryErr error

	loads      []media.Item
	seekCalls  []time.Duration
	volumeSets []int
	closeCalls int

	events chan Event
	closed bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		volume: 100,
		video:  true,
		events: make(chan Event, mockEventBuffer),
	}
}

func (m *Mock) Load(_ context.Context, item media.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, item)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.position = 0
	m.length = item.Length()
	m.playing = true
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	return nil
}

func (m *Mock) Playing() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing, m.queryErr
}

func (m *Mock) Position() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, m.queryErr
}

func (m *Mock) Length() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length, m.queryErr
}

func (m *Mock) SeekTo(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, position)
	m.position = position
	return nil
}

func (m *Mock) SetVolume(volume int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumeSets = append(m.volumeSets, volume)
	m.volume = volume
	return nil
}

func (m *Mock) SetMuted(muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	return nil
}

func (m *Mock) Muted() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted, m.queryErr
}

func (m *Mock) Stream() (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream, m.queryErr
}

func (m *Mock) SetVideo(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.video = enabled
	return nil
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

// Close closes the event channel. Safe to call more than once.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	if !m.closed {
		m.closed = true
		close(m.events)
	}
	return nil
}

// Test helpers

// Emit delivers ev to the facade watching this instance.
// Dropped after Close or when the buffer is full.
func (m *Mock) Emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}

func (m *Mock) SetPlaying(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = playing
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetLength(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.length = d
}

func (m *Mock) SetStream(s Stream) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stream = s
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryErr = err
}

func (m *Mock) Loads() []media.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]media.Item(nil), m.loads...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) VolumeSets() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.volumeSets...)
}

func (m *Mock) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) MutedState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) VideoEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.video
}

func (m *Mock) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}
