// internal/player/interface.go
package player

import (
	"context"
	"time"

	"github.com/llehouerou/tubewaves/internal/media"
)

// Instance is one underlying media player (an mpv process, a test double).
// Positions are relative to the loaded item's window start.
type Instance interface {
	Load(ctx context.Context, item media.Item) error
	Play() error
	Pause() error
	Playing() (bool, error)
	Position() (time.Duration, error)
	Length() (time.Duration, error)
	SeekTo(position time.Duration) error
	SetVolume(volume int) error
	SetMuted(muted bool) error
	Muted() (bool, error)
	Stream() (Stream, error)
	Events() <-chan Event
	Close() error
}

// VideoSwitcher is implemented by instances that can hide their video
// output while audio keeps playing.
type VideoSwitcher interface {
	SetVideo(enabled bool) error
}

// Stream is a capturable source for a secondary display surface.
type Stream struct {
	URL      string
	Title    string
	Position time.Duration // absolute offset into the media
}

// Valid reports whether the stream can be opened.
func (s Stream) Valid() bool {
	return s.URL != ""
}

// EventKind identifies what an instance reported.
type EventKind int

const (
	EventReady EventKind = iota
	EventStateChanged
	EventEnded
	EventError
	EventClosed
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "Ready"
	case EventStateChanged:
		return "StateChanged"
	case EventEnded:
		return "Ended"
	case EventError:
		return "Error"
	case EventClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Event is emitted by an instance and forwarded by the facade.
type Event struct {
	Kind    EventKind
	Playing bool  // EventStateChanged
	Err     error // EventError

	// Generation identifies the binding the event belongs to.
	// Set by the facade; instances leave it zero.
	Generation uint64
}

// Verify implementations at compile time.
var (
	_ Instance      = (*MPV)(nil)
	_ VideoSwitcher = (*MPV)(nil)
	_ Instance      = (*Mock)(nil)
	_ VideoSwitcher = (*Mock)(nil)
)
