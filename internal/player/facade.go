// internal/player/facade.go
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/media"
)

// ErrUnbound is returned by Load when no instance is bound.
var ErrUnbound = errors.New("no player instance bound")

var logger = logrus.WithField("component", "player")

// Facade routes control operations to the single bound Instance.
//
// Every control method is safe to call in any Status: outside Ready it
// does nothing and returns a zero value. Errors reported by the instance
// are logged and swallowed.
type Facade struct {
	mu       sync.RWMutex
	status   Status
	inst     Instance
	gen      uint64
	stop     chan struct{} // closes the watcher of inst
	listener func(Event)
}

// NewFacade creates an unbound facade.
func NewFacade() *Facade {
	return &Facade{}
}

// SetListener sets the function receiving forwarded instance events.
// It is called on the facade's watcher goroutine, without locks held.
func (f *Facade) SetListener(fn func(Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = fn
}

// Status returns the current binding status.
func (f *Facade) Status() Status {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.status
}

// Generation returns the current binding generation. It changes on every
// Bind and Load, so callers can tell a stale binding from the current one.
func (f *Facade) Generation() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gen
}

// Bind attaches inst, replacing (and closing) any previous instance.
func (f *Facade) Bind(inst Instance) {
	f.mu.Lock()
	old := f.detachLocked()
	f.inst = inst
	f.status = StatusLoading
	f.gen++
	f.stop = make(chan struct{})
	go f.watch(inst, f.stop)
	f.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logger.WithError(err).Warn("close replaced instance")
		}
	}
}

// Load asks the bound instance to load item and returns the new
// generation. The facade stays Loading until the instance reports ready.
func (f *Facade) Load(ctx context.Context, item media.Item) (uint64, error) {
	f.mu.Lock()
	inst := f.inst
	if inst == nil {
		f.mu.Unlock()
		return 0, ErrUnbound
	}
	f.gen++
	gen := f.gen
	f.status = StatusLoading
	f.mu.Unlock()

	if err := inst.Load(ctx, item); err != nil {
		return gen, fmt.Errorf("load %s: %w", item.ID, err)
	}
	return gen, nil
}

// Unbind detaches and closes the bound instance. Safe to call when unbound.
func (f *Facade) Unbind() error {
	f.mu.Lock()
	old := f.detachLocked()
	f.gen++
	f.mu.Unlock()

	if old == nil {
		return nil
	}
	return old.Close()
}

func (f *Facade) detachLocked() Instance {
	old := f.inst
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
	f.inst = nil
	f.status = StatusUnbound
	return old
}

func (f *Facade) watch(inst Instance, stop <-chan struct{}) {
	events := inst.Events()
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				f.handle(inst, Event{Kind: EventClosed})
				return
			}
			f.handle(inst, ev)
		}
	}
}

// handle updates the status for ev and forwards it. Events from an
// instance that is no longer bound are dropped, as is an end of track
// reported while loading: it belongs to the previous source.
func (f *Facade) handle(inst Instance, ev Event) {
	f.mu.Lock()
	if f.inst != inst {
		f.mu.Unlock()
		return
	}
	switch ev.Kind {
	case EventReady:
		// A source replaced by a later Load may report ready before the
		// current one does. Every ready is forwarded so listeners reapply
		// their settings to whatever source ends up playing.
		f.status = StatusReady
	case EventEnded:
		if f.status != StatusReady {
			f.mu.Unlock()
			return
		}
	case EventClosed:
		f.detachLocked()
	case EventStateChanged, EventError:
	}
	ev.Generation = f.gen
	fn := f.listener
	f.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"event":      ev.Kind.String(),
		"generation": ev.Generation,
	}).Debug("instance event")

	if ev.Kind == EventClosed {
		_ = inst.Close()
	}
	if fn != nil {
		fn(ev)
	}
}

// controls returns the instance only when it may receive commands.
func (f *Facade) controls() (Instance, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.status != StatusReady || f.inst == nil {
		return nil, false
	}
	return f.inst, true
}

func logFailure(op string, err error) {
	if err != nil {
		logger.WithError(err).WithField("op", op).Debug("instance command failed")
	}
}

// IsPlaying returns true iff the instance reports it is playing.
func (f *Facade) IsPlaying() bool {
	inst, ok := f.controls()
	if !ok {
		return false
	}
	playing, err := inst.Playing()
	if err != nil {
		logFailure("playing", err)
		return false
	}
	return playing
}

// TogglePlay pauses when playing, plays otherwise.
func (f *Facade) TogglePlay() {
	inst, ok := f.controls()
	if !ok {
		return
	}
	playing, err := inst.Playing()
	if err != nil {
		logFailure("playing", err)
		return
	}
	if playing {
		logFailure("pause", inst.Pause())
	} else {
		logFailure("play", inst.Play())
	}
}

// CurrentTime returns the playhead relative to the item window start.
func (f *Facade) CurrentTime() time.Duration {
	inst, ok := f.controls()
	if !ok {
		return 0
	}
	pos, err := inst.Position()
	if err != nil {
		logFailure("position", err)
		return 0
	}
	return pos
}

// Duration returns the instance's reported length.
func (f *Facade) Duration() time.Duration {
	inst, ok := f.controls()
	if !ok {
		return 0
	}
	d, err := inst.Length()
	if err != nil {
		logFailure("length", err)
		return 0
	}
	return d
}

// SeekTo moves the playhead to position, relative to the window start.
func (f *Facade) SeekTo(position time.Duration) {
	inst, ok := f.controls()
	if !ok {
		return
	}
	logFailure("seek", inst.SeekTo(max(position, 0)))
}

// SetVolume sets the output volume, clamped to [0, 100].
func (f *Facade) SetVolume(volume int) {
	inst, ok := f.controls()
	if !ok {
		return
	}
	logFailure("volume", inst.SetVolume(min(max(volume, 0), 100)))
}

// Mute silences output without changing the volume level.
func (f *Facade) Mute() {
	inst, ok := f.controls()
	if !ok {
		return
	}
	logFailure("mute", inst.SetMuted(true))
}

// Unmute restores output at the current volume level.
func (f *Facade) Unmute() {
	inst, ok := f.controls()
	if !ok {
		return
	}
	logFailure("unmute", inst.SetMuted(false))
}

// IsMuted reports the instance's mute state.
func (f *Facade) IsMuted() bool {
	inst, ok := f.controls()
	if !ok {
		return false
	}
	muted, err := inst.Muted()
	if err != nil {
		logFailure("muted", err)
		return false
	}
	return muted
}

// CaptureStream returns a stream a secondary display can open.
// Returns false if unsupported or not ready.
func (f *Facade) CaptureStream() (Stream, bool) {
	inst, ok := f.controls()
	if !ok {
		return Stream{}, false
	}
	s, err := inst.Stream()
	if err != nil {
		logFailure("stream", err)
		return Stream{}, false
	}
	return s, s.Valid()
}

// SetVideoEnabled shows or hides video output when the instance supports it.
func (f *Facade) SetVideoEnabled(enabled bool) {
	inst, ok := f.controls()
	if !ok {
		return
	}
	if vs, ok := inst.(VideoSwitcher); ok {
		logFailure("video", vs.SetVideo(enabled))
	}
}
