package session

import (
	"context"
	"math"
	"time"

	"github.com/llehouerou/tubewaves/internal/errmsg"
	"github.com/llehouerou/tubewaves/internal/pip"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/player"
)

// current returns the window start of the bound item.
func (c *Controller) current() (start time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.item == nil {
		return 0, false
	}
	return c.item.Start, true
}

func (c *Controller) ready() bool {
	return c.facade.Status() == player.StatusReady
}

// Seek jumps to fraction of the item window. Fractions are clamped to
// [0, 1]; non-finite values are ignored.
func (c *Controller) Seek(fraction float64) {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return
	}
	fraction = min(max(fraction, 0), 1)

	start, ok := c.current()
	if !ok || !c.ready() {
		return
	}
	target := time.Duration(fraction * float64(c.store.Duration()))
	c.facade.SeekTo(target)
	c.store.SetCurrentTime(start + target)
}

// SeekAt seeks to the position x on a progress bar width wide.
func (c *Controller) SeekAt(x, width float64) {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return
	}
	c.Seek(x / width)
}

// SeekBy moves the playhead by delta, clamped to the item window.
func (c *Controller) SeekBy(delta time.Duration) {
	start, ok := c.current()
	if !ok {
		return
	}
	c.SeekTo(c.store.CurrentTime() - start + delta)
}

// SeekTo jumps to position relative to the item window start, clamped to
// the window.
func (c *Controller) SeekTo(position time.Duration) {
	start, ok := c.current()
	if !ok || !c.ready() {
		return
	}
	target := min(max(position, 0), c.store.Duration())
	c.facade.SeekTo(target)
	c.store.SetCurrentTime(start + target)
}

// SetVolume sets the volume, clamped to [0, 100]. Zero mutes; a nonzero
// volume while muted unmutes.
func (c *Controller) SetVolume(volume int) {
	volume = min(max(volume, 0), 100)

	c.mu.Lock()
	if volume > 0 {
		c.lastVolume = volume
	}
	c.mu.Unlock()

	c.store.SetVolume(volume)
	c.facade.SetVolume(volume)
	switch {
	case volume == 0:
		c.facade.Mute()
		c.store.SetIsMuted(true)
	case c.store.IsMuted():
		c.facade.Unmute()
		c.store.SetIsMuted(false)
	}
	c.restartSampler()
}

// AdjustVolume changes the volume by delta.
func (c *Controller) AdjustVolume(delta int) {
	c.SetVolume(c.store.Volume() + delta)
}

// ToggleMute flips mute. Unmuting at volume zero restores the last nonzero
// volume.
func (c *Controller) ToggleMute() {
	if !c.store.IsMuted() {
		c.facade.Mute()
		c.store.SetIsMuted(true)
		c.restartSampler()
		return
	}

	if c.store.Volume() == 0 {
		c.mu.Lock()
		restore := c.lastVolume
		c.mu.Unlock()
		c.store.SetVolume(restore)
		c.facade.SetVolume(restore)
	}
	c.facade.Unmute()
	c.store.SetIsMuted(false)
	c.restartSampler()
}

// TogglePlay pauses or resumes. Without a ready instance it does nothing.
func (c *Controller) TogglePlay() {
	if !c.ready() {
		return
	}
	c.facade.TogglePlay()
	c.store.SetIsPlaying(!c.store.IsPlaying())
}

// ToggleDisplayMode switches between video and audio-only output.
func (c *Controller) ToggleDisplayMode() playback.DisplayMode {
	mode := c.store.DisplayMode().Toggle()
	c.store.SetDisplayMode(mode)
	c.facade.SetVideoEnabled(mode == playback.ModeVideo)
	return mode
}

// Next makes the queue front current. No-op on an empty queue.
func (c *Controller) Next() bool {
	_, ok := c.queue.Advance()
	return ok
}

// Previous makes the preceding library item current.
func (c *Controller) Previous() bool {
	_, ok := c.queue.Rewind()
	return ok
}

// TogglePiP opens or closes the picture-in-picture window and reports
// whether it is open afterwards. Failures are reported to the user and
// leave transport untouched.
func (c *Controller) TogglePiP(ctx context.Context) (bool, error) {
	if c.pip == nil {
		c.report(errmsg.OpPiPEnter, pip.ErrUnsupported)
		return false, pip.ErrUnsupported
	}
	wasActive := c.pip.Active()
	active, err := c.pip.Toggle(ctx, c.facade.CaptureStream)
	if err != nil {
		op := errmsg.OpPiPEnter
		if wasActive {
			op = errmsg.OpPiPExit
		}
		c.report(op, err)
	}
	return active, err
}

// ExitPiP closes the picture-in-picture window. Idempotent.
func (c *Controller) ExitPiP() error {
	if c.pip == nil {
		return nil
	}
	if err := c.pip.Exit(); err != nil {
		c.report(errmsg.OpPiPExit, err)
		return err
	}
	return nil
}

// PiPActive reports whether the picture-in-picture window is open.
func (c *Controller) PiPActive() bool {
	return c.pip != nil && c.pip.Active()
}
