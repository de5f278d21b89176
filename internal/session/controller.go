// Package session binds the selected item to a player instance and keeps
// the playback store in step with it.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/errmsg"
	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/notify"
	"github.com/llehouerou/tubewaves/internal/pip"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/player"
	"github.com/llehouerou/tubewaves/internal/queue"
)

// DefaultPollInterval is the period of the position sampling loop.
const DefaultPollInterval = 500 * time.Millisecond

const noticeTimeout = 5000

var logger = logrus.WithField("component", "session")

// Launcher starts a player instance. mode is the display mode at launch.
type Launcher func(ctx context.Context, mode playback.DisplayMode) (player.Instance, error)

// Deps are the collaborators a Controller orchestrates.
type Deps struct {
	Facade *player.Facade
	Store  *playback.Store
	Queue  *queue.Store
	Launch Launcher
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval sets the sampling period.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithPiP enables picture-in-picture through m.
func WithPiP(m *pip.Manager) Option {
	return func(c *Controller) { c.pip = m }
}

// WithNotifier sets where failures are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// Controller is the only writer of transport state. It loads the queue's
// current item into the facade, samples position while an item is active,
// and advances the queue when an item ends.
type Controller struct {
	facade   *player.Facade
	store    *playback.Store
	queue    *queue.Store
	launch   Launcher
	pip      *pip.Manager
	notifier notify.Notifier
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	// loadMu serializes item changes, which may arrive from the UI and from
	// the facade's watcher (auto-advance).
	loadMu sync.Mutex

	mu         sync.Mutex
	item       *media.Item
	gen        uint64 // facade generation of the current load
	endedGen   uint64 // generation whose end already advanced the queue
	lastVolume int    // last nonzero volume, restored on unmute
	sampler    *sampler
	closed     bool
}

// New creates a controller. Call Start to begin following the queue.
func New(deps Deps, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		facade:     deps.Facade,
		store:      deps.Store,
		queue:      deps.Queue,
		launch:     deps.Launch,
		notifier:   notify.Discard,
		interval:   DefaultPollInterval,
		ctx:        ctx,
		cancel:     cancel,
		lastVolume: playback.DefaultVolume,
	}
	if v := deps.Store.Volume(); v > 0 {
		c.lastVolume = v
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start subscribes to facade events and current-item changes, and loads
// the current item if there is one.
func (c *Controller) Start() {
	c.facade.SetListener(c.onEvent)
	c.queue.OnCurrentChange(c.onItemChange)
	c.queue.OnReselect(c.onReselect)
	if cur, ok := c.queue.Current(); ok {
		c.onItemChange(nil, &cur)
	}
}

// Close stops sampling, exits picture-in-picture and releases the player
// instance. Later item changes are ignored.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopSamplerLocked()
	c.mu.Unlock()

	_ = c.ExitPiP()
	c.cancel()

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	c.facade.SetListener(nil)
	return c.facade.Unbind()
}

func (c *Controller) onItemChange(_, cur *media.Item) {
	if cur == nil {
		c.unload()
		return
	}
	c.load(*cur)
}

// onReselect reloads the current item when its instance is gone or never
// became ready, so a failed or closed player recovers by selecting again.
func (c *Controller) onReselect(item media.Item) {
	if c.facade.Status() == player.StatusReady {
		return
	}
	c.load(item)
}

// load binds item. Observers run outside the queue lock, so changes may
// arrive here out of order; a change the queue has since superseded is
// dropped.
func (c *Controller) load(item media.Item) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if cur, ok := c.queue.Current(); !ok || cur.ID != item.ID {
		logger.WithField("id", item.ID).Debug("dropping superseded item change")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopSamplerLocked()
	c.item = &item
	c.mu.Unlock()

	c.store.Reset(item.Start, item.Length())

	log := logger.WithFields(logrus.Fields{"id": item.ID, "title": item.Title})

	if c.facade.Status() == player.StatusUnbound {
		inst, err := c.launch(c.ctx, c.store.DisplayMode())
		if err != nil {
			if c.ctx.Err() == nil {
				c.report(errmsg.OpPlayerLaunch, err)
			}
			return
		}
		c.facade.Bind(inst)
	}

	gen, err := c.facade.Load(c.ctx, item)
	if err != nil {
		c.report(errmsg.OpPlaybackStart, err)
		return
	}
	log.WithField("generation", gen).Info("loading item")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.gen = gen
	c.startSamplerLocked()
}

func (c *Controller) unload() {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if _, ok := c.queue.Current(); ok {
		return
	}

	c.mu.Lock()
	c.stopSamplerLocked()
	c.item = nil
	c.mu.Unlock()

	if err := c.facade.Unbind(); err != nil {
		logger.WithError(err).Warn("release player instance")
	}
	c.store.SetIsPlaying(false)
}

// onEvent runs on the facade's watcher goroutine. The facade only forwards
// events of the bound instance, tagged with the current generation.
func (c *Controller) onEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventReady:
		c.applyAudio()
		c.facade.SetVideoEnabled(c.store.DisplayMode() == playback.ModeVideo)
		c.store.SetIsPlaying(c.facade.IsPlaying())
	case player.EventStateChanged:
		c.store.SetIsPlaying(ev.Playing)
	case player.EventEnded:
		c.mu.Lock()
		if c.closed || ev.Generation == c.endedGen {
			c.mu.Unlock()
			return
		}
		c.endedGen = ev.Generation
		c.mu.Unlock()

		c.store.SetIsPlaying(false)
		if next, ok := c.queue.Advance(); ok {
			logger.WithField("id", next.ID).Debug("advanced to next item")
		}
	case player.EventError:
		c.report(errmsg.OpPlaybackStart, ev.Err)
	case player.EventClosed:
		c.mu.Lock()
		c.stopSamplerLocked()
		c.mu.Unlock()
		c.store.SetIsPlaying(false)
		logger.Info("player instance closed")
	}
}

// applyAudio pushes the stored volume and mute state to the instance.
func (c *Controller) applyAudio() {
	st := c.store.Snapshot()
	c.facade.SetVolume(st.Volume)
	if st.Muted {
		c.facade.Mute()
	} else {
		c.facade.Unmute()
	}
}

func (c *Controller) report(op errmsg.Op, err error) {
	if err == nil {
		return
	}
	logger.WithError(err).WithField("op", string(op)).Warn("session command failed")
	_, nerr := c.notifier.Notify(notify.Notification{
		Title:   "TubeWaves",
		Body:    errmsg.Format(op, err),
		Timeout: noticeTimeout,
		Urgency: notify.UrgencyNormal,
	})
	if nerr != nil {
		logger.WithError(nerr).Debug("notify failed")
	}
}
