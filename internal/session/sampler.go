package session

import (
	"context"
	"time"

	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/player"
)

type sampler struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startSamplerLocked starts sampling the current item. c.mu must be held.
func (c *Controller) startSamplerLocked() {
	if c.item == nil || c.closed {
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	s := &sampler{cancel: cancel, done: make(chan struct{})}
	c.sampler = s
	go c.sample(ctx, s.done, *c.item, c.gen)
}

// stopSamplerLocked stops the loop and waits for its last write. c.mu must
// be held.
func (c *Controller) stopSamplerLocked() {
	if c.sampler == nil {
		return
	}
	c.sampler.cancel()
	<-c.sampler.done
	c.sampler = nil
}

func (c *Controller) restartSampler() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sampler == nil {
		return
	}
	c.stopSamplerLocked()
	c.startSamplerLocked()
}

func (c *Controller) sample(ctx context.Context, done chan<- struct{}, item media.Item, gen uint64) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(item, gen)
		}
	}
}

// tick publishes position and playing state read together. Ticks for a
// binding that has since been replaced write nothing.
func (c *Controller) tick(item media.Item, gen uint64) {
	if c.facade.Status() != player.StatusReady || c.facade.Generation() != gen {
		return
	}
	pos := c.facade.CurrentTime()
	playing := c.facade.IsPlaying()
	c.store.Sample(item.Start+pos, playing)
}
