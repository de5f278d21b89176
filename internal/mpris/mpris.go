//go:build linux

// Package mpris exposes the session controller as an MPRIS player named
// org.mpris.MediaPlayer2.tubewaves.
package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/queue"
	"github.com/llehouerou/tubewaves/internal/session"
)

const busSuffix = "tubewaves"

var logger = logrus.WithField("component", "mpris")

// Adapter owns the MPRIS server.
type Adapter struct {
	server *server.Server
}

// New starts serving on the session bus. Bus errors are logged by the
// serving goroutine; the TUI runs without MPRIS then.
func New(ctrl *session.Controller, store *playback.Store, q *queue.Store) (*Adapter, error) {
	srv := server.NewServer(busSuffix, &rootAdapter{}, &playerAdapter{ctrl: ctrl, store: store, queue: q})
	go func() {
		if err := srv.Listen(); err != nil {
			logger.WithError(err).Warn("mpris unavailable")
		}
	}()
	return &Adapter{server: srv}, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}
