//go:build !linux

package mpris

import (
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/queue"
	"github.com/llehouerou/tubewaves/internal/session"
)

// Adapter does nothing where there is no session bus.
type Adapter struct{}

func New(*session.Controller, *playback.Store, *queue.Store) (*Adapter, error) {
	return &Adapter{}, nil
}

func (*Adapter) Close() error { return nil }
