package mpris

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/queue"
	"github.com/llehouerou/tubewaves/internal/session"
)

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "TubeWaves", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter over the
// session controller and its stores.
type playerAdapter struct {
	ctrl  *session.Controller
	store *playback.Store
	queue *queue.Store
}

func (p *playerAdapter) Next() error {
	p.ctrl.Next()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.ctrl.Previous()
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.store.IsPlaying() {
		p.ctrl.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.ctrl.TogglePlay()
	return nil
}

// Stop pauses; an item stays selected.
func (p *playerAdapter) Stop() error {
	return p.Pause()
}

func (p *playerAdapter) Play() error {
	if !p.store.IsPlaying() {
		p.ctrl.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.ctrl.SeekBy(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	cur, ok := p.queue.Current()
	if !ok || string(formatTrackID(cur.ID)) != trackID {
		return nil // stale track id, ignored per MPRIS
	}
	p.ctrl.SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	if _, ok := p.queue.Current(); !ok {
		return types.PlaybackStatusStopped, nil
	}
	if p.store.IsPlaying() {
		return types.PlaybackStatusPlaying, nil
	}
	return types.PlaybackStatusPaused, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	item, ok := p.queue.Current()
	if !ok {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: formatTrackID(item.ID),
		Length:  types.Microseconds(item.Length().Microseconds()),
		Title:   item.Title,
		Artist:  []string{item.Attribution},
	}
	if art := item.Thumbnail(); art != "" {
		meta.ArtUrl = art
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if p.store.IsMuted() {
		return 0, nil
	}
	return float64(p.store.Volume()) / 100, nil
}

// SetVolume ignores non-finite levels.
func (p *playerAdapter) SetVolume(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	p.ctrl.SetVolume(int(math.Round(min(max(v, 0), 1) * 100)))
	return nil
}

// Position is relative to the item window start.
func (p *playerAdapter) Position() (int64, error) {
	item, ok := p.queue.Current()
	if !ok {
		return 0, nil
	}
	return max(p.store.CurrentTime()-item.Start, 0).Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.queue.QueueLen() > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.queue.HasPrevious(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	_, ok := p.queue.Current()
	return ok, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(id string) dbus.ObjectPath {
	h := fnv.New64a()
	h.Write([]byte(id))
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64()))
}
