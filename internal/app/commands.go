package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/notify"
)

const (
	fetchTimeout      = 30 * time.Second
	pipTimeout        = 10 * time.Second
	thumbnailTimeout  = 5 * time.Second
	nowPlayingTimeout = 5000
)

// fetchCmd runs a catalog request off the update loop.
func (m Model) fetchCmd(seq int, kind fetchKind, term, pageToken string) tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		msg := FetchResultMsg{Seq: seq, Kind: kind}
		switch kind {
		case fetchTrending, fetchMore:
			page, err := cat.Trending(ctx, pageToken)
			msg.Items, msg.NextPage, msg.Err = page.Items, page.NextPageToken, err
		case fetchSearch, fetchCategory:
			msg.Items, msg.Err = cat.Search(ctx, term)
		}
		return msg
	}
}

// waitQueue returns a command that waits for the next queue store change.
func (m Model) waitQueue() tea.Cmd {
	sub := m.queueSub
	return func() tea.Msg {
		select {
		case c := <-sub.Changed:
			return QueueChangedMsg(c)
		case <-sub.Done:
			return StoreClosedMsg{}
		}
	}
}

// waitPlayback returns a command that waits for the next playback change.
func (m Model) waitPlayback() tea.Cmd {
	sub := m.playbackSub
	return func() tea.Msg {
		select {
		case c := <-sub.Changed:
			return PlaybackChangedMsg(c)
		case <-sub.Done:
			return StoreClosedMsg{}
		}
	}
}

// background runs fn off the update loop. Item changes load or release the
// player, which can take seconds.
func background(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// togglePiPCmd opens or closes the picture-in-picture window.
func (m Model) togglePiPCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pipTimeout)
		defer cancel()
		active, err := ctrl.TogglePiP(ctx)
		return PiPToggledMsg{Active: active, Err: err}
	}
}

// nowPlayingCmd announces item on the desktop, replacing the previous
// announcement.
func (m Model) nowPlayingCmd(item media.Item) tea.Cmd {
	desktop, thumbs, replaces := m.desktop, m.thumbs, m.nowPlayingID
	return func() tea.Msg {
		var icon string
		if thumbs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), thumbnailTimeout)
			icon = thumbs.Path(ctx, item)
			cancel()
		}
		id, err := desktop.Notify(notify.Notification{
			Title:      item.Title,
			Body:       item.Attribution,
			Icon:       icon,
			Timeout:    nowPlayingTimeout,
			ReplacesID: replaces,
			Urgency:    notify.UrgencyLow,
		})
		if err != nil {
			logger.WithError(err).Debug("now playing notification failed")
			return nil
		}
		return NowPlayingSentMsg{ID: id}
	}
}
