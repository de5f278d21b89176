package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/queue"
)

// fetchKind says how a fetch result is applied to the library.
type fetchKind int

const (
	fetchSearch   fetchKind = iota // replaces the library, free text
	fetchCategory                  // replaces the library, category bar
	fetchTrending                  // replaces the library, first trending page
	fetchMore                      // appends a further trending page
)

// FetchResultMsg carries a finished catalog request. Seq identifies the
// request; results of superseded requests are dropped.
type FetchResultMsg struct {
	Seq      int
	Kind     fetchKind
	Items    []media.Item
	NextPage string
	Err      error
}

// QueueChangedMsg wraps a queue store change.
type QueueChangedMsg queue.Change

// PlaybackChangedMsg wraps a playback store change.
type PlaybackChangedMsg playback.Change

// StoreClosedMsg is sent when a store subscription ends.
type StoreClosedMsg struct{}

// PiPToggledMsg is sent after picture-in-picture was opened or closed.
type PiPToggledMsg struct {
	Active bool
	Err    error
}

// NowPlayingSentMsg records the desktop notification ID to replace on the
// next item change.
type NowPlayingSentMsg struct {
	ID uint32
}

// NoticeMsg is a message for the notice bar.
type NoticeMsg string

// Notification represents a temporary notification message.
type Notification struct {
	ID      int64
	Message string
}

// NotificationClearMsg is sent to clear a specific notification after a delay.
type NotificationClearMsg struct {
	ID int64
}

// NotificationDuration is how long notifications are displayed.
const NotificationDuration = 4 * time.Second

// NotificationClearCmd returns a command that clears the notification after a delay.
func NotificationClearCmd(id int64) tea.Cmd {
	return tea.Tick(NotificationDuration, func(time.Time) tea.Msg {
		return NotificationClearMsg{ID: id}
	})
}
