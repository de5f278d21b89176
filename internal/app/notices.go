package app

import (
	"slices"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubewaves/internal/notify"
)

const noticeBuffer = 16

// Notices is a notify.Notifier that shows notifications in the notice bar.
// Combine it with a desktop notifier using notify.Fanout.
type Notices struct {
	ch     chan string
	nextID atomic.Uint32
}

// NewNotices creates an empty notice feed.
func NewNotices() *Notices {
	return &Notices{ch: make(chan string, noticeBuffer)}
}

// Notify queues n for display. A full feed drops the notice.
func (n *Notices) Notify(note notify.Notification) (uint32, error) {
	msg := note.Body
	if msg == "" {
		msg = note.Title
	}
	select {
	case n.ch <- msg:
	default:
	}
	return n.nextID.Add(1), nil
}

// Close is a no-op; notices expire on their own.
func (n *Notices) Close(uint32) error { return nil }

// Wait returns a command that delivers the next notice.
func (n *Notices) Wait() tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(<-n.ch)
	}
}

// maxNotifications bounds the notice history kept for display.
const maxNotifications = 5

// addNotification shows text in the notice bar and schedules its removal.
func (m *Model) addNotification(text string) tea.Cmd {
	m.nextNoticeID++
	id := m.nextNoticeID
	m.Notifications = append(m.Notifications, Notification{ID: id, Message: text})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	return NotificationClearCmd(id)
}

func (m *Model) removeNotification(id int64) {
	m.Notifications = slices.DeleteFunc(m.Notifications, func(n Notification) bool {
		return n.ID == id
	})
}
