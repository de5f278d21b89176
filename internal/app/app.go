// Package app is the terminal interface: search box, category bar, library
// and queue panels, the player bar and a notice line.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/catalog"
	"github.com/llehouerou/tubewaves/internal/keymap"
	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/notify"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/queue"
	"github.com/llehouerou/tubewaves/internal/session"
	"github.com/llehouerou/tubewaves/internal/ui/videolist"
)

var logger = logrus.WithField("component", "app")

// Catalog finds videos to fill the library.
type Catalog interface {
	Search(ctx context.Context, query string) ([]media.Item, error)
	Trending(ctx context.Context, pageToken string) (catalog.Page, error)
}

// Thumbnailer resolves an item's thumbnail to a local file for desktop
// notifications.
type Thumbnailer interface {
	Path(ctx context.Context, item media.Item) string
}

// FocusTarget is the panel receiving list keys.
type FocusTarget int

const (
	FocusLibrary FocusTarget = iota
	FocusQueue
)

// Deps are the collaborators of the interface.
type Deps struct {
	Controller *session.Controller
	Playback   *playback.Store
	Queue      *queue.Store
	Catalog    Catalog
	Notices    *Notices
	Desktop    notify.Notifier // now-playing announcements; nil disables them
	Thumbnails Thumbnailer     // optional
	Query      string          // initial search; empty loads trending
}

// Model is the root application model.
type Model struct {
	ctrl     *session.Controller
	playback *playback.Store
	queue    *queue.Store
	catalog  Catalog
	notices  *Notices
	desktop  notify.Notifier
	thumbs   Thumbnailer
	keys     *keymap.Resolver

	Library    videolist.Model
	QueuePanel videolist.Model
	Focus      FocusTarget

	search    textinput.Model
	Searching bool
	help      help.Model
	ShowHelp  bool

	categories []string
	category   int // index into categories, -1 when none is active

	fetchSeq  int
	fetchKind fetchKind
	nextPage  string

	queueSub    *queue.Subscription
	playbackSub *playback.Subscription

	Notifications []Notification
	nextNoticeID  int64

	nowPlayingID uint32
	announced    string // ID of the item last announced on the desktop

	Width  int
	Height int
}

// New creates the model and marks the initial fetch as in flight.
func New(deps Deps) Model {
	search := textinput.New()
	search.Placeholder = "Search videos"
	search.Prompt = "/ "
	search.CharLimit = 200

	notices := deps.Notices
	if notices == nil {
		notices = NewNotices()
	}

	m := Model{
		ctrl:        deps.Controller,
		playback:    deps.Playback,
		queue:       deps.Queue,
		catalog:     deps.Catalog,
		notices:     notices,
		desktop:     deps.Desktop,
		thumbs:      deps.Thumbnails,
		keys:        keymap.NewResolver(keymap.All),
		Library:     videolist.New("Library"),
		QueuePanel:  videolist.New("Queue"),
		search:      search,
		help:        help.New(),
		categories:  catalog.Categories(),
		category:    -1,
		queueSub:    deps.Queue.Subscribe(),
		playbackSub: deps.Playback.Subscribe(),
	}
	m.Library.SetFocused(true)
	m.QueuePanel.SetEmptyText("Press a on a video to queue it")

	m.fetchSeq = 1
	if deps.Query != "" {
		m.fetchKind = fetchSearch
		m.search.SetValue(deps.Query)
		m.queue.BeginSearch(deps.Query, "")
	} else {
		m.fetchKind = fetchTrending
		m.queue.BeginSearch("", "")
	}
	m.refreshLists()
	return m
}

// Init starts the store watchers and the initial fetch.
func (m Model) Init() tea.Cmd {
	fetch := m.fetchCmd(m.fetchSeq, m.fetchKind, m.search.Value(), "")
	return tea.Batch(
		m.waitQueue(),
		m.waitPlayback(),
		m.notices.Wait(),
		fetch,
	)
}

// listContexts returns the keymap contexts of the focused panel.
func (m Model) listContexts() []string {
	if m.Focus == FocusQueue {
		return []string{keymap.ContextQueue, keymap.ContextList}
	}
	return []string{keymap.ContextLibrary, keymap.ContextList}
}

func (m *Model) focused() *videolist.Model {
	if m.Focus == FocusQueue {
		return &m.QueuePanel
	}
	return &m.Library
}

func (m *Model) setFocus(f FocusTarget) {
	m.Focus = f
	m.Library.SetFocused(f == FocusLibrary)
	m.QueuePanel.SetFocused(f == FocusQueue)
}

// refreshLists copies store contents into the panels.
func (m *Model) refreshLists() {
	m.Library.SetItems(m.queue.Library())
	m.QueuePanel.SetItems(m.queue.Queue())

	st := m.queue.Status()
	switch {
	case st.Loading:
		m.Library.SetEmptyText("Loading…")
	case st.Err != "":
		m.Library.SetEmptyText(st.Err)
	default:
		m.Library.SetEmptyText("Search with / or pick a category with [ and ]")
	}
}
