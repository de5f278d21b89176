package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubewaves/internal/errmsg"
	"github.com/llehouerou/tubewaves/internal/keymap"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/queue"
	"github.com/llehouerou/tubewaves/internal/ui/playerbar"
)

const (
	seekShort  = 5 * time.Second
	seekLong   = 30 * time.Second
	volumeStep = 5
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case FetchResultMsg:
		return m.handleFetchResult(msg)

	case QueueChangedMsg:
		return m.handleQueueChanged(queue.Change(msg))

	case PlaybackChangedMsg:
		return m, m.waitPlayback()

	case StoreClosedMsg:
		return m, nil

	case PiPToggledMsg:
		if msg.Err != nil {
			// the controller already reported the failure
			return m, nil
		}
		text := "Picture-in-picture off"
		if msg.Active {
			text = "Picture-in-picture on"
		}
		cmd := m.addNotification(text)
		return m, cmd

	case NowPlayingSentMsg:
		m.nowPlayingID = msg.ID
		return m, nil

	case NoticeMsg:
		cmd := m.addNotification(string(msg))
		return m, tea.Batch(cmd, m.notices.Wait())

	case NotificationClearMsg:
		m.removeNotification(msg.ID)
		return m, nil
	}

	return m, nil
}

func (m *Model) resize() {
	panelHeight := m.panelHeight()
	queueWidth := m.queuePanelWidth()
	m.Library.SetSize(m.Width-queueWidth, panelHeight)
	m.QueuePanel.SetSize(queueWidth, panelHeight)
	m.search.Width = max(m.Width-len(m.search.Prompt)-1, 1)
	m.help.Width = m.Width
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Searching {
		return m.handleSearchKey(msg)
	}

	key := msg.String()
	if m.ShowHelp && key != "ctrl+c" {
		switch key {
		case "?", "esc", "q":
			m.ShowHelp = false
		}
		return m, nil
	}

	action := m.keys.Resolve(key, m.listContexts()...)
	if action == "" {
		return m, nil
	}
	if m.focused().Handle(action) {
		return m, nil
	}
	if cmd, ok := m.handleGlobalAction(action); ok {
		return m, cmd
	}
	if cmd, ok := m.handlePlaybackAction(action, key); ok {
		return m, cmd
	}
	cmd := m.handleItemAction(action)
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only keys that end editing
	case tea.KeyEsc:
		m.Searching = false
		m.search.Blur()
		return *m, nil
	case tea.KeyEnter:
		m.Searching = false
		m.search.Blur()
		term := strings.TrimSpace(m.search.Value())
		if term == "" {
			return *m, nil
		}
		m.category = -1
		return *m, m.startFetch(fetchSearch, term)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return *m, cmd
}

func (m *Model) handleGlobalAction(action keymap.Action) (tea.Cmd, bool) {
	switch action { //nolint:exhaustive // global actions only
	case keymap.ActionQuit:
		return tea.Quit, true
	case keymap.ActionSwitchFocus:
		if m.Focus == FocusLibrary {
			m.setFocus(FocusQueue)
		} else {
			m.setFocus(FocusLibrary)
		}
	case keymap.ActionSearch:
		m.Searching = true
		return m.search.Focus(), true
	case keymap.ActionHelp:
		m.ShowHelp = true
	case keymap.ActionTrending:
		m.category = -1
		return m.startFetch(fetchTrending, ""), true
	case keymap.ActionLoadMore:
		if (m.fetchKind != fetchTrending && m.fetchKind != fetchMore) || m.nextPage == "" {
			return m.addNotification("Nothing more to load"), true
		}
		return m.startFetch(fetchMore, ""), true
	case keymap.ActionCategoryNext:
		return m.selectCategory(m.category + 1), true
	case keymap.ActionCategoryPrev:
		if m.category < 0 {
			return m.selectCategory(len(m.categories) - 1), true
		}
		return m.selectCategory(m.category - 1), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) selectCategory(idx int) tea.Cmd {
	n := len(m.categories)
	if n == 0 {
		return nil
	}
	m.category = (idx%n + n) % n
	return m.startFetch(fetchCategory, m.categories[m.category])
}

// startFetch supersedes any fetch in flight and starts a new one.
func (m *Model) startFetch(kind fetchKind, term string) tea.Cmd {
	m.fetchSeq++
	m.fetchKind = kind
	pageToken := ""
	switch kind {
	case fetchMore:
		pageToken = m.nextPage
	case fetchCategory:
		m.queue.BeginSearch(term, term)
	case fetchSearch, fetchTrending:
		m.queue.BeginSearch(term, "")
	}
	if kind != fetchMore {
		m.nextPage = ""
	}
	m.refreshLists()
	return m.fetchCmd(m.fetchSeq, kind, term, pageToken)
}

func (m *Model) handlePlaybackAction(action keymap.Action, key string) (tea.Cmd, bool) {
	ctrl, q := m.ctrl, m.queue
	switch action { //nolint:exhaustive // playback actions only
	case keymap.ActionPlayPause:
		ctrl.TogglePlay()
	case keymap.ActionStop:
		return background(q.Clear), true
	case keymap.ActionNext:
		if q.QueueLen() == 0 {
			return m.addNotification("Queue is empty"), true
		}
		return background(func() { ctrl.Next() }), true
	case keymap.ActionPrev:
		if !q.HasPrevious() {
			return nil, true
		}
		return background(func() { ctrl.Previous() }), true
	case keymap.ActionSeekBack:
		ctrl.SeekBy(-seekShort)
	case keymap.ActionSeekForward:
		ctrl.SeekBy(seekShort)
	case keymap.ActionSeekBackLong:
		ctrl.SeekBy(-seekLong)
	case keymap.ActionSeekFwdLong:
		ctrl.SeekBy(seekLong)
	case keymap.ActionSeekPercent:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			ctrl.Seek(float64(key[0]-'0') / 10)
		}
	case keymap.ActionVolumeUp:
		ctrl.AdjustVolume(volumeStep)
	case keymap.ActionVolumeDown:
		ctrl.AdjustVolume(-volumeStep)
	case keymap.ActionToggleMute:
		ctrl.ToggleMute()
	case keymap.ActionToggleDisplay:
		if ctrl.ToggleDisplayMode() == playback.ModeAudio {
			return m.addNotification("Audio only"), true
		}
		return m.addNotification("Video on"), true
	case keymap.ActionTogglePiP:
		return m.togglePiPCmd(), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) handleItemAction(action keymap.Action) tea.Cmd {
	item, ok := m.focused().Selected()
	if !ok {
		return nil
	}
	q := m.queue
	switch action { //nolint:exhaustive // item actions only
	case keymap.ActionSelect:
		if m.Focus == FocusQueue {
			return background(func() {
				q.Dequeue(item.ID)
				q.Select(item)
			})
		}
		return background(func() { q.Select(item) })
	case keymap.ActionEnqueue:
		if !q.Enqueue(item) {
			return m.addNotification("Already in queue")
		}
		return m.addNotification("Added to queue: " + item.Title)
	case keymap.ActionDequeue:
		q.Dequeue(item.ID)
	}
	return nil
}

func (m Model) handleFetchResult(msg FetchResultMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.fetchSeq {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.Kind {
	case fetchMore:
		if msg.Err != nil {
			cmd = m.reportError(errmsg.OpTrending, "", msg.Err)
			break
		}
		m.queue.AppendLibrary(msg.Items)
		m.nextPage = msg.NextPage
	default:
		m.queue.FinishSearch(msg.Items, msg.Err)
		if msg.Kind == fetchTrending {
			m.nextPage = msg.NextPage
		}
		if msg.Err != nil {
			var subject string
			if msg.Kind == fetchCategory && m.category >= 0 {
				subject = m.categories[m.category]
			}
			cmd = m.reportError(fetchOp(msg.Kind), subject, msg.Err)
		}
	}
	m.refreshLists()
	return m, cmd
}

func fetchOp(kind fetchKind) errmsg.Op {
	switch kind {
	case fetchCategory:
		return errmsg.OpCategoryLoad
	case fetchTrending, fetchMore:
		return errmsg.OpTrending
	case fetchSearch:
	}
	return errmsg.OpSearch
}

func (m *Model) reportError(op errmsg.Op, subject string, err error) tea.Cmd {
	logger.WithError(err).WithField("op", string(op)).Warn("catalog request failed")
	return m.addNotification(errmsg.FormatWith(op, subject, err))
}

func (m Model) handleQueueChanged(c queue.Change) (tea.Model, tea.Cmd) {
	m.refreshLists()
	cmds := []tea.Cmd{m.waitQueue()}

	if c.Has(queue.PartCurrent) {
		cur, ok := m.queue.Current()
		switch {
		case !ok:
			m.announced = ""
		case cur.ID != m.announced:
			m.announced = cur.ID
			if m.desktop != nil {
				cmds = append(cmds, m.nowPlayingCmd(cur))
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Searching || m.ShowHelp {
		return m, nil
	}

	top := headerRows
	inPanels := msg.Y >= top && msg.Y < top+m.panelHeight()
	inQueue := msg.X >= m.Width-m.queuePanelWidth()

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inPanels:
		m.panelAt(inQueue).Move(-1)
	case msg.Button == tea.MouseButtonWheelDown && inPanels:
		m.panelAt(inQueue).Move(1)
	case msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress:
	case inPanels:
		target := FocusLibrary
		if inQueue {
			target = FocusQueue
		}
		m.setFocus(target)
		if row := m.focused().RowAt(msg.Y - top); row >= 0 {
			m.focused().Jump(row)
		}
	default:
		m.seekAtMouse(msg.X, msg.Y)
	}
	return m, nil
}

func (m *Model) panelAt(queuePanel bool) interface{ Move(int) } {
	if queuePanel {
		return &m.QueuePanel
	}
	return &m.Library
}

// seekAtMouse seeks when (x, y) falls on the player bar's progress row.
func (m *Model) seekAtMouse(x, y int) {
	if y != headerRows+m.panelHeight()+progressRow {
		return
	}
	state, ok := m.playerState()
	if !ok {
		return
	}
	x0, width := playerbar.ProgressSpan(state, m.Width)
	if width <= 0 || x < x0 || x >= x0+width {
		return
	}
	m.ctrl.SeekAt(float64(x-x0), float64(width))
}
