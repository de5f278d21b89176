package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tubewaves/internal/keymap"
	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/ui/playerbar"
	"github.com/llehouerou/tubewaves/internal/ui/render"
	"github.com/llehouerou/tubewaves/internal/ui/styles"
	"github.com/llehouerou/tubewaves/internal/ui/videolist"
)

const (
	// headerRows is the search line plus the category bar.
	headerRows = 2
	// noticeRows is the notice line under the player bar.
	noticeRows = 1
	// progressRow is the progress bar's row within the player bar.
	progressRow = 2

	minPanelHeight = videolist.Overhead + 1
	minQueueWidth  = 24
)

func (m Model) panelHeight() int {
	return max(m.Height-headerRows-playerbar.Height-noticeRows, minPanelHeight)
}

func (m Model) queuePanelWidth() int {
	w := max(m.Width/3, minQueueWidth)
	if w >= m.Width {
		return m.Width / 2
	}
	return w
}

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 {
		return ""
	}

	var body string
	if m.ShowHelp {
		body = m.renderHelp()
	} else {
		marker := m.marker()
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.Library.View(marker), m.QueuePanel.View(marker))
	}

	return strings.Join([]string{
		m.renderSearchLine(),
		m.renderCategoryBar(),
		body,
		m.renderPlayerBar(),
		m.renderNotice(),
	}, "\n")
}

// marker decorates rows with the current item and queued items.
func (m Model) marker() videolist.Marker {
	queued := make(map[string]bool)
	for _, it := range m.queue.Queue() {
		queued[it.ID] = true
	}
	cur, hasCur := m.queue.Current()
	return func(it media.Item) videolist.Mark {
		switch {
		case hasCur && it.ID == cur.ID:
			return videolist.MarkPlaying
		case queued[it.ID]:
			return videolist.MarkQueued
		}
		return videolist.MarkNone
	}
}

func (m Model) renderSearchLine() string {
	if m.Searching {
		return m.search.View()
	}
	st := styles.T().S()

	left := st.Playing.Render("TubeWaves")
	if term := m.search.Value(); term != "" {
		left += st.Muted.Render("  / " + render.Sanitize(term))
	}

	status := m.queue.Status()
	var right string
	switch {
	case status.Loading && status.Term != "":
		right = "Searching " + status.Term + "…"
	case status.Loading:
		right = "Loading trending…"
	case status.Err != "":
		right = st.Error.Render(status.Err)
	default:
		right = st.Muted.Render(humanize.Comma(int64(m.Library.Len())) + " videos")
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.Width, "…")
}

func (m Model) renderCategoryBar() string {
	st := styles.T().S()
	labels := make([]string, 0, len(m.categories)+1)

	trending := st.Category
	if m.category < 0 && (m.fetchKind == fetchTrending || m.fetchKind == fetchMore) {
		trending = st.Active
	}
	labels = append(labels, trending.Render("Trending"))
	for i, c := range m.categories {
		style := st.Category
		if i == m.category {
			style = st.Active
		}
		labels = append(labels, style.Render(c))
	}
	return ansi.Truncate(strings.Join(labels, ""), m.Width, "…")
}

// playerState returns the player bar state for the current item.
func (m Model) playerState() (playerbar.State, bool) {
	item, ok := m.queue.Current()
	if !ok {
		return playerbar.State{}, false
	}
	return playerbar.NewState(item, m.playback.Snapshot(), m.ctrl.PiPActive()), true
}

func (m Model) renderPlayerBar() string {
	state, ok := m.playerState()
	if !ok {
		snap := m.playback.Snapshot()
		state = playerbar.State{
			Title:  "Nothing playing",
			Volume: snap.Volume,
			Muted:  snap.Muted,
			Mode:   snap.Mode,
		}
	}
	return playerbar.Render(state, m.Width)
}

func (m Model) renderNotice() string {
	st := styles.T().S()
	if n := len(m.Notifications); n > 0 {
		return ansi.Truncate(st.Warning.Render(m.Notifications[n-1].Message), m.Width, "…")
	}
	return ansi.Truncate(st.Subtle.Render("/ search  enter play  a queue  space pause  tab switch panel  ? help  q quit"), m.Width, "…")
}

func (m Model) renderHelp() string {
	t := styles.T()
	content := m.help.FullHelpView(keymap.HelpGroups(
		keymap.ContextGlobal,
		keymap.ContextPlayback,
		keymap.ContextList,
		keymap.ContextLibrary,
		keymap.ContextQueue,
	))
	return t.Panel(true).
		Width(max(m.Width-2, 0)).
		Height(max(m.panelHeight()-2, 0)).
		MaxHeight(m.panelHeight()).
		Render(content)
}
