// Package videolist renders a scrollable, focusable list of videos. The
// library and queue panels are both videolists.
package videolist

import (
	"fmt"
	"strings"

	"github.com/llehouerou/tubewaves/internal/keymap"
	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/ui/render"
	"github.com/llehouerou/tubewaves/internal/ui/styles"
)

// scrollMargin is the number of rows kept visible around the cursor.
const scrollMargin = 3

// Overhead is the vertical space used by the border and header row.
const Overhead = 3

// Mark decorates a row.
type Mark int

const (
	MarkNone Mark = iota
	MarkPlaying
	MarkQueued
)

// Marker returns the mark for an item.
type Marker func(media.Item) Mark

// Model is a scrollable list of items with a cursor.
type Model struct {
	title   string
	items   []media.Item
	pos     int
	offset  int
	width   int
	height  int
	focused bool
	empty   string
}

// New creates an empty list with a panel title.
func New(title string) Model {
	return Model{title: title}
}

// SetItems replaces the items and clamps the cursor.
func (m *Model) SetItems(items []media.Item) {
	m.items = items
	if m.pos >= len(items) {
		m.pos = max(len(items)-1, 0)
	}
	m.ensureVisible()
}

// SetEmptyText sets what is shown when the list has no items.
func (m *Model) SetEmptyText(s string) { m.empty = s }

// SetFocused sets whether the panel has focus.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the panel has focus.
func (m Model) Focused() bool { return m.focused }

// SetSize sets the panel dimensions including its border.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.ensureVisible()
}

// Len returns the number of items.
func (m Model) Len() int { return len(m.items) }

// Cursor returns the cursor index.
func (m Model) Cursor() int { return m.pos }

// Selected returns the item under the cursor.
func (m Model) Selected() (media.Item, bool) {
	if m.pos < 0 || m.pos >= len(m.items) {
		return media.Item{}, false
	}
	return m.items[m.pos], true
}

func (m Model) rows() int {
	return max(m.height-Overhead, 0)
}

// Handle applies a navigation action. Returns false for actions the list
// does not handle.
func (m *Model) Handle(action keymap.Action) bool {
	rows := m.rows()
	switch action { //nolint:exhaustive // navigation actions only
	case keymap.ActionMoveDown:
		m.Move(1)
	case keymap.ActionMoveUp:
		m.Move(-1)
	case keymap.ActionFirst:
		m.Jump(0)
	case keymap.ActionLast:
		m.Jump(len(m.items) - 1)
	case keymap.ActionPageDown:
		m.Move(max(rows/2, 1))
	case keymap.ActionPageUp:
		m.Move(-max(rows/2, 1))
	default:
		return false
	}
	return true
}

// Move moves the cursor by delta, clamped to the list.
func (m *Model) Move(delta int) {
	m.Jump(m.pos + delta)
}

// Jump moves the cursor to index, clamped to the list.
func (m *Model) Jump(index int) {
	if len(m.items) == 0 {
		m.pos, m.offset = 0, 0
		return
	}
	m.pos = min(max(index, 0), len(m.items)-1)
	m.ensureVisible()
}

// RowAt maps a y coordinate relative to the panel top to an item index,
// or -1 outside the rows.
func (m Model) RowAt(y int) int {
	row := y - (Overhead - 1)
	if row < 0 || row >= m.rows() {
		return -1
	}
	idx := m.offset + row
	if idx >= len(m.items) {
		return -1
	}
	return idx
}

func (m *Model) ensureVisible() {
	rows := m.rows()
	if rows <= 0 || len(m.items) == 0 {
		m.offset = 0
		return
	}
	margin := min(scrollMargin, (rows-1)/2)
	if m.pos < m.offset+margin {
		m.offset = m.pos - margin
	}
	if m.pos >= m.offset+rows-margin {
		m.offset = m.pos - rows + margin + 1
	}
	m.offset = min(max(m.offset, 0), max(len(m.items)-rows, 0))
}

// View renders the panel.
func (m Model) View(mark Marker) string {
	t := styles.T()
	st := t.S()
	inner := max(m.width-2, 0)

	header := fmt.Sprintf("%s (%d)", m.title, len(m.items))
	lines := []string{st.Title.Render(render.Fit(header, inner))}

	rows := m.rows()
	if len(m.items) == 0 {
		lines = append(lines, st.Muted.Render(render.Fit(m.empty, inner)))
	}
	end := min(m.offset+rows, len(m.items))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.items[i], i == m.pos, mark, inner))
	}
	for len(lines) < rows+1 {
		lines = append(lines, strings.Repeat(" ", inner))
	}

	return t.Panel(m.focused).Width(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(item media.Item, selected bool, mark Marker, width int) string {
	st := styles.T().S()

	prefix := "  "
	style := st.Base
	if mark != nil {
		switch mark(item) {
		case MarkPlaying:
			prefix, style = "▶ ", st.Playing
		case MarkQueued:
			prefix, style = "+ ", st.Queued
		case MarkNone:
		}
	}

	meta := item.Duration
	if item.Popularity != "" {
		if meta != "" {
			meta += "  "
		}
		meta += item.Popularity
	}
	if meta != "" {
		meta = "  " + meta
	}

	left := prefix + item.Title
	if item.Attribution != "" {
		left += " · " + item.Attribution
	}
	line := render.Columns(render.Sanitize(left), meta, width)

	if selected && m.focused {
		return st.Cursor.Render(line)
	}
	return style.Render(line)
}
