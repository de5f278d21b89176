// Package playerbar renders the now-playing bar.
package playerbar

import (
	"strings"
	"time"

	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/ui/render"
	"github.com/llehouerou/tubewaves/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"

	// Height is the rendered height: two content rows plus the border.
	Height = 4

	// horizontal overhead: border and one column of padding on each side
	frameWidth = 4
)

// State holds everything needed to render the player bar.
type State struct {
	Title       string
	Attribution string
	Start       time.Duration
	End         time.Duration
	Position    time.Duration // absolute
	Duration    time.Duration
	Playing     bool
	Volume      int
	Muted       bool
	Mode        playback.DisplayMode
	PiP         bool
}

// NewState combines the current item with a transport snapshot.
func NewState(item media.Item, st playback.State, pip bool) State {
	return State{
		Title:       item.Title,
		Attribution: item.Attribution,
		Start:       item.Start,
		End:         item.End,
		Position:    st.CurrentTime,
		Duration:    st.Duration,
		Playing:     st.Playing,
		Volume:      st.Volume,
		Muted:       st.Muted,
		Mode:        st.Mode,
		PiP:         pip,
	}
}

// Progress returns the 0-1 position within the item window.
func (s State) Progress() float64 {
	return playback.State{CurrentTime: s.Position, Duration: s.Duration}.Progress(s.Start)
}

// Render returns the player bar for the given total width.
func Render(s State, width int) string {
	inner := max(width-frameWidth, 0)
	st := styles.T().S()

	status := playSymbol
	if !s.Playing {
		status = pauseSymbol
	}

	title := s.Title
	if title == "" {
		title = "Unknown video"
	}
	info := title
	if s.Attribution != "" {
		info += " · " + s.Attribution
	}

	flags := []string{strings.ToUpper(s.Mode.String())}
	if s.PiP {
		flags = append(flags, "PiP")
	}
	flags = append(flags, RenderVolume(s.Volume, s.Muted))
	right := "  " + strings.Join(flags, " · ")

	top := render.Columns(status+"  "+render.Sanitize(info), right, inner)
	top = st.Title.Render(top)

	bottom := RenderProgressBar(s.Position, s.End, s.Progress(), inner)

	return styles.T().Panel(false).
		Padding(0, 1).
		Width(width - 2).
		Render(top + "\n" + bottom)
}

// ProgressSpan returns the column where the progress bar starts and its
// width, for mapping mouse clicks to a seek fraction. The row is the second
// content row.
func ProgressSpan(s State, width int) (x, barWidth int) {
	inner := max(width-frameWidth, 0)
	left, bw := progressLayout(s.Position, s.End, inner)
	return frameWidth/2 + left, bw
}
