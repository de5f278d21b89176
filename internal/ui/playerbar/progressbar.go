package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/ui/styles"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
	gap         = "  "
	minBarWidth = 3
)

// RenderProgressBar renders the position and end labels around a bar
// filled to ratio. Labels show absolute media time so they match the
// source video.
// Format: 1:23  ━━━━━─────  4:56
func RenderProgressBar(position, end time.Duration, ratio float64, width int) string {
	posStr := media.FormatClock(position)
	endStr := media.FormatClock(end)

	_, barWidth := progressLayout(position, end, width)
	if barWidth == 0 {
		return posStr + " / " + endStr
	}

	filled := min(int(float64(barWidth)*ratio), barWidth)
	t := styles.T()
	bar := lipgloss.NewStyle().Foreground(t.Primary).Render(strings.Repeat(filledBlock, filled)) +
		lipgloss.NewStyle().Foreground(t.FgSubtle).Render(strings.Repeat(emptyBlock, barWidth-filled))

	muted := t.S().Muted
	return muted.Render(posStr) + gap + bar + gap + muted.Render(endStr)
}

// progressLayout returns the bar offset within the row and its width.
// A zero width means the row is too narrow for a bar.
func progressLayout(position, end time.Duration, width int) (offset, barWidth int) {
	left := lipgloss.Width(media.FormatClock(position)) + len(gap)
	right := len(gap) + lipgloss.Width(media.FormatClock(end))
	barWidth = width - left - right
	if barWidth < minBarWidth {
		return 0, 0
	}
	return left, barWidth
}
