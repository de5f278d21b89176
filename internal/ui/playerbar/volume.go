package playerbar

import "fmt"

// RenderVolume renders the volume indicator.
// Format: "vol  80%" or "muted" when muted or at zero.
func RenderVolume(volume int, muted bool) string {
	if muted || volume == 0 {
		return "muted"
	}
	return fmt.Sprintf("vol %3d%%", volume)
}
