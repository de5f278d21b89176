// internal/playback/state.go
package playback

import "time"

// DisplayMode selects between the video surface and audio-only playback.
type DisplayMode int

const (
	ModeVideo DisplayMode = iota
	ModeAudio
)

// String returns the mode name.
func (m DisplayMode) String() string {
	switch m {
	case ModeVideo:
		return "Video"
	case ModeAudio:
		return "Audio"
	default:
		return "Unknown"
	}
}

// Toggle returns the other mode.
func (m DisplayMode) Toggle() DisplayMode {
	if m == ModeAudio {
		return ModeVideo
	}
	return ModeAudio
}

// ParseDisplayMode maps a config value to a mode. Anything but "audio"
// is video.
func ParseDisplayMode(s string) DisplayMode {
	if s == "audio" {
		return ModeAudio
	}
	return ModeVideo
}

// State is a snapshot of the transport state.
type State struct {
	Playing     bool
	CurrentTime time.Duration // absolute, not relative to the item start
	Duration    time.Duration // window length of the active item
	Volume      int           // 0-100
	Muted       bool
	Mode        DisplayMode
}

// Progress returns the position within the item window as a 0-1 ratio,
// given the window start.
func (s State) Progress(start time.Duration) float64 {
	if s.Duration <= 0 {
		return 0
	}
	ratio := float64(s.CurrentTime-start) / float64(s.Duration)
	return min(max(ratio, 0), 1)
}
