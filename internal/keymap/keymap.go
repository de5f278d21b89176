package keymap

// Contexts a binding can belong to. Global and playback bindings apply
// everywhere; the others only while the matching panel has focus.
const (
	ContextGlobal   = "global"
	ContextPlayback = "playback"
	ContextList     = "list"
	ContextLibrary  = "library"
	ContextQueue    = "queue"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// All contains all key bindings, used for dispatch and help generation.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", ContextGlobal},
	{ActionSwitchFocus, []string{"tab"}, "Switch focus", ContextGlobal},
	{ActionSearch, []string{"/"}, "Search", ContextGlobal},
	{ActionHelp, []string{"?"}, "Show help", ContextGlobal},
	{ActionTrending, []string{"t"}, "Trending music", ContextGlobal},
	{ActionLoadMore, []string{"L"}, "Load more results", ContextGlobal},
	{ActionCategoryPrev, []string{"["}, "Previous category", ContextGlobal},
	{ActionCategoryNext, []string{"]"}, "Next category", ContextGlobal},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", ContextPlayback},
	{ActionStop, []string{"s"}, "Stop", ContextPlayback},
	{ActionNext, []string{"n", "pgdown"}, "Next in queue", ContextPlayback},
	{ActionPrev, []string{"b", "pgup"}, "Previous video", ContextPlayback},
	{ActionSeekBack, []string{"shift+left"}, "Seek -5s", ContextPlayback},
	{ActionSeekForward, []string{"shift+right"}, "Seek +5s", ContextPlayback},
	{ActionSeekBackLong, []string{"ctrl+left"}, "Seek -30s", ContextPlayback},
	{ActionSeekFwdLong, []string{"ctrl+right"}, "Seek +30s", ContextPlayback},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", ContextPlayback},
	{ActionVolumeDown, []string{"-"}, "Volume down", ContextPlayback},
	{ActionToggleMute, []string{"m"}, "Mute/unmute", ContextPlayback},
	{ActionToggleDisplay, []string{"v"}, "Toggle video/audio", ContextPlayback},
	{ActionTogglePiP, []string{"P"}, "Picture-in-picture", ContextPlayback},
	{ActionSeekPercent, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, "Seek to 0-90%", ContextPlayback},

	// Lists
	{ActionMoveUp, []string{"k", "up"}, "Move up", ContextList},
	{ActionMoveDown, []string{"j", "down"}, "Move down", ContextList},
	{ActionFirst, []string{"g", "home"}, "First item", ContextList},
	{ActionLast, []string{"G", "end"}, "Last item", ContextList},
	{ActionPageUp, []string{"ctrl+u"}, "Page up", ContextList},
	{ActionPageDown, []string{"ctrl+d"}, "Page down", ContextList},

	// Library
	{ActionSelect, []string{"enter"}, "Play video", ContextLibrary},
	{ActionEnqueue, []string{"a"}, "Add to queue", ContextLibrary},

	// Queue panel
	{ActionSelect, []string{"enter"}, "Play now", ContextQueue},
	{ActionDequeue, []string{"d", "delete"}, "Remove from queue", ContextQueue},
}

// ByContext returns bindings for a specific context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}
