// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit         Action = "quit"
	ActionSwitchFocus  Action = "switch_focus"
	ActionSearch       Action = "search"
	ActionHelp         Action = "help"
	ActionTrending     Action = "trending"
	ActionLoadMore     Action = "load_more"
	ActionCategoryPrev Action = "category_prev"
	ActionCategoryNext Action = "category_next"

	// Playback actions
	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionNext          Action = "next"
	ActionPrev          Action = "prev"
	ActionSeekBack      Action = "seek_back"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBackLong  Action = "seek_back_long"
	ActionSeekFwdLong   Action = "seek_forward_long"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"
	ActionToggleMute    Action = "toggle_mute"
	ActionToggleDisplay Action = "toggle_display"
	ActionTogglePiP     Action = "toggle_pip"
	ActionSeekPercent   Action = "seek_percent"

	// List navigation
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
	ActionFirst    Action = "first"
	ActionLast     Action = "last"
	ActionPageUp   Action = "page_up"
	ActionPageDown Action = "page_down"

	// Item actions
	ActionSelect  Action = "select"
	ActionEnqueue Action = "enqueue"
	ActionDequeue Action = "dequeue"
)
