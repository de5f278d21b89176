// Package media defines the playable catalog entry shared by every layer.
package media

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when an item's playable window is not 0 <= start <= end.
var ErrInvalidWindow = errors.New("invalid playable window")

const watchURL = "https://www.youtube.com/watch?v="

// Item is a playable catalog entry with a bounded time window.
// Items are values: nothing mutates them after construction.
type Item struct {
	ID          string
	Title       string
	Attribution string   // channel or author name
	Thumbnails  []string // best first
	Duration    string   // human readable, e.g. "3:45"
	Popularity  string   // human readable, e.g. "1.2M views"

	// Start and End bound the playable window as offsets into the
	// underlying media. A sub-clip has Start > 0 or End < media length.
	Start time.Duration
	End   time.Duration
}

// New validates the window and returns the item.
func New(item Item) (Item, error) {
	if item.ID == "" {
		return Item{}, errors.New("media item without id")
	}
	if item.Start < 0 || item.End < item.Start {
		return Item{}, fmt.Errorf("%w: start=%v end=%v", ErrInvalidWindow, item.Start, item.End)
	}
	return item, nil
}

// Length returns the playable window length (End - Start).
func (i Item) Length() time.Duration {
	return i.End - i.Start
}

// URL returns the watch URL handed to the player.
func (i Item) URL() string {
	return watchURL + i.ID
}

// Thumbnail returns the preferred thumbnail URL, or "" if none.
func (i Item) Thumbnail() string {
	if len(i.Thumbnails) == 0 {
		return ""
	}
	return i.Thumbnails[0]
}

// Same reports whether both items identify the same media.
func (i Item) Same(other Item) bool {
	return i.ID == other.ID
}
