// Package notify provides desktop notifications via D-Bus.
package notify

import "errors"

// Urgency is the freedesktop notification urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const (
	appName      = "TubeWaves"
	desktopEntry = "tubewaves"
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Fanout sends every notification to all of its notifiers. The returned
// ID is the first nonzero one.
type Fanout []Notifier

func (f Fanout) Notify(n Notification) (uint32, error) {
	var (
		id   uint32
		errs []error
	)
	for _, target := range f {
		got, err := target.Notify(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id == 0 {
			id = got
		}
	}
	return id, errors.Join(errs...)
}

func (f Fanout) Close(id uint32) error {
	var errs []error
	for _, target := range f {
		if err := target.Close(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }
func (discard) Close(uint32) error                  { return nil }
