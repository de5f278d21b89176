//go:build linux

package notify

import (
	"fmt"
	"path/filepath"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without a bus it returns Discard, so
// callers never have to special-case headless sessions.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		logrus.WithError(err).Info("session bus unavailable, desktop notifications disabled")
		return Discard, nil //nolint:nilerr // degrade to no notifications
	}
	return &dbusNotifier{obj: conn.Object(busName, busPath)}, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	call := n.obj.Call(busMethod, 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints(notif),
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify reply: %w", err)
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	if id == 0 {
		return nil
	}
	if err := n.obj.Call(busClose, 0, id).Err; err != nil {
		return fmt.Errorf("close notification %d: %w", id, err)
	}
	return nil
}

// hints builds the freedesktop hint map. A thumbnail file is also passed
// as image-path, which most servers render larger than the app icon.
func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if filepath.IsAbs(n.Icon) {
		h["image-path"] = dbus.MakeVariant("file://" + n.Icon)
	}
	return h
}
