// internal/player/events.go
package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

const (
	observePause = 1
	eventBuffer  = 16
)

// listen opens the persistent event connection and starts the read loop.
// The events channel is closed when the loop ends.
func (m *MPV) listen() error {
	conn, err := net.Dial("unix", m.socketPath)
	if err != nil {
		return fmt.Errorf("event connection: %w", err)
	}
	payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", observePause, "pause"}})
	if err != nil {
		conn.Close()
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		conn.Close()
		return fmt.Errorf("observe pause: %w", err)
	}
	m.eventConn = conn
	go m.readLoop(conn)
	return nil
}

func (m *MPV) readLoop(r io.Reader) {
	defer close(m.events)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ev, ok := translateEvent(scanner.Bytes())
		if !ok {
			continue
		}
		select {
		case m.events <- ev:
		case <-m.exited:
			return
		}
		if ev.Kind == EventClosed {
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.WithError(err).Warn("mpv event connection lost")
	}
}

// translateEvent maps one mpv IPC line to an instance event.
func translateEvent(line []byte) (Event, bool) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
		return Event{}, false
	}
	switch msg.Event {
	case "file-loaded":
		return Event{Kind: EventReady}, true
	case "property-change":
		if msg.Name != "pause" {
			return Event{}, false
		}
		var paused bool
		if err := json.Unmarshal(msg.Data, &paused); err != nil {
			return Event{}, false
		}
		return Event{Kind: EventStateChanged, Playing: !paused}, true
	case "end-file":
		switch msg.Reason {
		case "eof":
			return Event{Kind: EventEnded}, true
		case "error":
			return Event{Kind: EventError, Err: fmt.Errorf("mpv: %s", msg.FileError)}, true
		}
		return Event{}, false
	case "shutdown":
		return Event{Kind: EventClosed}, true
	}
	return Event{}, false
}
