// internal/player/ipc.go
package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

const (
	ipcMaxRetries   = 3
	ipcRetryDelay   = 100 * time.Millisecond
	ipcReadDeadline = time.Second
)

// errPropertyUnavailable is mpv's answer for properties without a value
// (time-pos while idle, for example).
var errPropertyUnavailable = errors.New("property unavailable")

type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is any line mpv writes: a reply carries request_id and
// error, an event carries event and its fields.
type ipcMessage struct {
	RequestID *int64          `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

var requestSeq atomic.Int64

// command sends one command and returns the raw reply data, retrying
// transient connection failures.
func (m *MPV) command(args ...any) (json.RawMessage, error) {
	var lastErr error
	for attempt := range ipcMaxRetries {
		if attempt > 0 {
			time.Sleep(ipcRetryDelay)
		}
		data, err := sendCommand(m.socketPath, args)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, errPropertyUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ipc %v failed after %d attempts: %w", args[0], ipcMaxRetries, lastErr)
}

// sendCommand performs a single exchange on a fresh connection. mpv may
// interleave event lines before the reply; they are skipped.
func sendCommand(socketPath string, args []any) (json.RawMessage, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestSeq.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(ipcReadDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.RequestID == nil || *msg.RequestID != id {
			continue
		}
		switch msg.Error {
		case "success", "":
			return msg.Data, nil
		case errPropertyUnavailable.Error():
			return nil, errPropertyUnavailable
		default:
			return nil, fmt.Errorf("mpv: %s", msg.Error)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, errors.New("connection closed before reply")
}

func (m *MPV) getFloat(name string) (float64, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}
	return v, nil
}

func (m *MPV) getBool(name string) (bool, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return false, fmt.Errorf("property %s: %w", name, err)
	}
	return v, nil
}

func (m *MPV) getString(name string) (string, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("property %s: %w", name, err)
	}
	return v, nil
}

func (m *MPV) set(name string, value any) error {
	_, err := m.command("set_property", name, value)
	return err
}
