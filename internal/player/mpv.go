// internal/player/mpv.go
package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/tubewaves/internal/media"
)

const (
	appName           = "tubewaves"
	socketWaitTimeout = 5 * time.Second
	socketPollDelay   = 100 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPVOptions configures a spawned mpv process.
type MPVOptions struct {
	Binary string // defaults to "mpv"
	Video  bool   // start with a video window
	Args   []string
}

// MPV is an Instance backed by an mpv process driven over JSON IPC.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	eventConn  net.Conn
	events     chan Event

	mu     sync.RWMutex
	window media.Item // item currently loaded, for window translation

	closeOnce sync.Once
}

// LaunchMPV starts an idle mpv process and waits for its IPC socket.
func LaunchMPV(ctx context.Context, opts MPVOptions) (*MPV, error) {
	socketPath, err := newSocketPath()
	if err != nil {
		return nil, err
	}

	m := &MPV{
		socketPath: socketPath,
		exited:     make(chan struct{}),
		events:     make(chan Event, eventBuffer),
	}

	binary := opts.Binary
	if binary == "" {
		binary = "mpv"
	}
	m.cmd = exec.Command(binary, buildArgs(socketPath, opts)...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdin, m.cmd.Stdout, m.cmd.Stderr = nil, nil, nil

	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		_ = killProcess(m.cmd)
		_ = os.Remove(socketPath)
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}
	if err := m.listen(); err != nil {
		_ = m.Close()
		return nil, err
	}

	logger.WithField("socket", socketPath).Info("mpv instance started")
	return m, nil
}

func buildArgs(socketPath string, opts MPVOptions) []string {
	forceWindow := "no"
	if opts.Video {
		forceWindow = "yes"
	}
	args := []string{
		"--idle=yes",
		"--no-terminal",
		"--really-quiet",
		"--keep-open=no",
		"--input-ipc-server=" + socketPath,
		"--force-window=" + forceWindow,
		"--title=" + appName,
	}
	if !opts.Video {
		args = append(args, "--vid=no")
	}
	return append(args, opts.Args...)
}

func newSocketPath() (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	name := fmt.Sprintf("mpv-%x.sock", suffix)
	path, err := xdg.RuntimeFile(filepath.Join(appName, name))
	if err != nil {
		return "", fmt.Errorf("runtime dir: %w", err)
	}
	return path, nil
}

func (m *MPV) waitForSocket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, socketWaitTimeout)
	defer cancel()

	ticker := time.NewTicker(socketPollDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-ticker.C:
			conn, err := net.Dial("unix", m.socketPath)
			if err == nil {
				conn.Close()
				return nil
			}
		}
	}
}

// Load replaces the current file with item, restricted to its window.
func (m *MPV) Load(_ context.Context, item media.Item) error {
	m.mu.Lock()
	m.window = item
	m.mu.Unlock()

	if err := m.set("start", formatSeconds(item.Start)); err != nil {
		return fmt.Errorf("set start: %w", err)
	}
	end := "none"
	if item.End > item.Start {
		end = formatSeconds(item.End)
	}
	if err := m.set("end", end); err != nil {
		return fmt.Errorf("set end: %w", err)
	}
	if err := m.set("pause", false); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}
	if _, err := m.command("loadfile", item.URL(), "replace"); err != nil {
		return fmt.Errorf("loadfile: %w", err)
	}
	return nil
}

func (m *MPV) windowItem() media.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.window
}

func (m *MPV) Play() error  { return m.set("pause", false) }
func (m *MPV) Pause() error { return m.set("pause", true) }

// Playing reports true when a file is loaded and not paused.
func (m *MPV) Playing() (bool, error) {
	idle, err := m.getBool("idle-active")
	if err != nil {
		return false, err
	}
	if idle {
		return false, nil
	}
	paused, err := m.getBool("pause")
	if err != nil {
		return false, err
	}
	return !paused, nil
}

// Position returns time-pos relative to the window start.
func (m *MPV) Position() (time.Duration, error) {
	pos, err := m.getFloat("time-pos")
	if errors.Is(err, errPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return max(seconds(pos)-m.windowItem().Start, 0), nil
}

// Length returns the window length, or the remaining media length for an
// open-ended window.
func (m *MPV) Length() (time.Duration, error) {
	item := m.windowItem()
	if item.End > item.Start {
		return item.Length(), nil
	}
	d, err := m.getFloat("duration")
	if errors.Is(err, errPropertyUnavailable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return max(seconds(d)-item.Start, 0), nil
}

// SeekTo seeks to position relative to the window start.
func (m *MPV) SeekTo(position time.Duration) error {
	target := m.windowItem().Start + position
	_, err := m.command("seek", target.Seconds(), "absolute")
	return err
}

func (m *MPV) SetVolume(volume int) error { return m.set("volume", volume) }

func (m *MPV) SetMuted(muted bool) error { return m.set("mute", muted) }

func (m *MPV) Muted() (bool, error) { return m.getBool("mute") }

// SetVideo enables or disables the video track.
func (m *MPV) SetVideo(enabled bool) error {
	if enabled {
		return m.set("vid", "auto")
	}
	return m.set("vid", "no")
}

// Stream returns the loaded path and absolute position.
func (m *MPV) Stream() (Stream, error) {
	path, err := m.getString("path")
	if err != nil {
		return Stream{}, err
	}
	title, _ := m.getString("media-title")
	pos, err := m.getFloat("time-pos")
	if err != nil && !errors.Is(err, errPropertyUnavailable) {
		return Stream{}, err
	}
	return Stream{URL: path, Title: title, Position: seconds(pos)}, nil
}

func (m *MPV) Events() <-chan Event { return m.events }

// Socket returns the IPC socket path.
func (m *MPV) Socket() string { return m.socketPath }

// Close quits mpv, waiting briefly before killing it. Idempotent.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		_, _ = sendCommand(m.socketPath, []any{"quit"})
		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			logger.Warn("mpv did not quit, killing")
			_ = killProcess(m.cmd)
		}
		if m.eventConn != nil {
			m.eventConn.Close()
		}
		_ = os.Remove(m.socketPath)
	})
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func formatSeconds(d time.Duration) string {
	s := strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
