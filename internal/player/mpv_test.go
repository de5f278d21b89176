// internal/player/mpv_test.go
package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateEvent(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Event
		wantOK bool
	}{
		{
			name:   "file loaded is ready",
			line:   `{"event":"file-loaded"}`,
			want:   Event{Kind: EventReady},
			wantOK: true,
		},
		{
			name:   "unpause is playing",
			line:   `{"event":"property-change","id":1,"name":"pause","data":false}`,
			want:   Event{Kind: EventStateChanged, Playing: true},
			wantOK: true,
		},
		{
			name:   "pause is not playing",
			line:   `{"event":"property-change","id":1,"name":"pause","data":true}`,
			want:   Event{Kind: EventStateChanged, Playing: false},
			wantOK: true,
		},
		{
			name:   "eof ends track",
			line:   `{"event":"end-file","reason":"eof","playlist_entry_id":1}`,
			want:   Event{Kind: EventEnded},
			wantOK: true,
		},
		{
			name:   "replaced file is ignored",
			line:   `{"event":"end-file","reason":"stop"}`,
			wantOK: false,
		},
		{
			name:   "shutdown closes",
			line:   `{"event":"shutdown"}`,
			want:   Event{Kind: EventClosed},
			wantOK: true,
		},
		{
			name:   "reply is not an event",
			line:   `{"request_id":3,"error":"success","data":1.5}`,
			wantOK: false,
		},
		{
			name:   "other property ignored",
			line:   `{"event":"property-change","name":"volume","data":50}`,
			wantOK: false,
		},
		{
			name:   "garbage ignored",
			line:   `not json`,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateEvent([]byte(tt.line))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTranslateEvent_LoadError(t *testing.T) {
	ev, ok := translateEvent([]byte(`{"event":"end-file","reason":"error","file_error":"unrecognized file format"}`))
	require.True(t, ok)
	assert.Equal(t, EventError, ev.Kind)
	assert.ErrorContains(t, ev.Err, "unrecognized file format")
}

func TestBuildArgs(t *testing.T) {
	audio := buildArgs("/run/sock", MPVOptions{Args: []string{"--ytdl-format=bestaudio"}})
	assert.Contains(t, audio, "--input-ipc-server=/run/sock")
	assert.Contains(t, audio, "--idle=yes")
	assert.Contains(t, audio, "--force-window=no")
	assert.Contains(t, audio, "--vid=no")
	assert.Equal(t, "--ytdl-format=bestaudio", audio[len(audio)-1])

	video := buildArgs("/run/sock", MPVOptions{Video: true})
	assert.Contains(t, video, "--force-window=yes")
	assert.False(t, slices.Contains(video, "--vid=no"))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0"},
		{30 * time.Second, "30"},
		{1500 * time.Millisecond, "1.5"},
		{210*time.Second + 250*time.Millisecond, "210.25"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// fakeMPV answers every command on a unix socket. It writes an unrelated
// event line before each reply, like mpv does on busy sockets.
func fakeMPV(t *testing.T, reply func(cmd []any) (any, string)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				scanner := bufio.NewScanner(c)
				for scanner.Scan() {
					var req ipcCommand
					if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
						return
					}
					data, status := reply(req.Command)
					payload, _ := json.Marshal(data)
					fmt.Fprintf(c, "{\"event\":\"audio-reconfig\"}\n")
					fmt.Fprintf(c, "{\"request_id\":%d,\"error\":%q,\"data\":%s}\n", req.RequestID, status, payload)
				}
			}(conn)
		}
	}()
	return path
}

func TestSendCommand_SkipsEventsAndReadsReply(t *testing.T) {
	path := fakeMPV(t, func(cmd []any) (any, string) {
		if cmd[0] == "get_property" && cmd[1] == "time-pos" {
			return 42.5, "success"
		}
		return nil, "success"
	})

	data, err := sendCommand(path, []any{"get_property", "time-pos"})
	require.NoError(t, err)

	var v float64
	require.NoError(t, json.Unmarshal(data, &v))
	assert.InDelta(t, 42.5, v, 0.001)
}

func TestSendCommand_PropertyUnavailable(t *testing.T) {
	path := fakeMPV(t, func(_ []any) (any, string) {
		return nil, "property unavailable"
	})

	_, err := sendCommand(path, []any{"get_property", "time-pos"})
	assert.ErrorIs(t, err, errPropertyUnavailable)
}

func TestMPV_PositionRelativeToWindow(t *testing.T) {
	path := fakeMPV(t, func(cmd []any) (any, string) {
		switch cmd[1] {
		case "time-pos":
			return 75.0, "success"
		case "duration":
			return 300.0, "success"
		}
		return nil, "success"
	})
	m := &MPV{socketPath: path, window: testItem}

	pos, err := m.Position()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, pos, "75s absolute minus 30s window start")

	length, err := m.Length()
	require.NoError(t, err)
	assert.Equal(t, 180*time.Second, length)

	m.window.End = 0
	length, err = m.Length()
	require.NoError(t, err)
	assert.Equal(t, 270*time.Second, length, "open window uses media duration")
}

func TestMPV_SeekToAddsWindowStart(t *testing.T) {
	cmds := make(chan []any, 1)
	path := fakeMPV(t, func(cmd []any) (any, string) {
		cmds <- cmd
		return nil, "success"
	})
	m := &MPV{socketPath: path, window: testItem}

	require.NoError(t, m.SeekTo(90*time.Second))
	got := <-cmds
	require.Len(t, got, 3)
	assert.Equal(t, "seek", got[0])
	assert.InDelta(t, 120.0, got[1], 0.001)
	assert.Equal(t, "absolute", got[2])
}
