package pip

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/tubewaves/internal/player"
)

const (
	defaultGeometry = "480x270-32-32"
	closeTimeout    = 2 * time.Second
)

// MPVSurface opens windows as separate borderless, always-on-top, muted
// mpv processes.
type MPVSurface struct {
	Binary   string // defaults to "mpv"
	Geometry string // mpv --geometry value

	// Getenv looks up display variables; defaults to os.Getenv.
	Getenv func(string) string
}

// Open starts mpv on stream's URL at its position.
func (s *MPVSurface) Open(_ context.Context, stream player.Stream) (Session, error) {
	if !stream.Valid() {
		return nil, ErrNoStream
	}
	if !s.supported() {
		return nil, ErrUnsupported
	}

	binary := s.Binary
	if binary == "" {
		binary = "mpv"
	}
	cmd := exec.Command(binary, s.args(stream)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pip window: %w", err)
	}

	sess := &mpvSession{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(sess.done)
	}()
	return sess, nil
}

func (s *MPVSurface) supported() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
}

func (s *MPVSurface) args(stream player.Stream) []string {
	geometry := s.Geometry
	if geometry == "" {
		geometry = defaultGeometry
	}
	title := "tubewaves pip"
	if stream.Title != "" {
		title = stream.Title
	}
	return []string{
		"--no-terminal",
		"--really-quiet",
		"--force-window=yes",
		"--ontop",
		"--no-border",
		"--mute=yes",
		"--keep-open=no",
		"--geometry=" + geometry,
		"--title=" + title,
		"--start=" + formatSeconds(stream.Position),
		stream.URL,
	}
}

type mpvSession struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (s *mpvSession) Done() <-chan struct{} { return s.done }

func (s *mpvSession) Close() error {
	var err error
	s.once.Do(func() {
		if s.cmd.Process == nil {
			return
		}
		_ = s.cmd.Process.Signal(os.Interrupt)
		select {
		case <-s.done:
		case <-time.After(closeTimeout):
			err = s.cmd.Process.Kill()
		}
	})
	return err
}

func formatSeconds(d time.Duration) string {
	s := strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
