// Package errmsg turns errors into one-line messages for the notice bar.
package errmsg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Op names the operation that failed, phrased to follow "Failed to".
type Op string

const (
	OpSearch       Op = "search videos"
	OpTrending     Op = "load trending videos"
	OpCategoryLoad Op = "load category"

	OpPlayerLaunch  Op = "start player"
	OpPlaybackStart Op = "start playback"

	OpPiPEnter Op = "enter picture-in-picture"
	OpPiPExit  Op = "exit picture-in-picture"
)

// Format returns "Failed to <op>: <reason>", or "" for a nil error.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, reason(err))
}

// FormatWith is Format naming the subject of the operation, such as a
// category label.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, subject, reason(err))
}

// reason shortens errors whose wrapped chain is noise in a status line.
func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, exec.ErrNotFound):
		return "executable not found in PATH"
	}
	return err.Error()
}
