// Package logging routes logrus output to a file so the terminal stays
// free for the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/config"
)

const defaultFile = "tubewaves/tubewaves.log"

// Setup configures the standard logrus logger from cfg. The returned
// closer releases the log file.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	path := cfg.File
	if path == "" {
		var err error
		path, err = xdg.StateFile(defaultFile)
		if err != nil {
			return nil, fmt.Errorf("log directory: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	Configure(logrus.StandardLogger(), f, cfg)
	return f, nil
}

// Configure applies the format and level of cfg to logger, writing to w.
func Configure(logger *logrus.Logger, w io.Writer, cfg config.LogConfig) {
	logger.SetOutput(w)

	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
