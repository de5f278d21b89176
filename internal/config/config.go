package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "tubewaves"

	// APIKeyEnv overrides youtube.api_key when set.
	APIKeyEnv = "TUBEWAVES_YOUTUBE_API_KEY"
)

type Config struct {
	Player  PlayerConfig  `koanf:"player"`
	YouTube YouTubeConfig `koanf:"youtube"`
	PiP     PiPConfig     `koanf:"pip"`
	Log     LogConfig     `koanf:"log"`

	Notifications NotificationsConfig `koanf:"notifications"`
}

// PlayerConfig holds mpv and transport settings.
type PlayerConfig struct {
	MPVPath        string   `koanf:"mpv_path"`         // mpv binary (default: "mpv")
	MPVArgs        []string `koanf:"mpv_args"`         // extra mpv flags, e.g. --ytdl-format
	PollIntervalMS int      `koanf:"poll_interval_ms"` // position sampling period (default: 500)
	DefaultVolume  *int     `koanf:"default_volume"`   // 0-100 (default: 80)
	StartMuted     bool     `koanf:"start_muted"`
	DisplayMode    string   `koanf:"display_mode"` // "video" or "audio" (default: "video")
}

// YouTubeConfig holds YouTube Data API settings.
type YouTubeConfig struct {
	APIKey     string `koanf:"api_key"`
	Region     string `koanf:"region"`      // ISO 3166-1 code for trending (default: "US")
	MaxResults int    `koanf:"max_results"` // per request, 1-50 (default: 50)
}

// PiPConfig holds picture-in-picture window settings.
type PiPConfig struct {
	Geometry string `koanf:"geometry"` // mpv --geometry value
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Desktop    *bool `koanf:"desktop"`     // send notices over D-Bus (default: true)
	NowPlaying *bool `koanf:"now_playing"` // announce each new video (default: true)
}

// DesktopEnabled reports whether notices go to the desktop as well as the
// notice bar.
func (n NotificationsConfig) DesktopEnabled() bool {
	return n.Desktop == nil || *n.Desktop
}

// NowPlayingEnabled reports whether item changes raise a desktop
// notification.
func (n NotificationsConfig) NowPlayingEnabled() bool {
	return n.DesktopEnabled() && (n.NowPlaying == nil || *n.NowPlaying)
}

// LogConfig holds log output settings.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/tubewaves/tubewaves.log
	JSON  bool   `koanf:"json"`
}

// Load reads the default config files, then each of extra in order (last
// wins). Missing files are skipped.
func Load(extra ...string) (*Config, error) {
	k := koanf.New(".")

	configPaths := append(getConfigPaths(), extra...)

	for _, path := range configPaths {
		path = expandPath(path)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.YouTube.APIKey = key
	}
	cfg.YouTube.APIKey = strings.TrimSpace(cfg.YouTube.APIKey)

	if cfg.Player.MPVPath != "" {
		cfg.Player.MPVPath = expandPath(cfg.Player.MPVPath)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/tubewaves/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ./config.toml (pwd, highest priority among defaults)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasYouTubeConfig returns true if an API key is configured.
func (c *Config) HasYouTubeConfig() bool {
	return c.YouTube.APIKey != ""
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player

	if cfg.MPVPath == "" {
		cfg.MPVPath = "mpv"
	}
	if cfg.PollIntervalMS < 50 {
		cfg.PollIntervalMS = 500
	}
	if cfg.DefaultVolume == nil {
		v := 80
		cfg.DefaultVolume = &v
	} else {
		v := min(max(*cfg.DefaultVolume, 0), 100)
		cfg.DefaultVolume = &v
	}
	if cfg.DisplayMode != "audio" {
		cfg.DisplayMode = "video"
	}

	return cfg
}

// PollInterval returns the sampling period as a duration.
func (p PlayerConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMS) * time.Millisecond
}

// Volume returns the configured default volume, 80 when unset.
func (p PlayerConfig) Volume() int {
	if p.DefaultVolume == nil {
		return 80
	}
	return *p.DefaultVolume
}

// GetYouTubeConfig returns the YouTube configuration with defaults applied.
func (c *Config) GetYouTubeConfig() YouTubeConfig {
	cfg := c.YouTube

	if cfg.Region == "" {
		cfg.Region = "US"
	}
	cfg.Region = strings.ToUpper(cfg.Region)
	if cfg.MaxResults <= 0 || cfg.MaxResults > 50 {
		cfg.MaxResults = 50
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log

	if cfg.Level == "" {
		cfg.Level = "info"
	}

	return cfg
}
