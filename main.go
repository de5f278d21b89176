package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tubewaves/internal/app"
	"github.com/llehouerou/tubewaves/internal/catalog"
	"github.com/llehouerou/tubewaves/internal/config"
	"github.com/llehouerou/tubewaves/internal/logging"
	"github.com/llehouerou/tubewaves/internal/mpris"
	"github.com/llehouerou/tubewaves/internal/notify"
	"github.com/llehouerou/tubewaves/internal/pip"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/player"
	"github.com/llehouerou/tubewaves/internal/queue"
	"github.com/llehouerou/tubewaves/internal/session"
)

type options struct {
	configPath string
	query      string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "tubewaves [query]",
		Short:        "Search and play YouTube music from the terminal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 && opts.query == "" {
				opts.query = args[0]
			}
			return run(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Read an additional config file")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Search for this instead of loading trending videos")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

func run(opts options) error {
	var extra []string
	if opts.configPath != "" {
		extra = append(extra, opts.configPath)
	}
	cfg, err := config.Load(extra...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.GetLogConfig()
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	logCloser, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()

	if !cfg.HasYouTubeConfig() {
		fmt.Fprintf(os.Stderr, "warning: no YouTube API key; set youtube.api_key or %s\n", config.APIKeyEnv)
	}

	playerCfg := cfg.GetPlayerConfig()
	ytCfg := cfg.GetYouTubeConfig()

	store := playback.NewStoreWith(playerCfg.Volume(), playerCfg.StartMuted, playback.ParseDisplayMode(playerCfg.DisplayMode))
	videos := queue.NewStore()
	facade := player.NewFacade()

	notices := app.NewNotices()
	var desktop notify.Notifier
	notifier := notify.Notifier(notices)
	if cfg.Notifications.DesktopEnabled() {
		dbusNotifier, err := notify.New()
		if err != nil {
			logrus.WithError(err).Warn("desktop notifications unavailable")
		} else {
			notifier = notify.Fanout{notices, dbusNotifier}
			if cfg.Notifications.NowPlayingEnabled() {
				desktop = dbusNotifier
			}
		}
	}

	surface := &pip.MPVSurface{Binary: playerCfg.MPVPath, Geometry: cfg.PiP.Geometry}
	ctrl := session.New(session.Deps{
		Facade: facade,
		Store:  store,
		Queue:  videos,
		Launch: func(ctx context.Context, mode playback.DisplayMode) (player.Instance, error) {
			m, err := player.LaunchMPV(ctx, player.MPVOptions{
				Binary: playerCfg.MPVPath,
				Video:  mode == playback.ModeVideo,
				Args:   playerCfg.MPVArgs,
			})
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	},
		session.WithPollInterval(playerCfg.PollInterval()),
		session.WithPiP(pip.NewManager(surface)),
		session.WithNotifier(notifier),
	)
	ctrl.Start()
	defer func() {
		if err := ctrl.Close(); err != nil {
			logrus.WithError(err).Warn("close player")
		}
		store.Close()
		videos.Close()
	}()

	mprisAdapter, err := mpris.New(ctrl, store, videos)
	if err != nil {
		logrus.WithError(err).Warn("MPRIS unavailable")
	} else {
		defer mprisAdapter.Close()
	}

	client := catalog.NewClient(ytCfg.APIKey,
		catalog.WithRegion(ytCfg.Region),
		catalog.WithMaxResults(ytCfg.MaxResults),
	)

	model := app.New(app.Deps{
		Controller: ctrl,
		Playback:   store,
		Queue:      videos,
		Catalog:    client,
		Notices:    notices,
		Desktop:    desktop,
		Thumbnails: &notify.ThumbnailCache{},
		Query:      opts.query,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
