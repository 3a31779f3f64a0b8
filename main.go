package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v3/pkg/application"
	"golang.org/x/sync/errgroup"
)

//go:embed all:frontend/dist
var assets embed.FS

func init() {
	application.RegisterEvent[InstrumentView]("sim-telemetry")
	application.RegisterEvent[bool]("sim-connected")
	application.RegisterEvent[bool]("sim-disconnected")
	application.RegisterEvent[string]("sim-error")
	application.RegisterEvent[bool]("recording-state")
}

func main() {
	os.Exit(start(os.Args[1:]))
}

// start runs the app and returns the process exit code. Deferred cleanup
// runs before main exits.
func start(args []string) int {
	flags := flag.NewFlagSet("msfs-dashboard", flag.ContinueOnError)
	configPath := flags.String("c", "", "path to YAML config file")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Print(err)
		return 2
	}

	logger, logFile := newLogger(cfg.Log, os.Stderr)
	defer logFile.Close()
	slog.SetDefault(logger)

	instance, err := NewSingleInstance(singleInstanceAddr)
	if err != nil {
		logger.Info("exiting", "reason", err)
		return 0
	}
	defer instance.Close()

	if err := run(cfg, logger, instance); err != nil {
		logger.Error("fatal", "error", err)
		return 1
	}
	return 0
}

func run(cfg *Config, logger *slog.Logger, instance *SingleInstance) error {
	db, err := initDB(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	transport, err := newHostTransport(cfg.Host)
	if err != nil {
		return err
	}
	logger.Info("using simulation host", "host", transport.Name())

	settingsService := NewSettingsService(appConfigDir())
	recorder := NewTelemetryRecorder(db, cfg.Storage.SampleInterval, logger)

	session := NewSession(transport, cfg.Session, logger)
	driver := NewDriver(session)
	dashboardService := NewDashboardService(driver, recorder, logger)

	// Subscriptions must be in place before the driver starts.
	session.Subscribe(recorder.Callbacks(settingsService.recordOnConnect))
	session.Subscribe(dashboardService.Callbacks())

	var feed *TelemetryFeed
	if cfg.Feed.Enabled {
		feed = NewTelemetryFeed(cfg.Feed.Addr, logger)
		session.Subscribe(feed.Callbacks())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return driver.Run(gctx)
	})
	if feed != nil {
		g.Go(func() error {
			if err := feed.Run(gctx); err != nil {
				logger.Error("telemetry feed stopped", "error", err)
			}
			return nil
		})
	}

	app := application.New(application.Options{
		Name:        "MSFS Dashboard",
		Description: "Cockpit dashboard for Microsoft Flight Simulator",
		Services: []application.Service{
			application.NewService(settingsService),
			application.NewService(dashboardService),
			application.NewService(&UpdateService{}),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
	})

	dashboardService.setApp(app)

	window := app.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:            "MSFS Dashboard",
		Width:            1100,
		Height:           700,
		BackgroundColour: application.NewRGB(10, 10, 10),
		URL:              "/",
	})
	instance.SetOnShow(func() {
		window.Show()
		window.Focus()
	})

	if settingsService.GetSettings().AutoConnect {
		go func() {
			if err := driver.Connect(); err != nil {
				logger.Warn("auto-connect failed", "error", err)
			}
		}()
	}

	runErr := app.Run()

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("background task failed", "error", err)
	}
	recorder.Stop()
	return runErr
}
