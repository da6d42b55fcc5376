package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/ayusman/handframe/internal/app"
	"github.com/ayusman/handframe/internal/config"
	"github.com/ayusman/handframe/internal/tray"
)

type CLI struct {
	Config   string  `short:"c" help:"Path to the TOML config file" type:"path" env:"HANDFRAME_CONFIG"`
	Addr     *string `help:"HTTP listen address (overrides config)" env:"HANDFRAME_ADDR"`
	LogLevel *string `help:"Log level: debug, info, warn, error (overrides config)" env:"HANDFRAME_LOG_LEVEL"`
	Camera   *int    `help:"Camera device ID (overrides config)" env:"HANDFRAME_CAMERA"`
	FPS      *int    `help:"Frames processed per second (overrides config)" env:"HANDFRAME_FPS"`
	Record   *bool   `help:"Record processed frames to the database (overrides config)"`
	Tray     *bool   `help:"Show the system tray menu (overrides config)"`
	WebDir   string  `help:"Directory of static dashboard files" type:"path" env:"HANDFRAME_WEB_DIR"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("handframe"),
		kong.Description("Tracks hands from a camera and serves them over HTTP."),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "handframe",
	})

	cfg, err := loadConfig(cli)
	if err != nil {
		logger.Error("loading config", "err", err)
		kctx.Exit(1)
	}
	logger.SetLevel(cfg.Level())

	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = findWebDir(cfg.DataDir)
	}
	if cfg.Server.StaticDir != "" {
		logger.Info("serving static files", "dir", cfg.Server.StaticDir)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("starting", "err", err)
		kctx.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Tray {
		if err := a.Run(ctx); err != nil {
			logger.Error("exited", "err", err)
			a.Close()
			os.Exit(1)
		}
		return
	}

	if err := runWithTray(ctx, stop, a, cfg, logger); err != nil {
		logger.Error("exited", "err", err)
		a.Close()
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cli CLI) (config.Config, error) {
	path := cli.Config
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cli.Addr != nil {
		cfg.Server.Addr = *cli.Addr
	}
	if cli.LogLevel != nil {
		cfg.LogLevel = *cli.LogLevel
	}
	if cli.Camera != nil {
		cfg.Camera.DeviceID = *cli.Camera
	}
	if cli.FPS != nil {
		cfg.Tracking.FPS = *cli.FPS
	}
	if cli.Record != nil {
		cfg.Tracking.Record = *cli.Record
	}
	if cli.Tray != nil {
		cfg.Tray = *cli.Tray
	}
	if cli.WebDir != "" {
		cfg.Server.StaticDir = cli.WebDir
	}
	return cfg, cfg.Validate()
}

// runWithTray keeps the tray on the main goroutine and the app behind it.
func runWithTray(ctx context.Context, stop func(), a *app.App, cfg config.Config, logger *log.Logger) error {
	t := tray.New()
	t.SetEnabled(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnQuit(stop)
	t.OnOpen(func() {
		if err := openBrowser(dashboardURL(cfg.Server.Addr)); err != nil {
			logger.Warn("opening browser", "err", err)
		}
	})

	summaries, cancel := a.Tracker().Subscribe()
	defer cancel()
	go t.Follow(ctx, summaries)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()

	t.Run()
	stop()
	return <-errCh
}

func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "linux", "freebsd":
		cmd = exec.Command("xdg-open", url)
	default:
		return errors.New("unsupported platform " + runtime.GOOS)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations:
// "web", "../web", "../../web" and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
