// Package app wires configuration, collaborators, and the menu-bar loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/theianchan/talk-local/internal/audio"
	"github.com/theianchan/talk-local/internal/cli"
	"github.com/theianchan/talk-local/internal/config"
	"github.com/theianchan/talk-local/internal/doctor"
	"github.com/theianchan/talk-local/internal/engine"
	"github.com/theianchan/talk-local/internal/hotkey"
	"github.com/theianchan/talk-local/internal/inject"
	"github.com/theianchan/talk-local/internal/ipc"
	"github.com/theianchan/talk-local/internal/logging"
	"github.com/theianchan/talk-local/internal/models"
	"github.com/theianchan/talk-local/internal/session"
	"github.com/theianchan/talk-local/internal/tray"
	"github.com/theianchan/talk-local/internal/version"
)

const appName = "Talk"

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("talk"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("talk"))
		return 0
	}
	if parsed.ShowVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	debug := parsed.Debug || cfgLoaded.Config.Debug.Enable

	logRuntime, err := logging.New(debug)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	if parsed.RunDoctor {
		report := doctor.Run(cfgLoaded, filepath.Dir(logRuntime.Path))
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	}

	logger.Info("app start",
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
		"debug", debug,
	)

	return r.runApp(ctx, cfgLoaded, logger, logRuntime)
}

// runApp owns the long-running process: single-instance socket, audio runtime,
// session controller, global hotkeys, and the blocking menu-bar loop.
func (r Runner) runApp(ctx context.Context, loaded config.Loaded, logger *slog.Logger, logRuntime logging.Runtime) int {
	cfg := loaded.Config

	report := doctor.Run(loaded, filepath.Dir(logRuntime.Path))
	if !report.OK() {
		fmt.Fprintln(r.Stderr, "error: environment checks failed")
		fmt.Fprintln(r.Stderr, report.String())
		logger.Error("startup checks failed", "report", report.String())
		return 1
	}
	logger.Debug("startup checks passed", "report", report.String())

	store, err := buildModelStore(cfg.Models)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("model registry setup failed", "error", err.Error())
		return 1
	}

	socketPath := ipc.SocketPath()
	socket, err := ipc.Acquire(ctx, socketPath, 200*time.Millisecond, 2)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: another talk instance is already running")
			logger.Error("startup refused", "reason", "instance already running", "socket", socketPath)
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = socket.Close()
		_ = os.Remove(socketPath)
	}()

	if err := audio.Initialize(); err != nil {
		fmt.Fprintf(r.Stderr, "error: audio init: %v\n", err)
		logger.Error("audio init failed", "error", err.Error())
		return 1
	}
	defer audio.Terminate()

	keys, err := hotkey.NewListener(cfg.Hotkey.Toggle, cfg.Hotkey.Cancel, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	menu := tray.New(tray.Config{
		AppName:      appName,
		Version:      version.Version,
		LogPath:      logRuntime.Path,
		ToggleLabel:  tray.ChordLabel(keys.Toggle()),
		CancelLabel:  tray.ChordLabel(keys.Cancel()),
		DebugEnabled: logRuntime.DebugEnabled(),
		SetDebug:     logRuntime.SetDebug,
	}, store, logger)

	controller := session.NewController(
		logger,
		audio.NewCapture(logger),
		engine.NewWhisperCLI(cfg.Whisper.Binary, logger),
		inject.NewTyper(logger),
		menu,
		store,
		time.Duration(cfg.Whisper.TimeoutSeconds)*time.Second,
	)
	menu.Attach(controller)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		controller.Run(runCtx)
	}()

	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr <- ipc.Serve(runCtx, socket, ipc.WithQuit(controller, cancel))
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		keys.Run(runCtx, controller)
	}()

	logger.Info("ready",
		"socket", socketPath,
		"model", store.Current().ID,
		"toggle", keys.Toggle(),
		"cancel", keys.Cancel(),
	)

	// Blocks until Quit is clicked or ctx is cancelled.
	menu.Run(runCtx)

	cancel()
	wg.Wait()

	if err := <-serveErr; err != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", err)
		return 1
	}

	logger.Info("app stop")
	return 0
}

func buildModelStore(cfg config.ModelsConfig) (*models.Store, error) {
	descriptors := make([]models.Descriptor, 0, len(cfg.Entries))
	for _, entry := range cfg.Entries {
		descriptors = append(descriptors, models.Descriptor{
			ID:          entry.ID,
			DisplayName: entry.Name,
			Path:        entry.Path,
		})
	}
	return models.NewStore(descriptors, cfg.Default)
}
