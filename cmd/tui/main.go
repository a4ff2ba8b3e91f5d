package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddctimer/internal/audio"
	"ddctimer/internal/command"
	"ddctimer/internal/core/timer"
	"ddctimer/internal/logging"
	"ddctimer/internal/platform"
	"ddctimer/internal/present"
	"ddctimer/internal/storage"
	"ddctimer/internal/ui/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
)

const appName = "DDC Timer"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ddc-timer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		minutes = flag.Int("minutes", 0, "round length in minutes (overrides settings)")
		label   = flag.String("label", "", "round name")
		muted   = flag.Bool("mute", false, "start with sound off")
		check   = flag.Bool("check", false, "play the system check tone and exit")
		logPath = flag.String("log", "", "write logs to this file (default: discard)")
	)
	flag.Parse()

	envErr := godotenv.Load()
	settings, loadErr := storage.LoadSettings(appName)
	settings, overrideErr := storage.ApplyEnv(settings)
	if *minutes > 0 {
		settings.RoundMinutes = *minutes
	}
	if *label != "" {
		settings.Label = *label
	}
	if *muted {
		settings.SoundEnabled = false
	}

	logFile, err := logging.OpenFile(*logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.New(logging.Config{Level: settings.LogLevel, Output: logFile, NoColor: true})
	for _, warning := range []error{loadErr, overrideErr} {
		if warning != nil {
			logger.Warn().Err(warning).Msg("settings")
		}
	}
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("load .env")
	}

	sequencer := audio.NewSequencer(audio.NewBeepSynthesizer(audio.BeepConfig{}), audio.Options{Logger: &logger})
	if *check {
		sequencer.Check()
		time.Sleep(audio.CheckTone.Duration + 200*time.Millisecond)
		return nil
	}

	keeper := timer.New(settings.TimerConfig(), timer.Options{Logger: &logger})
	defer keeper.Close()
	logger = logger.With().Str("session", keeper.Session()).Logger()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	view := terminal.New(screen, terminal.Config{
		AppName: settings.AppName,
		Presets: keeper.Config().Presets,
	}, keeper)
	view.SetOnCheck(sequencer.Check)

	coordinator := present.New(present.Config{
		AppName:       settings.AppName,
		FlashDuration: keeper.Config().FlashDuration,
	}, view, platform.NewUnsupportedFullscreen(), sequencer, present.Options{Logger: &logger})
	defer coordinator.Close()
	coordinator.OnFlash(view.SetFlash)
	coordinator.Attach(keeper)

	dispatcher := command.New(keeper, coordinator)
	dispatcher.Mount(view)
	defer dispatcher.Unmount()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("round", keeper.Snapshot().Total).Msg("terminal timer ready")
	err = view.Run(ctx, keeper.Subscribe(8))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
