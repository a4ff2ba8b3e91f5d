package main

import (
	"errors"
	"os"

	"ddctimer/internal/audio"
	"ddctimer/internal/command"
	"ddctimer/internal/core/timer"
	"ddctimer/internal/logging"
	"ddctimer/internal/platform"
	"ddctimer/internal/present"
	"ddctimer/internal/storage"
	"ddctimer/internal/ui/display"
	"ddctimer/internal/ui/preferences"
	"ddctimer/internal/ui/tray"
	"ddctimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const appName = "DDC Timer"

func main() {
	envErr := godotenv.Load()

	settings, loadErr := storage.LoadSettings(appName)
	settings, overrideErr := storage.ApplyEnv(settings)

	logger := logging.New(logging.Config{Level: settings.LogLevel})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("load .env")
	}
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("load settings, using defaults")
	}
	if overrideErr != nil {
		logger.Warn().Err(overrideErr).Msg("environment overrides")
	}

	guard, err := platform.AcquireSingleInstance(settings.AppName)
	if err != nil {
		var held *platform.InstanceError
		if errors.As(err, &held) {
			logger.Error().Str("app", held.AppName).Str("address", held.Address).Msg("timer already running")
		} else {
			logger.Error().Err(err).Msg("single instance")
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	keeper := timer.New(settings.TimerConfig(), timer.Options{Logger: &logger})
	logger = logger.With().Str("session", keeper.Session()).Logger()
	config := keeper.Config()

	fyneApp := app.NewWithID("io.ddctimer.app")
	fyneApp.SetIcon(resources.MustIcon("timer-idle.svg"))

	sequencer := audio.NewSequencer(audio.NewBeepSynthesizer(audio.BeepConfig{}), audio.Options{Logger: &logger})

	mainWindow := display.New(fyneApp, display.Config{
		AppName: settings.AppName,
		Presets: config.Presets,
	}, keeper)

	coordinator := present.New(present.Config{
		AppName:       settings.AppName,
		FlashDuration: config.FlashDuration,
	}, mainWindow, mainWindow, sequencer, present.Options{Logger: &logger})
	coordinator.OnFlash(mainWindow.SetFlash)
	coordinator.OnFullscreen(mainWindow.ShowFullscreenState)
	coordinator.Attach(keeper)

	dispatcher := command.New(keeper, coordinator)
	dispatcher.Mount(mainWindow)

	mainWindow.SetOnFullscreen(coordinator.ToggleFullscreen)
	mainWindow.SetOnCheck(sequencer.Check)
	mainWindow.Watch(keeper.Subscribe(8))

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		applySettings(keeper, coordinator, settings, updated, logger)
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Warn().Err(err).Msg("save settings")
		}
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		startTray(desktopApp, settings.AppName, keeper, coordinator, sequencer, mainWindow, prefsWindow, fyneApp)
	} else {
		logger.Debug().Msg("system tray unsupported on this platform")
	}

	mainWindow.Window().SetMaster()
	if settings.Fullscreen {
		coordinator.SetFullscreen(true)
	}

	logger.Info().
		Int("round", keeper.Snapshot().Total).
		Bool("sound", keeper.Snapshot().SoundEnabled).
		Msg("desktop timer ready")
	mainWindow.Show()
	fyneApp.Run()

	dispatcher.Unmount()
	coordinator.Close()
	keeper.Close()
}

func startTray(
	desktopApp desktop.App,
	title string,
	keeper *timer.Timer,
	coordinator *present.Coordinator,
	sequencer *audio.Sequencer,
	mainWindow *display.Window,
	prefsWindow *preferences.Window,
	fyneApp fyne.App,
) {
	trayManager := tray.New(desktopApp, title, keeper.Config().Presets, tray.Callbacks{
		OnShow:             mainWindow.Show,
		OnToggleRun:        keeper.ToggleRun,
		OnReset:            keeper.Reset,
		OnPreset:           keeper.SetPreset,
		OnToggleSound:      keeper.ToggleSound,
		OnToggleFullscreen: coordinator.ToggleFullscreen,
		OnCheck:            sequencer.Check,
		OnPreferences:      prefsWindow.Show,
		OnQuit:             fyneApp.Quit,
	})
	desktopApp.SetSystemTrayIcon(resources.StateIcon(timer.StateIdle))

	events := keeper.Subscribe(4)
	go func() {
		lastState := timer.StateIdle
		for snapshot := range events {
			snapshot := snapshot
			fyne.Do(func() {
				trayManager.SetSnapshot(snapshot)
				if state := snapshot.State(); state != lastState {
					lastState = state
					desktopApp.SetSystemTrayIcon(resources.StateIcon(state))
				}
			})
		}
	}()
}

func applySettings(keeper *timer.Timer, coordinator *present.Coordinator, previous, updated preferences.Settings, logger zerolog.Logger) {
	keeper.SetLabel(updated.Label)
	keeper.SetSoundEnabled(updated.SoundEnabled)
	if updated.RoundMinutes != previous.RoundMinutes && !keeper.Snapshot().Running {
		keeper.SetPreset(updated.RoundMinutes)
	}
	if updated.Fullscreen != previous.Fullscreen {
		coordinator.SetFullscreen(updated.Fullscreen)
	}
	if updated.CeilingMinutes != previous.CeilingMinutes || updated.LogLevel != previous.LogLevel || updated.AppName != previous.AppName {
		logger.Info().Msg("ceiling, log level and app name apply on next launch")
	}
}
