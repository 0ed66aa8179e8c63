package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"worktimer/internal/app"
	"worktimer/internal/audio"
	"worktimer/internal/core/model"
	"worktimer/internal/core/timekeeper"
	"worktimer/internal/platform"
	"worktimer/internal/storage"
	"worktimer/internal/ui/mainwindow"
	"worktimer/internal/ui/preferences"
	"worktimer/internal/ui/tray"
	"worktimer/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const shutdownTimeout = 3 * time.Second

func run(opts options) error {
	config := model.NewConfig(model.Options{DevMode: opts.dev})
	instanceName := appName
	if config.DevMode {
		instanceName += "-dev"
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	guard, err := platform.AcquireSingleInstance(instanceName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunning(instanceName); activateErr != nil {
				log.Printf("single instance: %v", activateErr)
			}
			return nil
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	configDir, err := storage.ConfigDir(instanceName, opts.configDir)
	if err != nil {
		return err
	}
	settingsPath := storage.SettingsPath(configDir)
	defaults := preferences.DefaultSettings(config)
	settings, err := storage.LoadSettings(settingsPath, defaults)
	if err != nil {
		log.Printf("settings: %v", err)
	}

	history, err := storage.OpenHistory(storage.HistoryPath(configDir))
	if err != nil {
		log.Printf("history disabled: %v", err)
	}
	var sessionStore app.SessionStore
	if history != nil {
		sessionStore = history
		defer history.Close()
	}

	fyneApp := fyneapp.NewWithID("com.worktimer.app")
	fyneApp.SetIcon(resources.MustLogo(resources.IconFile))

	keeper := timekeeper.New(config, timekeeper.Config{})
	keeper.SetIdleChecker(platform.NewIdleProvider())

	var controller *app.Controller
	window := mainwindow.New(fyneApp, appName, mainwindow.Handlers{
		OnAction: func(action model.Action) { controller.HandleAction(action) },
		OnQuit:   fyneApp.Quit,
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, appName, tray.Callbacks{
			OnShow:   window.Show,
			OnAction: func(action model.Action) { controller.HandleAction(action) },
			OnQuit:   fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(fyneApp.Icon())
		window.SetCloseIntercept(window.Hide)
	}

	deps := app.Dependencies{
		Config:   config,
		Keeper:   keeper,
		UI:       window,
		Player:   newPlayer(settings),
		History:  sessionStore,
		Dispatch: fyne.Do,
	}
	if trayManager != nil {
		deps.Tray = trayManager
	}
	controller = app.New(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prefsWindow := preferences.New(fyneApp, appName, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			log.Printf("settings: %v", err)
			window.ShowError(err)
		}
		controller.ApplySettings(updated)
	})

	bindMenus(ctx, window, controller, prefsWindow)

	events := keeper.Subscribe(64)
	controller.Init(settings)
	listenDone := make(chan struct{})
	go func() {
		defer close(listenDone)
		controller.Listen(events)
	}()

	go func() {
		if err := storage.WatchSettings(ctx, settingsPath, defaults, func(updated preferences.Settings) {
			fyne.Do(func() { prefsWindow.UpdateSettings(updated) })
			controller.ApplySettings(updated)
		}); err != nil {
			log.Printf("settings watcher: %v", err)
		}
	}()

	go guard.Serve(func() { fyne.Do(window.Show) })

	keeper.Run()
	window.ShowAndRun()

	// Shutdown ends a session still in progress; wait for it to reach history.
	keeper.Shutdown()
	select {
	case <-listenDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown: timed out waiting for pending events")
	}
	return nil
}

// bindMenus attaches the File menu handlers that need dialogs.
func bindMenus(ctx context.Context, window *mainwindow.Window, controller *app.Controller, prefsWindow *preferences.Window) {
	window.SetMenuHandlers(mainwindow.Handlers{
		OnOpen: func() {
			window.ShowOpenDialog(".yaml", func(reader io.ReadCloser) {
				defer reader.Close()
				if err := controller.OpenPlan(reader); err != nil {
					log.Printf("open session: %v", err)
					window.ShowError(err)
				}
			})
		},
		OnSave: func() {
			window.ShowSaveDialog(controller.SuggestedFileName(), func(writer io.WriteCloser) {
				err := controller.SavePlan(writer)
				if closeErr := writer.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					log.Printf("save session: %v", err)
					window.ShowError(err)
				}
			})
		},
		OnHistory: func() {
			go controller.ShowHistory(ctx)
		},
		OnPreferences: prefsWindow.Show,
	})
}

func newPlayer(settings preferences.Settings) audio.Player {
	sounds := make(map[model.Alert][]byte)
	for _, alert := range model.Alerts() {
		resource, err := resources.Sound(alert.FileName())
		if err != nil {
			log.Printf("audio disabled: %v", err)
			return audio.Silent{}
		}
		sounds[alert] = resource.Content()
	}

	player, err := audio.NewBeepPlayer(sounds, settings.Volume)
	if err != nil {
		log.Printf("audio disabled: %v", err)
		return audio.Silent{}
	}
	player.SetEnabled(settings.SoundEnabled)
	return player
}
