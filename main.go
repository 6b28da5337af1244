// Package main provides the entry point for the Mockup Studio application.
package main

import (
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"mockup-studio/internal/app"
	"mockup-studio/internal/config"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/version"
	"mockup-studio/ui/mainwindow"
	"mockup-studio/ui/prefs"
)

const appID = "com.mockupstudio.editor"

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg := config.New()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := logging.InitLogger(cfg.App.LogMode); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	logging.Logger.Info("starting Mockup Studio", zap.String("version", version.String()))

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	doc := app.NewDocument(cfg)
	if err := doc.LoadManifest(cfg.App.Manifest); err != nil {
		logging.Logger.Warn("no blank manifest, blanks unavailable",
			zap.String("path", cfg.App.Manifest), zap.Error(err))
	}

	appPrefs := prefs.Load()
	win := mainwindow.New(fyneApp, doc, appPrefs)
	win.RestoreSession()

	if flag.NArg() > 0 {
		path := flag.Arg(0)
		if err := doc.LoadArtwork(path); err != nil {
			logging.Logger.Error("failed to open artwork", zap.String("path", path), zap.Error(err))
		}
	}

	win.ShowAndRun()
}
