// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"mockup-studio/internal/app"
	"mockup-studio/internal/export"
	"mockup-studio/internal/image"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/version"
	"mockup-studio/ui/canvas"
	"mockup-studio/ui/panels"
	"mockup-studio/ui/prefs"
)

const manifestCheckInterval = 2 * time.Second

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	doc       *app.Document
	prefs     *prefs.Prefs
	canvas    *canvas.StageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	exporter  *export.Renderer
	watcher   *app.FileWatcher

	split       *container.Split
	sidebarItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, doc *app.Document, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Mockup Studio")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		doc:      doc,
		prefs:    p,
		exporter: export.NewRenderer(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.watchManifest()

	mw.SetOnClosed(func() {
		if mw.watcher != nil {
			mw.watcher.Stop()
		}
		logging.Logger.Debug("closing", zap.Uint64("frames", mw.canvas.Frames()))
		if err := mw.prefs.Save(); err != nil {
			logging.Logger.Warn("failed to save preferences", zap.Error(err))
		}
	})
	mw.Resize(fyne.NewSize(1200, 900))

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewStageCanvas(mw.doc)
	mw.canvas.OnGestureEnd(mw.updateStatus)

	mw.sidePanel = panels.NewSidePanel(mw.doc, mw.canvas, mw.prefs)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	mw.split = container.NewHSplit(
		mw.sidePanel.Container(),
		mw.canvas,
	)
	mw.split.SetOffset(0.28)
	if !mw.prefs.Bool(prefs.KeyShowSidebar, true) {
		mw.split.Leading.Hide()
		mw.split.SetOffset(0)
	}

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.split,                          // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Artwork...", mw.sidePanel.ShowOpenArtwork),
		fyne.NewMenuItem("Clear Artwork", func() { mw.doc.Active().ClearArtwork() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Blank Manifest...", mw.onLoadManifest),
		fyne.NewMenuItem("Reload Blank Manifest", mw.onReloadManifest),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Mockup...", mw.onExportMockup),
		fyne.NewMenuItem("Export Cropped Artwork...", mw.onExportArtwork),
		fyne.NewMenuItem("Export Current View...", mw.onExportView),
	)

	mw.sidebarItem = fyne.NewMenuItem("Show Sidebar", mw.onToggleSidebar)
	mw.sidebarItem.Checked = mw.prefs.Bool(prefs.KeyShowSidebar, true)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Front", func() { mw.setSide(image.SideFront) }),
		fyne.NewMenuItem("Back", func() { mw.setSide(image.SideBack) }),
		fyne.NewMenuItemSeparator(),
		mw.sidebarItem,
	)

	arrangeMenu := fyne.NewMenu("Arrange",
		fyne.NewMenuItem("Center", func() { mw.doc.Active().Center() }),
		fyne.NewMenuItem("Fit Width", func() { mw.doc.Active().Fit() }),
		fyne.NewMenuItem("Reset Crop", func() { mw.doc.Active().ResetCrop() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Enlarge", func() { mw.doc.Active().Nudge(1.1) }),
		fyne.NewMenuItem("Shrink", func() { mw.doc.Active().Nudge(1 / 1.1) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, arrangeMenu, helpMenu))
}

// setupEventHandlers registers for document events.
func (mw *MainWindow) setupEventHandlers() {
	redraw := func(interface{}) { mw.canvas.Invalidate() }
	for _, ev := range []app.EventType{
		app.EventArtworkLoaded,
		app.EventArtworkCleared,
		app.EventProcessedChanged,
		app.EventTransformChanged,
		app.EventBlankChanged,
		app.EventSideChanged,
	} {
		mw.doc.On(ev, redraw)
	}

	mw.doc.On(app.EventArtworkLoaded, func(interface{}) { mw.updateStatus() })
	mw.doc.On(app.EventArtworkCleared, func(interface{}) { mw.updateStatus() })
	mw.doc.On(app.EventSideChanged, func(interface{}) { mw.updateStatus() })
	mw.doc.On(app.EventBlankChanged, func(data interface{}) {
		if file, ok := data.(string); ok && file != "" {
			mw.SetTitle("Mockup Studio - " + file)
		} else {
			mw.SetTitle("Mockup Studio")
		}
		mw.updateStatus()
	})
	mw.doc.On(app.EventManifestLoaded, func(interface{}) {
		mw.statusBar.SetText(fmt.Sprintf("Loaded %d blanks", len(mw.doc.Manifest().Blanks)))
	})
}

// watchManifest reloads the blank manifest when the file changes on disk.
func (mw *MainWindow) watchManifest() {
	path := mw.doc.Config().App.Manifest
	mw.watcher = app.NewFileWatcher(path, manifestCheckInterval)
	if mw.watcher == nil {
		return
	}
	mw.watcher.OnChange(func() {
		logging.Logger.Info("blank manifest changed on disk", zap.String("path", path))
		mw.onReloadManifest()
	})
	mw.watcher.Start()
}

// RestoreSession reapplies the blank and side saved in preferences.
func (mw *MainWindow) RestoreSession() {
	mw.sidePanel.RestoreSelection()
	mw.canvas.Invalidate()
}

func (mw *MainWindow) setSide(side image.Side) {
	if err := mw.doc.SetActiveSide(side); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) updateStatus() {
	snap := mw.doc.Active().Snapshot()
	side := snap.Side.String()
	if !snap.HasArtwork() {
		mw.statusBar.SetText(fmt.Sprintf("%s: no artwork", side))
		return
	}
	text := fmt.Sprintf("%s: %s  scale %.2f", side, snap.Artwork.Name(), snap.Transform.Scale)
	if w, h, ok := snap.SizeInches(); ok {
		text += fmt.Sprintf("  %.1f x %.1f in", w, h)
	}
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onLoadManifest() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := mw.doc.LoadManifest(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (mw *MainWindow) onReloadManifest() {
	path := mw.doc.Config().App.Manifest
	if err := mw.doc.LoadManifest(path); err != nil {
		logging.Logger.Warn("manifest reload failed", zap.String("path", path), zap.Error(err))
		mw.statusBar.SetText("Manifest reload failed: " + err.Error())
		return
	}
	if base := mw.doc.BlankFile(); base != "" {
		if err := mw.doc.SelectBlank(base); err != nil {
			logging.Logger.Warn("blank reload failed", zap.String("file", base), zap.Error(err))
		}
	}
}

func (mw *MainWindow) onExportMockup() {
	img := mw.exporter.Mockup(mw.doc, 0, 0)
	mw.showSaveDialog(fmt.Sprintf("mockup_%s.png", mw.doc.ActiveSide()), func(path string) error {
		return export.Save(img, path)
	})
}

func (mw *MainWindow) onExportArtwork() {
	img := export.CroppedArtwork(mw.doc.Active().Snapshot())
	if img == nil {
		dialog.ShowInformation("Export", "There is no artwork on this side.", mw.Window)
		return
	}
	mw.showSaveDialog("artwork.png", func(path string) error {
		return export.Save(img, path)
	})
}

func (mw *MainWindow) onExportView() {
	img := mw.canvas.LastOutput()
	if img == nil {
		dialog.ShowInformation("Export", "Nothing has been drawn yet.", mw.Window)
		return
	}
	mw.showSaveDialog(fmt.Sprintf("view_%s.png", mw.doc.ActiveSide()), func(path string) error {
		return export.Save(img, path)
	})
}

func (mw *MainWindow) showSaveDialog(name string, save func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastExportDir, filepath.Dir(path))
		mw.statusBar.SetText("Exported " + filepath.Base(path))
	}, mw.Window)
	d.SetFileName(name)
	if dir := mw.prefs.String(prefs.KeyLastExportDir); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Show()
}

func (mw *MainWindow) onToggleSidebar() {
	show := !mw.sidebarItem.Checked
	mw.sidebarItem.Checked = show
	if show {
		mw.split.Leading.Show()
		mw.split.SetOffset(0.28)
	} else {
		mw.split.Leading.Hide()
		mw.split.SetOffset(0)
	}
	mw.prefs.SetBool(prefs.KeyShowSidebar, show)
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Mockup Studio",
		fmt.Sprintf("Mockup Studio %s\n\n"+
			"Places artwork on shirt blanks and previews the print.",
			version.String()),
		mw.Window)
}
