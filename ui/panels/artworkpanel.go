package panels

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"mockup-studio/internal/app"
	"mockup-studio/internal/image"
	"mockup-studio/internal/logging"
	"mockup-studio/ui/canvas"
	"mockup-studio/ui/prefs"
)

// ArtworkPanel loads artwork and offers placement actions.
type ArtworkPanel struct {
	doc       *app.Document
	canvas    *canvas.StageCanvas
	prefs     *prefs.Prefs
	window    fyne.Window
	container *fyne.Container

	fileLabel  *widget.Label
	sizeLabel  *widget.Label
	cropCheck  *widget.Check
	actionBtns []*widget.Button
	syncing    bool
}

// NewArtworkPanel creates the artwork panel.
func NewArtworkPanel(doc *app.Document, cvs *canvas.StageCanvas, p *prefs.Prefs) *ArtworkPanel {
	ap := &ArtworkPanel{doc: doc, canvas: cvs, prefs: p}

	ap.fileLabel = widget.NewLabel("No artwork loaded")
	ap.fileLabel.Wrapping = fyne.TextWrapWord
	ap.sizeLabel = widget.NewLabel(formatSize(0, 0, false))

	loadButton := widget.NewButton("Load Artwork...", func() {
		ap.ShowOpenDialog()
	})
	clearButton := widget.NewButton("Clear", func() {
		doc.Active().ClearArtwork()
	})

	centerButton := widget.NewButton("Center", func() { doc.Active().Center() })
	fitButton := widget.NewButton("Fit Width", func() { doc.Active().Fit() })
	resetCropButton := widget.NewButton("Reset Crop", func() { doc.Active().ResetCrop() })
	ap.actionBtns = []*widget.Button{clearButton, centerButton, fitButton, resetCropButton}

	ap.cropCheck = widget.NewCheck("Crop handles", func(on bool) {
		if ap.syncing {
			return
		}
		doc.Active().SetCropMode(on)
		cvs.Invalidate()
	})

	ap.container = container.NewVBox(
		widget.NewCard("Artwork", "", container.NewVBox(
			ap.fileLabel,
			container.NewHBox(loadButton, clearButton),
		)),
		widget.NewCard("Placement", "", container.NewVBox(
			container.NewGridWithColumns(2, centerButton, fitButton),
			ap.cropCheck,
			resetCropButton,
			ap.sizeLabel,
		)),
	)

	refresh := func(interface{}) { ap.sync() }
	doc.On(app.EventArtworkLoaded, refresh)
	doc.On(app.EventArtworkCleared, refresh)
	doc.On(app.EventSideChanged, refresh)
	doc.On(app.EventBlankChanged, refresh)
	doc.On(app.EventTransformChanged, func(interface{}) { ap.updateSize() })

	ap.sync()
	return ap
}

// Container returns the panel container.
func (ap *ArtworkPanel) Container() fyne.CanvasObject {
	return ap.container
}

// SetWindow sets the parent window for dialogs.
func (ap *ArtworkPanel) SetWindow(w fyne.Window) {
	ap.window = w
}

// ShowOpenDialog asks for an artwork file and loads it on the active side.
func (ap *ArtworkPanel) ShowOpenDialog() {
	if ap.window == nil {
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ap.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := ap.doc.LoadArtwork(path); err != nil {
			dialog.ShowError(err, ap.window)
			return
		}
		if ap.prefs != nil {
			ap.prefs.SetString(prefs.KeyLastArtworkDir, filepath.Dir(path))
			if err := ap.prefs.Save(); err != nil {
				logging.Logger.Warn("failed to save preferences", zap.Error(err))
			}
		}
	}, ap.window)

	d.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if ap.prefs != nil {
		if dir := ap.prefs.String(prefs.KeyLastArtworkDir); dir != "" {
			if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
				d.SetLocation(lister)
			}
		}
	}
	d.Show()
}

func (ap *ArtworkPanel) sync() {
	snap := ap.doc.Active().Snapshot()
	if snap.HasArtwork() {
		name := snap.Artwork.Name()
		if name == "" {
			name = "(untitled)"
		}
		ap.fileLabel.SetText(name)
	} else {
		ap.fileLabel.SetText("No artwork loaded")
	}
	for _, b := range ap.actionBtns {
		if snap.HasArtwork() {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	ap.syncing = true
	ap.cropCheck.SetChecked(snap.CropMode)
	ap.syncing = false
	ap.updateSize()
}

func (ap *ArtworkPanel) updateSize() {
	ap.sizeLabel.SetText(formatSize(ap.doc.Active().Snapshot().SizeInches()))
}
