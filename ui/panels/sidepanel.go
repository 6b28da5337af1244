// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"mockup-studio/internal/app"
	"mockup-studio/ui/canvas"
	"mockup-studio/ui/prefs"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	doc       *app.Document
	container *container.AppTabs

	garmentPanel    *GarmentPanel
	artworkPanel    *ArtworkPanel
	backgroundPanel *BackgroundPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(doc *app.Document, cvs *canvas.StageCanvas, p *prefs.Prefs) *SidePanel {
	sp := &SidePanel{doc: doc}

	sp.garmentPanel = NewGarmentPanel(doc, p)
	sp.artworkPanel = NewArtworkPanel(doc, cvs, p)
	sp.backgroundPanel = NewBackgroundPanel(doc, p)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Garment", sp.garmentPanel.Container()),
		container.NewTabItem("Artwork", sp.artworkPanel.Container()),
		container.NewTabItem("Background", sp.backgroundPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.garmentPanel.SetWindow(w)
	sp.artworkPanel.SetWindow(w)
}

// ShowOpenArtwork opens the artwork file dialog.
func (sp *SidePanel) ShowOpenArtwork() {
	sp.artworkPanel.ShowOpenDialog()
}

// RestoreSelection reselects the blank and side saved in preferences.
func (sp *SidePanel) RestoreSelection() {
	sp.garmentPanel.restore()
}

// GarmentPanel selects the blank and the side being edited.
type GarmentPanel struct {
	doc       *app.Document
	prefs     *prefs.Prefs
	window    fyne.Window
	container *fyne.Container

	choices     []blankChoice
	blankSelect *widget.Select
	sideRadio   *widget.RadioGroup
	areaLabel   *widget.Label
	syncing     bool
}

// NewGarmentPanel creates the blank and side selector.
func NewGarmentPanel(doc *app.Document, p *prefs.Prefs) *GarmentPanel {
	gp := &GarmentPanel{doc: doc, prefs: p}

	gp.areaLabel = widget.NewLabel("")
	gp.areaLabel.Wrapping = fyne.TextWrapWord

	gp.blankSelect = widget.NewSelect(nil, func(selected string) {
		if gp.syncing {
			return
		}
		gp.onBlankSelected(selected)
	})
	gp.blankSelect.PlaceHolder = "(no blank)"

	gp.sideRadio = widget.NewRadioGroup(sideLabels, func(selected string) {
		if gp.syncing || selected == "" {
			return
		}
		side := sideFromLabel(selected)
		if err := doc.SetActiveSide(side); err != nil {
			gp.showError(err)
		}
		if gp.prefs != nil {
			gp.prefs.SetString(prefs.KeyLastSide, side.String())
		}
	})
	gp.sideRadio.Horizontal = true
	gp.sideRadio.Required = true
	gp.syncing = true
	gp.sideRadio.SetSelected(sideLabel(doc.ActiveSide()))
	gp.syncing = false

	gp.container = container.NewVBox(
		widget.NewCard("Blank", "", container.NewVBox(
			gp.blankSelect,
			gp.areaLabel,
		)),
		widget.NewCard("Side", "", gp.sideRadio),
	)

	doc.On(app.EventManifestLoaded, func(data interface{}) {
		gp.updateChoices()
	})
	doc.On(app.EventBlankChanged, func(data interface{}) {
		gp.updateAreaInfo()
	})
	doc.On(app.EventSideChanged, func(data interface{}) {
		gp.updateAreaInfo()
	})

	gp.updateChoices()
	gp.updateAreaInfo()
	return gp
}

// Container returns the panel container.
func (gp *GarmentPanel) Container() fyne.CanvasObject {
	return gp.container
}

// SetWindow sets the parent window for dialogs.
func (gp *GarmentPanel) SetWindow(w fyne.Window) {
	gp.window = w
}

func (gp *GarmentPanel) showError(err error) {
	if gp.window != nil {
		dialog.ShowError(err, gp.window)
	}
}

func (gp *GarmentPanel) updateChoices() {
	gp.choices = blankChoices(gp.doc.Manifest())
	gp.syncing = true
	gp.blankSelect.Options = choiceLabels(gp.choices)
	gp.blankSelect.Refresh()
	gp.syncing = false
}

func (gp *GarmentPanel) onBlankSelected(label string) {
	for _, c := range gp.choices {
		if c.label != label {
			continue
		}
		if err := gp.doc.SelectBlank(c.file); err != nil {
			gp.showError(err)
		}
		if gp.prefs != nil {
			gp.prefs.SetString(prefs.KeyLastBlank, c.file)
		}
		return
	}
}

func (gp *GarmentPanel) updateAreaInfo() {
	area := gp.doc.Active().Snapshot().Area
	file := gp.doc.BlankFile()
	switch {
	case file == "":
		gp.areaLabel.SetText("No blank selected. Using the default print area.")
	case area.Calibrated:
		gp.areaLabel.SetText(fmt.Sprintf("%s\nCalibrated print area, %.1f px/in", file, area.PixelsPerInch))
	case area.HasPPI():
		gp.areaLabel.SetText(fmt.Sprintf("%s\nDefault print area, %.1f px/in", file, area.PixelsPerInch))
	default:
		gp.areaLabel.SetText(fmt.Sprintf("%s\nNo calibration. Size readout unavailable.", file))
	}
}

// restore reapplies the saved side and blank.
func (gp *GarmentPanel) restore() {
	if gp.prefs == nil {
		return
	}
	if side := gp.prefs.String(prefs.KeyLastSide); side != "" {
		gp.sideRadio.SetSelected(sideLabel(sideFromLabel(side)))
	}
	file := gp.prefs.String(prefs.KeyLastBlank)
	if file == "" {
		return
	}
	for _, c := range gp.choices {
		if c.file == file {
			gp.blankSelect.SetSelected(c.label)
			return
		}
	}
}
