package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"mockup-studio/internal/app"
	"mockup-studio/internal/mask"
	"mockup-studio/ui/prefs"
)

// BackgroundPanel controls background removal for the active side.
type BackgroundPanel struct {
	doc       *app.Document
	prefs     *prefs.Prefs
	container *fyne.Container

	enableCheck     *widget.Check
	modeSelect      *widget.Select
	toleranceSlider *widget.Slider
	toleranceLabel  *widget.Label
	featherSlider   *widget.Slider
	featherLabel    *widget.Label
	erodeSlider     *widget.Slider
	erodeLabel      *widget.Label
	swatchBox       *fyne.Container
	syncing         bool
}

// NewBackgroundPanel creates the background removal panel.
func NewBackgroundPanel(doc *app.Document, p *prefs.Prefs) *BackgroundPanel {
	bp := &BackgroundPanel{doc: doc, prefs: p}

	bp.enableCheck = widget.NewCheck("Remove background", func(on bool) {
		bp.update(func(c *mask.Config) { c.Enabled = on })
	})

	bp.modeSelect = widget.NewSelect(modeLabels, func(selected string) {
		bp.update(func(c *mask.Config) { c.Mode = modeFromLabel(selected) })
	})

	bp.toleranceLabel = widget.NewLabel("")
	bp.toleranceSlider = widget.NewSlider(0, 100)
	bp.toleranceSlider.Step = 1
	bp.toleranceSlider.OnChanged = func(v float64) {
		bp.toleranceLabel.SetText(fmt.Sprintf("Tolerance: %.0f", v))
	}
	bp.toleranceSlider.OnChangeEnded = func(v float64) {
		bp.update(func(c *mask.Config) { c.Tolerance = v })
	}

	bp.featherLabel = widget.NewLabel("")
	bp.featherSlider = widget.NewSlider(0, 20)
	bp.featherSlider.Step = 1
	bp.featherSlider.OnChanged = func(v float64) {
		bp.featherLabel.SetText(fmt.Sprintf("Feather: %.0f px", v))
	}
	bp.featherSlider.OnChangeEnded = func(v float64) {
		bp.update(func(c *mask.Config) { c.Feather = int(v) })
	}

	bp.erodeLabel = widget.NewLabel("")
	bp.erodeSlider = widget.NewSlider(0, 5)
	bp.erodeSlider.Step = 1
	bp.erodeSlider.OnChanged = func(v float64) {
		bp.erodeLabel.SetText(fmt.Sprintf("Erode: %.0f px", v))
	}
	bp.erodeSlider.OnChangeEnded = func(v float64) {
		bp.update(func(c *mask.Config) { c.ErodeIterations = int(v) })
	}

	bp.swatchBox = container.NewVBox()

	bp.container = container.NewVBox(
		widget.NewCard("Removal", "", container.NewVBox(
			bp.enableCheck,
			bp.modeSelect,
			bp.toleranceLabel, bp.toleranceSlider,
			bp.featherLabel, bp.featherSlider,
			bp.erodeLabel, bp.erodeSlider,
		)),
		widget.NewCard("Corner Colors", "Click a color to remove it", bp.swatchBox),
	)

	refresh := func(interface{}) { bp.sync() }
	doc.On(app.EventSwatchesChanged, refresh)
	doc.On(app.EventArtworkCleared, refresh)
	doc.On(app.EventSideChanged, refresh)
	doc.On(app.EventBackgroundChanged, func(interface{}) { bp.rebuildSwatches() })

	bp.applySaved()
	bp.sync()
	return bp
}

// Container returns the panel container.
func (bp *BackgroundPanel) Container() fyne.CanvasObject {
	return bp.container
}

// applySaved loads removal settings from preferences into both sides.
func (bp *BackgroundPanel) applySaved() {
	if bp.prefs == nil {
		return
	}
	cfg := bp.doc.DefaultBackground()
	if m, err := mask.ParseMode(bp.prefs.String(prefs.KeyBgMode)); err == nil {
		cfg.Mode = m
	}
	cfg.Tolerance = bp.prefs.FloatWithFallback(prefs.KeyBgTolerance, cfg.Tolerance)
	cfg.Feather = bp.prefs.IntWithFallback(prefs.KeyBgFeather, cfg.Feather)
	cfg.ErodeIterations = bp.prefs.IntWithFallback(prefs.KeyBgErode, cfg.ErodeIterations)
	bp.doc.SetDefaultBackground(cfg)
}

func (bp *BackgroundPanel) update(fn func(*mask.Config)) {
	if bp.syncing {
		return
	}
	bp.doc.Active().UpdateBackground(fn)
	if bp.prefs != nil {
		cfg := bp.doc.Active().Snapshot().Background
		bp.prefs.SetString(prefs.KeyBgMode, cfg.Mode.String())
		bp.prefs.SetFloat(prefs.KeyBgTolerance, cfg.Tolerance)
		bp.prefs.SetInt(prefs.KeyBgFeather, cfg.Feather)
		bp.prefs.SetInt(prefs.KeyBgErode, cfg.ErodeIterations)
	}
}

// sync copies the active side's settings into the widgets.
func (bp *BackgroundPanel) sync() {
	cfg := bp.doc.Active().Snapshot().Background

	bp.syncing = true
	bp.enableCheck.SetChecked(cfg.Enabled)
	bp.modeSelect.SetSelected(modeLabel(cfg.Mode))
	bp.toleranceSlider.SetValue(cfg.Tolerance)
	bp.featherSlider.SetValue(float64(cfg.Feather))
	bp.erodeSlider.SetValue(float64(cfg.ErodeIterations))
	bp.syncing = false

	bp.toleranceLabel.SetText(fmt.Sprintf("Tolerance: %.0f", cfg.Tolerance))
	bp.featherLabel.SetText(fmt.Sprintf("Feather: %d px", cfg.Feather))
	bp.erodeLabel.SetText(fmt.Sprintf("Erode: %d px", cfg.ErodeIterations))
	bp.rebuildSwatches()
}

func (bp *BackgroundPanel) rebuildSwatches() {
	snap := bp.doc.Active().Snapshot()
	bp.swatchBox.RemoveAll()
	if len(snap.Swatches) == 0 {
		bp.swatchBox.Add(widget.NewLabel("No artwork"))
		bp.swatchBox.Refresh()
		return
	}
	for i, sw := range snap.Swatches {
		idx := i
		chip := fynecanvas.NewRectangle(sw.RGB.NRGBA())
		chip.SetMinSize(fyne.NewSize(24, 24))
		chip.StrokeWidth = 1
		chip.StrokeColor = theme.DefaultTheme().Color(theme.ColorNameSeparator, theme.VariantLight)

		btn := widget.NewButton(swatchLabel(sw), func() {
			bp.doc.Active().SelectSwatch(idx)
			bp.rebuildSwatches()
		})
		if snap.Selected != nil && snap.Selected.RGB == sw.RGB {
			btn.Importance = widget.HighImportance
		}
		bp.swatchBox.Add(container.NewBorder(nil, nil, chip, nil, btn))
	}
	bp.swatchBox.Refresh()
}
