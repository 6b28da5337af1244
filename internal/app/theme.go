package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"mockup-studio/pkg/colorutil"
)

// StudioTheme keeps the chrome neutral gray so it does not tint how garment
// and artwork colors are judged. Accents reuse the stage overlay colors.
type StudioTheme struct{}

var _ fyne.Theme = (*StudioTheme)(nil)

type variantColors struct{ light, dark color.Color }

var studioPalette = map[fyne.ThemeColorName]variantColors{
	theme.ColorNameBackground: {
		light: color.NRGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF},
		dark:  color.NRGBA{R: 0x2A, G: 0x2A, B: 0x2A, A: 0xFF},
	},
	theme.ColorNameInputBackground: {
		light: color.NRGBA{R: 0xF7, G: 0xF7, B: 0xF7, A: 0xFF},
		dark:  color.NRGBA{R: 0x36, G: 0x36, B: 0x36, A: 0xFF},
	},
	theme.ColorNamePrimary: {
		light: colorutil.HandleInk,
		dark:  colorutil.White,
	},
	theme.ColorNameFocus: {
		light: colorutil.GuideGray,
		dark:  colorutil.GuideGray,
	},
	theme.ColorNameSelection: {
		light: color.NRGBA{R: 0x8C, G: 0x8C, B: 0x8C, A: 0x40},
		dark:  color.NRGBA{R: 0x8C, G: 0x8C, B: 0x8C, A: 0x60},
	},
}

func (t *StudioTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	c, ok := studioPalette[name]
	if !ok {
		return theme.DefaultTheme().Color(name, variant)
	}
	if variant == theme.VariantDark {
		return c.dark
	}
	return c.light
}

func (t *StudioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *StudioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size tightens the side panel so all the removal sliders fit without
// scrolling at the default window height.
func (t *StudioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameText:
		return 13
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
