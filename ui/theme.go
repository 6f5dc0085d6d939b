package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// OverlayTheme is a dark theme with the overlay's palette and a larger
// base text size.
type OverlayTheme struct {
	fyne.Theme
}

// NewOverlayTheme creates the overlay theme.
func NewOverlayTheme() fyne.Theme {
	return &OverlayTheme{Theme: theme.DefaultTheme()}
}

// Color forces the dark variant and overrides background and foreground.
func (t *OverlayTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return BackgroundColor
	case theme.ColorNameForeground:
		return color.White
	}
	return t.Theme.Color(name, theme.VariantDark)
}

// Size bumps the text size for readability at a distance.
func (t *OverlayTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return FontSizeText
	}
	return t.Theme.Size(name)
}
