package gioui

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

type Theme struct {
	Material material.Theme
	Alert    AlertStyles
	Key      KeyStyle
}

var fontCollection []text.FontFace = gofont.Collection()

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
var black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
var transparent = color.NRGBA{A: 0}

var primaryColor = color.NRGBA{R: 206, G: 147, B: 216, A: 255}
var secondaryColor = color.NRGBA{R: 128, G: 222, B: 234, A: 255}

var highEmphasisTextColor = color.NRGBA{R: 222, G: 222, B: 222, A: 222}
var mediumEmphasisTextColor = color.NRGBA{R: 153, G: 153, B: 153, A: 153}
var disabledTextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 97}

var backgroundColor = color.NRGBA{R: 18, G: 18, B: 18, A: 255}

var labelDefaultFont = fontCollection[6].Font
var labelDefaultFontSize = unit.Sp(18)

var popupSurfaceColor = color.NRGBA{R: 50, G: 50, B: 51, A: 255}
var popupShadowColor = color.NRGBA{R: 0, G: 0, B: 0, A: 192}

var errorColor = color.NRGBA{R: 207, G: 102, B: 121, A: 255}
var warningColor = color.NRGBA{R: 251, G: 192, B: 45, A: 255}

var dialogBgColor = color.NRGBA{R: 0, G: 0, B: 0, A: 224}

func NewTheme() *Theme {
	th := &Theme{Material: *material.NewTheme()}
	th.Material.Shaper = text.NewShaper(text.WithCollection(fontCollection))
	th.Material.Palette = material.Palette{
		Bg:         backgroundColor,
		Fg:         highEmphasisTextColor,
		ContrastBg: primaryColor,
		ContrastFg: black,
	}
	th.Alert = AlertStyles{
		Info:    AlertStyle{Bg: popupSurfaceColor, Text: highEmphasisTextColor},
		Warning: AlertStyle{Bg: warningColor, Text: black},
		Error:   AlertStyle{Bg: errorColor, Text: black},
		Margin:  layout.UniformInset(unit.Dp(6)),
		Inset:   layout.UniformInset(unit.Dp(6)),
	}
	th.Key = KeyStyle{
		Color:        color.NRGBA{R: 236, G: 236, B: 230, A: 255},
		PressedColor: primaryColor,
		SoundColor:   secondaryColor,
		TextColor:    black,
		HintColor:    color.NRGBA{R: 90, G: 90, B: 90, A: 255},
		Font:         font.Font{Weight: font.Bold},
		Inset:        layout.UniformInset(unit.Dp(3)),
		Radius:       unit.Dp(6),
	}
	return th
}
