package gioui

import (
	"image"

	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/keypiano/keypiano/piano"
)

// LevelMeter is a horizontal bar showing the microphone level.
type LevelMeter struct {
	Level piano.Decibel
	Range float32
}

func (v LevelMeter) Layout(gtx C) D {
	height := gtx.Dp(unit.Dp(6))
	width := gtx.Constraints.Max.X
	paint.FillShape(gtx.Ops, popupSurfaceColor, clip.Rect(image.Rect(0, 0, width, height)).Op())
	value := float32(v.Level) + v.Range
	if value > 0 {
		x := min(int(value/v.Range*float32(width)+0.5), width)
		color := mediumEmphasisTextColor
		if value >= v.Range-3 {
			color = errorColor
		}
		paint.FillShape(gtx.Ops, color, clip.Rect(image.Rect(0, 0, x, height)).Op())
	}
	return D{Size: image.Pt(width, height)}
}
