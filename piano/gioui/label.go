package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

type LabelStyle struct {
	Text       string
	Color      color.NRGBA
	ShadeColor color.NRGBA
	Alignment  layout.Direction
	Font       font.Font
	FontSize   unit.Sp
	Shaper     *text.Shaper
}

// Layout draws the text once offset in ShadeColor, then in Color on top.
// A transparent ShadeColor disables the shadow.
func (l LabelStyle) Layout(gtx C) D {
	return l.Alignment.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		if l.ShadeColor.A > 0 {
			offs := op.Offset(image.Pt(2, 2)).Push(gtx.Ops)
			widget.Label{MaxLines: 1}.Layout(gtx, l.Shaper, l.Font, l.FontSize, l.Text, colorMaterial(gtx, l.ShadeColor))
			offs.Pop()
		}
		dims := widget.Label{MaxLines: 1}.Layout(gtx, l.Shaper, l.Font, l.FontSize, l.Text, colorMaterial(gtx, l.Color))
		return D{Size: dims.Size, Baseline: dims.Baseline}
	})
}

func colorMaterial(gtx C, c color.NRGBA) op.CallOp {
	m := op.Record(gtx.Ops)
	paint.ColorOp{Color: c}.Add(gtx.Ops)
	return m.Stop()
}

func Label(str string, color color.NRGBA, shaper *text.Shaper) layout.Widget {
	return LabelStyle{Text: str, Color: color, ShadeColor: black, Font: labelDefaultFont, FontSize: labelDefaultFontSize, Alignment: layout.W, Shaper: shaper}.Layout
}
