package gioui

import (
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/keypiano/keypiano/piano"
)

// BoolCheckBox keeps a widget.Bool in sync with a piano.Bool.
type BoolCheckBox struct {
	widget widget.Bool
}

func (b *BoolCheckBox) Layout(gtx C, th *Theme, v piano.Bool, label string) D {
	if b.widget.Update(gtx) {
		v.Set(b.widget.Value)
	}
	b.widget.Value = v.Value()
	style := material.CheckBox(&th.Material, &b.widget, label)
	style.Color = mediumEmphasisTextColor
	style.IconColor = primaryColor
	if !v.Enabled() {
		gtx = gtx.Disabled()
	}
	return style.Layout(gtx)
}
