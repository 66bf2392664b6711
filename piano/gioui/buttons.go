package gioui

import (
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/keypiano/keypiano/piano"
)

// ActionClickable is a button performing a piano.Action. The button is
// disabled when the action is.
type ActionClickable struct {
	Clickable widget.Clickable
	Action    piano.Action
}

func NewActionClickable(a piano.Action) *ActionClickable {
	return &ActionClickable{Action: a}
}

// Update performs the action once per click since the last frame.
func (a *ActionClickable) Update(gtx C) {
	for a.Clickable.Clicked(gtx) {
		a.Action.Do()
	}
}

type ActionIconButtonStyle struct {
	material.IconButtonStyle
	enabled bool
}

func ActionIconButton(gtx C, th *Theme, a *ActionClickable, icon []byte, description string) ActionIconButtonStyle {
	a.Update(gtx)
	ret := material.IconButton(&th.Material, &a.Clickable, widgetForIcon(icon), description)
	ret.Background = transparent
	ret.Inset = layout.UniformInset(unit.Dp(6))
	enabled := a.Action.Enabled()
	if enabled {
		ret.Color = primaryColor
	} else {
		ret.Color = disabledTextColor
	}
	return ActionIconButtonStyle{IconButtonStyle: ret, enabled: enabled}
}

func (s ActionIconButtonStyle) Layout(gtx C) D {
	if !s.enabled {
		gtx = gtx.Disabled()
	}
	return s.IconButtonStyle.Layout(gtx)
}

func ActionButton(gtx C, th *Theme, a *ActionClickable, text string) material.ButtonStyle {
	a.Update(gtx)
	ret := material.Button(&th.Material, &a.Clickable, text)
	ret.Color = th.Material.Palette.ContrastFg
	ret.Background = th.Material.Palette.ContrastBg
	ret.Inset = layout.UniformInset(unit.Dp(6))
	return ret
}
