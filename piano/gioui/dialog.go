package gioui

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/keypiano/keypiano/piano"
)

// NotificationDialog shows the oldest pending notification of the model as a
// modal dialog. The dialog swallows pointer events so that the piano cannot
// be played underneath it.
type NotificationDialog struct {
	BtnOk   *ActionClickable
	blocker bool
}

func NewNotificationDialog(dismiss piano.Action) *NotificationDialog {
	return &NotificationDialog{BtnOk: NewActionClickable(dismiss)}
}

func (d *NotificationDialog) Layout(gtx C, th *Theme, n piano.Notification) D {
	if !gtx.Source.Focused(&d.BtnOk.Clickable) {
		gtx.Execute(key.FocusCmd{Tag: &d.BtnOk.Clickable})
	}
	for {
		e, ok := gtx.Event(key.Filter{Focus: &d.BtnOk.Clickable, Name: key.NameEscape})
		if !ok {
			break
		}
		if e, ok := e.(key.Event); ok && e.State == key.Press {
			d.BtnOk.Action.Do()
		}
	}
	for {
		if _, ok := gtx.Event(pointer.Filter{Target: &d.blocker, Kinds: pointer.Press | pointer.Release}); !ok {
			break
		}
	}
	okBtn := ActionButton(gtx, th, d.BtnOk, "OK")

	paint.Fill(gtx.Ops, dialogBgColor)
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	event.Op(gtx.Ops, &d.blocker)
	area.Pop()

	return layout.Center.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(unit.Dp(420)))
		return Surface(gtx, func(gtx C) D {
			return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx C) D {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(Label(n.Title, errorColor, th.Material.Shaper)),
					layout.Rigid(func(gtx C) D {
						return layout.Inset{Top: unit.Dp(12), Bottom: unit.Dp(12)}.Layout(gtx, func(gtx C) D {
							body := material.Body1(&th.Material, n.Message)
							body.Color = highEmphasisTextColor
							return body.Layout(gtx)
						})
					}),
					layout.Rigid(func(gtx C) D {
						return layout.E.Layout(gtx, okBtn.Layout)
					}),
				)
			})
		})
	})
}

// Surface draws contents on a rounded popup surface with a shadow.
func Surface(gtx C, contents layout.Widget) D {
	bg := func(gtx C) D {
		radius := gtx.Dp(unit.Dp(6))
		shadow := gtx.Dp(unit.Dp(2))
		rect := image.Rectangle{Max: gtx.Constraints.Min}
		paint.FillShape(gtx.Ops, popupShadowColor, clip.UniformRRect(rect.Inset(-shadow), radius).Op(gtx.Ops))
		paint.FillShape(gtx.Ops, popupSurfaceColor, clip.UniformRRect(rect, radius).Op(gtx.Ops))
		return D{Size: gtx.Constraints.Min}
	}
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(bg),
		layout.Stacked(contents),
	)
}
