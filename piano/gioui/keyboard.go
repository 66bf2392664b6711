package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/keypiano/keypiano/piano"
)

type (
	// PianoKeys is the row of piano buttons, one per note. Each button
	// plays its note while the pointer is pressed on it.
	PianoKeys struct {
		tags []bool
	}

	KeyStyle struct {
		Color        color.NRGBA
		PressedColor color.NRGBA
		SoundColor   color.NRGBA
		TextColor    color.NRGBA
		HintColor    color.NRGBA
		Font         font.Font
		Inset        layout.Inset
		Radius       unit.Dp
	}
)

func NewPianoKeys(n int) *PianoKeys {
	return &PianoKeys{tags: make([]bool, n)}
}

func (k *PianoKeys) Layout(gtx C, th *Theme, m *piano.Model) D {
	input := m.Input()
	notes := m.Notes()
	for i := range k.tags {
		for {
			ev, ok := gtx.Event(pointer.Filter{
				Target: &k.tags[i],
				Kinds:  pointer.Press | pointer.Release | pointer.Leave | pointer.Cancel,
			})
			if !ok {
				break
			}
			e, ok := ev.(pointer.Event)
			if !ok {
				continue
			}
			switch e.Kind {
			case pointer.Press:
				input.PointerPress(i)
			case pointer.Release, pointer.Cancel:
				input.PointerRelease(i)
			case pointer.Leave:
				input.PointerLeave(i)
			}
		}
	}
	children := make([]layout.FlexChild, 0, len(notes))
	for i, n := range notes {
		children = append(children, layout.Flexed(1, func(gtx C) D {
			c := th.Key.Color
			switch {
			case input.PointerPressed(i):
				c = th.Key.PressedColor
			case m.Sounding() == n.Frequency:
				c = th.Key.SoundColor
			}
			return k.layoutKey(gtx, th, &k.tags[i], c, n.Label, n.Key)
		}))
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func (k *PianoKeys) layoutKey(gtx C, th *Theme, tag *bool, c color.NRGBA, label, hint string) D {
	return th.Key.Inset.Layout(gtx, func(gtx C) D {
		size := gtx.Constraints.Max
		paint.FillShape(gtx.Ops, c, clip.UniformRRect(image.Rectangle{Max: size}, gtx.Dp(th.Key.Radius)).Op(gtx.Ops))
		area := clip.Rect{Max: size}.Push(gtx.Ops)
		event.Op(gtx.Ops, tag)
		pointer.CursorPointer.Add(gtx.Ops)
		area.Pop()
		gtx.Constraints.Min = size
		LabelStyle{
			Text:      label,
			Color:     th.Key.TextColor,
			Alignment: layout.Center,
			Font:      th.Key.Font,
			FontSize:  unit.Sp(24),
			Shaper:    th.Material.Shaper,
		}.Layout(gtx)
		layout.Inset{Bottom: unit.Dp(10)}.Layout(gtx, LabelStyle{
			Text:      hint,
			Color:     th.Key.HintColor,
			Alignment: layout.S,
			Font:      labelDefaultFont,
			FontSize:  unit.Sp(14),
			Shaper:    th.Material.Shaper,
		}.Layout)
		return D{Size: size}
	})
}
