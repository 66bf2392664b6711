package gioui

import (
	"fmt"
	"image"
	"io"
	"strings"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/piano"
	"github.com/keypiano/keypiano/version"
)

type (
	// Window is the piano window: the row of piano keys on top and the
	// recorder controls below.
	Window struct {
		Theme       *Theme
		Keys        *PianoKeys
		RecorderBar *RecorderBar
		Dialog      *NotificationDialog
		ReleaseMode *BoolCheckBox
		PopupAlert  *AlertsState
		Explorer    *explorer.Explorer
		Exploring   bool

		*piano.Model
	}

	C = layout.Context
	D = layout.Dimensions
)

func NewWindow(model *piano.Model) *Window {
	t := &Window{
		Theme:       NewTheme(),
		Keys:        NewPianoKeys(len(model.Notes())),
		Dialog:      NewNotificationDialog(model.DismissNotification()),
		ReleaseMode: new(BoolCheckBox),
		PopupAlert:  NewAlertsState(),
		Model:       model,
	}
	t.RecorderBar = NewRecorderBar(t)
	return t
}

// Main runs the window until it is closed. The tone engine is bound to audio
// when the window opens; Main must run on the goroutine that owns the model.
func (t *Window) Main(audio keypiano.AudioContext) {
	t.Initialize(audio) // failures are shown as a notification
	var ops op.Ops
	w := t.newWindow()
	t.Explorer = explorer.NewExplorer(w)
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
F:
	for {
		select {
		case e := <-t.Broker().ToModel:
			t.ProcessMsg(e)
			w.Invalidate()
		case <-t.Broker().CloseGUI:
			w.Perform(system.ActionClose)
		case e := <-events:
			t.Explorer.ListenEvents(e)
			switch e := e.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				break F
			case app.ConfigEvent:
				if !e.Config.Focused {
					// key releases will not reach us anymore
					t.Input().ReleaseAll()
				}
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				t.Layout(gtx)
				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
	close(t.Broker().FinishedGUI)
}

func (t *Window) newWindow() *app.Window {
	w := new(app.Window)
	width, height := t.Preferences().Window.Size()
	w.Option(app.Size(unit.Dp(width), unit.Dp(height)))
	w.Option(app.Title(title()))
	return w
}

func title() string {
	if v := version.VersionOrHash; v != "" {
		return fmt.Sprintf("KeyPiano %s", v)
	}
	return "KeyPiano"
}

func (t *Window) Layout(gtx C) {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, t.Theme.Material.Bg)
	event.Op(gtx.Ops, t)
	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(t.layoutHeader),
		layout.Flexed(1, func(gtx C) D {
			return t.Keys.Layout(gtx, t.Theme, t.Model)
		}),
		layout.Rigid(func(gtx C) D {
			return t.RecorderBar.Layout(gtx, t.Theme)
		}),
	)
	alerts := Alerts(t.Alerts(), t.Theme, t.PopupAlert)
	alerts.Layout(gtx)
	if n, ok := t.Notification(); ok {
		t.Dialog.Layout(gtx, t.Theme, n)
	}
	t.handleKeys(gtx)
}

func (t *Window) layoutHeader(gtx C) D {
	keys := make([]string, 0, len(t.Notes()))
	for _, n := range t.Notes() {
		keys = append(keys, n.Key)
	}
	status := fmt.Sprintf("Press %s or click a key", strings.Join(keys, " "))
	if f := t.Sounding(); f > 0 {
		for _, n := range t.Notes() {
			if n.Frequency == f {
				status = fmt.Sprintf("%s  %.2f Hz", n.Label, f)
			}
		}
	}
	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(Label(fmt.Sprintf("Virtual Piano (%s)", t.Preferences().Tone.Waveform.Title()), highEmphasisTextColor, t.Theme.Material.Shaper)),
			layout.Flexed(1, func(gtx C) D {
				return layout.Center.Layout(gtx, Label(status, mediumEmphasisTextColor, t.Theme.Material.Shaper))
			}),
			layout.Rigid(func(gtx C) D {
				return t.ReleaseMode.Layout(gtx, t.Theme, t.ReleaseMatchingOnly(), "Only matching release stops")
			}),
		)
	})
}

// handleKeys is the top level key handler: trigger keys play notes, any key
// release stops them, and Ctrl+R toggles the recording.
func (t *Window) handleKeys(gtx C) {
	for {
		ev, ok := gtx.Event(key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper})
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok {
			continue
		}
		if e.Name == "R" && e.Modifiers.Contain(key.ModShortcut) {
			if e.State == key.Press {
				t.Recorder().Toggle().Do()
			}
			continue
		}
		switch e.State {
		case key.Press:
			if e.Modifiers.Contain(key.ModShortcut) {
				continue
			}
			t.Input().KeyDown(strings.ToUpper(string(e.Name)))
		case key.Release:
			t.Input().KeyUp(strings.ToUpper(string(e.Name)))
		}
	}
}

func (t *Window) explorerCreateFile(success func(io.WriteCloser), filename string) {
	t.Exploring = true
	go func() {
		file, err := t.Explorer.CreateFile(filename)
		t.Broker().ToModel <- piano.MsgToModel{Data: func() {
			t.Exploring = false
			if err == nil {
				success(file)
			} else if err != explorer.ErrUserDecline {
				t.Alerts().Add(err.Error(), piano.Error)
			}
		}}
	}()
}
