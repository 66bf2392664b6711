package gioui

import (
	"fmt"
	"io"

	"gioui.org/layout"
	"gioui.org/unit"
	"github.com/keypiano/keypiano/piano"
	"github.com/pkg/browser"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	// RecorderBar holds the recorder controls: record/stop, the level meter
	// and the playback and save buttons of the finished recording.
	RecorderBar struct {
		RecordBtn *ActionClickable
		PlayBtn   *ActionClickable
		SaveBtn   *ActionClickable
		window    *Window
	}

	ToggleRecording Window
	PlayRecording   Window
	SaveRecording   Window
)

func NewRecorderBar(t *Window) *RecorderBar {
	return &RecorderBar{
		RecordBtn: NewActionClickable(t.ToggleRecording()),
		PlayBtn:   NewActionClickable(t.PlayRecording()),
		SaveBtn:   NewActionClickable(t.SaveRecording()),
		window:    t,
	}
}

func (b *RecorderBar) Layout(gtx C, th *Theme) D {
	r := b.window.Recorder()
	icon, tip := icons.AVFiberManualRecord, "Record (Ctrl+R)"
	if r.State() == piano.RecorderRecording {
		icon, tip = icons.AVStop, "Stop (Ctrl+R)"
	}
	recordBtn := ActionIconButton(gtx, th, b.RecordBtn, icon, tip)
	if r.State() == piano.RecorderRecording {
		recordBtn.Color = errorColor
	}
	playBtn := ActionIconButton(gtx, th, b.PlayBtn, icons.AVPlayArrow, "Play recording")
	saveBtn := ActionIconButton(gtx, th, b.SaveBtn, icons.ContentSave, "Save recording")
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(recordBtn.Layout),
			layout.Rigid(func(gtx C) D {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(180))
				return layout.Inset{Left: unit.Dp(6), Right: unit.Dp(12)}.Layout(gtx,
					Label(b.status(), mediumEmphasisTextColor, th.Material.Shaper))
			}),
			layout.Flexed(1, LevelMeter{Level: r.Level(), Range: 60}.Layout),
			layout.Rigid(playBtn.Layout),
			layout.Rigid(saveBtn.Layout),
		)
	})
}

func (b *RecorderBar) status() string {
	r := b.window.Recorder()
	switch r.State() {
	case piano.RecorderRequesting:
		return "Waiting for microphone..."
	case piano.RecorderRecording:
		return "Recording"
	}
	if a := r.Artifact(); a != nil {
		return fmt.Sprintf("Recorded %.1f s", a.Duration().Seconds())
	}
	return "Not recording"
}

// ToggleRecording

func (t *Window) ToggleRecording() piano.Action { return piano.MakeAction((*ToggleRecording)(t)) }
func (t *ToggleRecording) Enabled() bool {
	return t.Recorder().State() != piano.RecorderRequesting
}
func (t *ToggleRecording) Do() { t.Recorder().Toggle().Do() }

// PlayRecording

func (t *Window) PlayRecording() piano.Action { return piano.MakeAction((*PlayRecording)(t)) }
func (t *PlayRecording) Enabled() bool        { return t.Recorder().Artifact() != nil }
func (t *PlayRecording) Do() {
	a := t.Recorder().Artifact()
	browser.Stdout, browser.Stderr = io.Discard, io.Discard
	if err := browser.OpenURL(a.URL); err != nil {
		t.Alerts().Add(fmt.Sprintf("Could not play the recording: %v", err), piano.Error)
	}
}

// SaveRecording

func (t *Window) SaveRecording() piano.Action { return piano.MakeAction((*SaveRecording)(t)) }
func (t *SaveRecording) Enabled() bool {
	return t.Recorder().Artifact() != nil && !t.Exploring
}
func (t *SaveRecording) Do() {
	w := (*Window)(t)
	w.explorerCreateFile(func(wc io.WriteCloser) {
		defer wc.Close()
		if err := w.Recorder().Save(wc); err != nil {
			w.Alerts().Add(err.Error(), piano.Error)
			return
		}
		w.Alerts().Add("Recording saved", piano.Info)
	}, w.Recorder().FileName())
}
