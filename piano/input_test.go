package piano_test

import (
	"strings"
	"testing"

	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/piano"
)

func newInput(t *testing.T, releaseMatchingOnly bool) (*piano.InputBinding, *piano.ToneEngine, *fakeAudio) {
	t.Helper()
	e, audio := newEngine(t)
	b := piano.NewInputBinding(keypiano.DefaultNotes, e)
	b.ReleaseMatchingOnly = releaseMatchingOnly
	return b, e, audio
}

func active(t *testing.T, e *piano.ToneEngine, audio *fakeAudio) float64 {
	t.Helper()
	audio.render(t, 16)
	freq, _ := e.Player().Active()
	return freq
}

func TestKeyDownPlaysEveryNote(t *testing.T) {
	b, e, audio := newInput(t, false)
	for _, note := range keypiano.DefaultNotes {
		for _, key := range []string{note.Key, strings.ToLower(note.Key)} {
			if !b.KeyDown(key) {
				t.Fatalf("key %q was not handled", key)
			}
			if got := active(t, e, audio); got != note.Frequency {
				t.Errorf("key %q: expected %v Hz, got %v", key, note.Frequency, got)
			}
			b.KeyUp(key)
			if got := active(t, e, audio); got != 0 {
				t.Errorf("key %q: expected silence after release, got %v", key, got)
			}
		}
	}
}

func TestKeyDownIgnoresOtherKeys(t *testing.T) {
	b, e, audio := newInput(t, false)
	if b.KeyDown("Q") {
		t.Error("Q should not be a trigger key")
	}
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected silence, got %v", got)
	}
}

func TestAnyKeyUpStopsNote(t *testing.T) {
	b, e, audio := newInput(t, false)
	b.KeyDown("A")
	b.KeyDown("S") // without releasing A
	if got := active(t, e, audio); got != 293.66 {
		t.Fatalf("expected 293.66 Hz, got %v", got)
	}
	b.KeyUp("A") // not the sounding note
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected any release to stop the note, got %v", got)
	}
	b.KeyDown("D")
	b.KeyUp("Shift")
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected a non-trigger key release to stop the note, got %v", got)
	}
}

func TestReleaseMatchingOnly(t *testing.T) {
	b, e, audio := newInput(t, true)
	b.KeyDown("A")
	b.KeyDown("S")
	b.KeyUp("A")
	if got := active(t, e, audio); got != 293.66 {
		t.Errorf("expected S to keep sounding, got %v", got)
	}
	b.KeyUp("S")
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected silence, got %v", got)
	}
}

func TestAutoRepeatIgnored(t *testing.T) {
	broker := piano.NewBroker()
	e := piano.NewToneEngine(broker)
	audio := &fakeAudio{}
	if err := e.Initialize(audio); err != nil {
		t.Fatal(err)
	}
	b := piano.NewInputBinding(keypiano.DefaultNotes, e)
	b.KeyDown("A")
	audio.render(t, 16)
	b.KeyDown("A")
	b.KeyDown("a")
	if n := len(broker.ToPlayer); n != 0 {
		t.Errorf("expected no messages for auto-repeat, got %d", n)
	}
	b.KeyUp("A")
	b.KeyDown("A")
	if got := active(t, e, audio); got != 261.63 {
		t.Errorf("expected a new press after release to play, got %v", got)
	}
}

func TestPointer(t *testing.T) {
	b, e, audio := newInput(t, false)
	b.PointerLeave(2) // not pressed: no effect
	b.PointerPress(4)
	if !b.PointerPressed(4) {
		t.Error("expected button 4 to be pressed")
	}
	if got := active(t, e, audio); got != 392.00 {
		t.Fatalf("expected 392 Hz, got %v", got)
	}
	b.PointerLeave(3) // other button, not pressed
	if got := active(t, e, audio); got != 392.00 {
		t.Errorf("leaving an unpressed button should not stop the note, got %v", got)
	}
	b.PointerLeave(4)
	if got := active(t, e, audio); got != 0 {
		t.Errorf("leaving the pressed button should stop the note, got %v", got)
	}
	b.PointerPress(7)
	b.PointerRelease(7)
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected release to stop the note, got %v", got)
	}
	b.PointerPress(-1)
	b.PointerPress(8)
	if got := active(t, e, audio); got != 0 {
		t.Errorf("out of range buttons should be ignored, got %v", got)
	}
}

func TestMIDIEvent(t *testing.T) {
	b, e, audio := newInput(t, false)
	b.MIDIEvent(piano.NoteEvent{On: true, Note: 62})
	if got := active(t, e, audio); got != 293.66 {
		t.Errorf("expected MIDI 62 to play D4, got %v", got)
	}
	b.MIDIEvent(piano.NoteEvent{On: true, Note: 61}) // C#4 is not on the keyboard
	if got := active(t, e, audio); got != 293.66 {
		t.Errorf("expected MIDI 61 to be ignored, got %v", got)
	}
	b.MIDIEvent(piano.NoteEvent{On: false, Note: 62})
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected note-off to stop, got %v", got)
	}
}

func TestReleaseAll(t *testing.T) {
	b, e, audio := newInput(t, true)
	b.KeyDown("A")
	b.PointerPress(1)
	b.ReleaseAll()
	if got := active(t, e, audio); got != 0 {
		t.Errorf("expected silence, got %v", got)
	}
	if b.PointerPressed(1) {
		t.Error("expected pointer state to be cleared")
	}
	b.KeyDown("A")
	if got := active(t, e, audio); got != 261.63 {
		t.Errorf("expected A to play again after ReleaseAll, got %v", got)
	}
}
