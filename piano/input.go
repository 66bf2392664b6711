package piano

import (
	"fmt"
	"strings"

	"github.com/keypiano/keypiano"
)

type (
	// InputBinding maps keyboard, pointer and MIDI events to the tone engine.
	//
	// A key-down of a trigger key plays its note, ignoring auto-repeat of a
	// key that is already held. By default every key-up stops the sounding
	// note, whichever key was released; with ReleaseMatchingOnly, only the
	// release of the input that started the sounding note stops it. Pointer
	// press plays the note of the button, pointer release or leaving the
	// button while pressed stops it.
	InputBinding struct {
		notes               keypiano.Notes
		tones               *ToneEngine
		held                map[string]bool
		pointerDown         []bool
		source              string
		ReleaseMatchingOnly bool
	}

	// NoteEvent is a note-on or note-off from a MIDI keyboard.
	NoteEvent struct {
		On   bool
		Note byte
	}
)

// midiNotes are the MIDI note numbers of the C4..C5 diatonic scale, in the
// order of keypiano.DefaultNotes.
var midiNotes = [...]byte{60, 62, 64, 65, 67, 69, 71, 72}

func NewInputBinding(notes keypiano.Notes, tones *ToneEngine) *InputBinding {
	return &InputBinding{
		notes:       notes,
		tones:       tones,
		held:        make(map[string]bool),
		pointerDown: make([]bool, len(notes)),
	}
}

func (b *InputBinding) Notes() keypiano.Notes { return b.notes }

// KeyDown handles a key press and returns true if the key is a trigger key.
func (b *InputBinding) KeyDown(key string) bool {
	note, ok := b.notes.ByKey(key)
	if !ok {
		return false
	}
	k := strings.ToUpper(key)
	if b.held[k] {
		return true // auto-repeat
	}
	b.held[k] = true
	b.play("key:"+k, note.Frequency)
	return true
}

func (b *InputBinding) KeyUp(key string) {
	k := strings.ToUpper(key)
	delete(b.held, k)
	b.stop("key:" + k)
}

func (b *InputBinding) PointerPress(index int) {
	if index < 0 || index >= len(b.notes) {
		return
	}
	b.pointerDown[index] = true
	b.play(pointerSource(index), b.notes[index].Frequency)
}

// PointerRelease handles both release and cancellation of a press.
func (b *InputBinding) PointerRelease(index int) {
	if index < 0 || index >= len(b.notes) {
		return
	}
	b.pointerDown[index] = false
	b.stop(pointerSource(index))
}

// PointerLeave stops the note only if the pointer is pressed on the button
// it leaves.
func (b *InputBinding) PointerLeave(index int) {
	if index < 0 || index >= len(b.notes) || !b.pointerDown[index] {
		return
	}
	b.PointerRelease(index)
}

// PointerPressed reports whether the button of the given note is held down.
func (b *InputBinding) PointerPressed(index int) bool {
	return index >= 0 && index < len(b.pointerDown) && b.pointerDown[index]
}

// MIDIEvent maps MIDI note numbers of the C4..C5 diatonic scale onto the
// notes with the same index; other note numbers are ignored.
func (b *InputBinding) MIDIEvent(e NoteEvent) {
	index := -1
	for i, n := range midiNotes {
		if n == e.Note {
			index = i
			break
		}
	}
	if index < 0 || index >= len(b.notes) {
		return
	}
	source := fmt.Sprintf("midi:%d", e.Note)
	if e.On {
		b.play(source, b.notes[index].Frequency)
		return
	}
	b.stop(source)
}

// ReleaseAll forgets every held key and button and stops the sounding note,
// e.g. when the window loses focus and release events would never arrive.
func (b *InputBinding) ReleaseAll() {
	clear(b.held)
	for i := range b.pointerDown {
		b.pointerDown[i] = false
	}
	b.source = ""
	b.tones.StopNote()
}

func (b *InputBinding) play(source string, frequency float64) {
	b.source = source
	b.tones.PlayNote(frequency)
}

func (b *InputBinding) stop(source string) {
	if b.ReleaseMatchingOnly && source != b.source {
		return
	}
	b.source = ""
	b.tones.StopNote()
}

func pointerSource(index int) string {
	return fmt.Sprintf("pointer:%d", index)
}
