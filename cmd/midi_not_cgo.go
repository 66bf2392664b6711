//go:build !cgo

package cmd

import (
	"github.com/keypiano/keypiano/piano"
)

func NewMidiContext(broker *piano.Broker) piano.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return piano.NullMIDIContext{}
}
