//go:build cgo

package cmd

import (
	"github.com/keypiano/keypiano/piano"
	"github.com/keypiano/keypiano/piano/gomidi"
)

func NewMidiContext(broker *piano.Broker) piano.MIDIContext {
	return gomidi.NewContext(broker)
}
