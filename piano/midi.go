package piano

import (
	"fmt"
	"strings"
)

type (
	MIDIModel Model

	midiState struct {
		currentInput MIDIInputDevice
		context      MIDIContext
	}

	// MIDIContext lists the MIDI input devices of the system. Opened devices
	// deliver their note events to Broker.ToModel as NoteEvent.
	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

func (m *Model) MIDI() *MIDIModel { return (*MIDIModel)(m) }

// Input returns the name of the open input device, or "" if none is open.
func (m *MIDIModel) Input() string {
	if m.midi.currentInput == nil {
		return ""
	}
	return m.midi.currentInput.String()
}

// OpenByPrefix opens the first input device whose name starts with prefix,
// closing the previously open device.
func (m *MIDIModel) OpenByPrefix(prefix string) error {
	if m.midi.context == nil || m.midi.context.Support() != MIDISupported {
		return fmt.Errorf("MIDI is not available")
	}
	for input := range m.midi.context.Inputs {
		if !strings.HasPrefix(input.String(), prefix) {
			continue
		}
		m.closeInput()
		if err := input.Open(); err != nil {
			return fmt.Errorf("opening MIDI input %s failed: %w", input, err)
		}
		m.midi.currentInput = input
		(*Model)(m).Alerts().Add(fmt.Sprintf("Opened MIDI input port: %s", input), Info)
		return nil
	}
	return fmt.Errorf("no MIDI input device found with prefix %q", prefix)
}

func (m *MIDIModel) closeInput() {
	if m.midi.currentInput == nil {
		return
	}
	if err := m.midi.currentInput.Close(); err != nil {
		(*Model)(m).Alerts().Add(fmt.Sprintf("Failed to close MIDI input port: %s", err.Error()), Error)
	}
	m.midi.currentInput = nil
}

func (m *MIDIModel) close() {
	m.closeInput()
	if m.midi.context != nil {
		m.midi.context.Close()
	}
}

// NullMIDIContext is a mockup MIDIContext if you don't want to create a real
// one.
type NullMIDIContext struct{}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                        {}
func (m NullMIDIContext) Support() MIDISupport                          { return MIDISupportNotCompiled }
