package gomidi

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/keypiano/keypiano/piano"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// RTMIDIContext delivers the note events of the open input device to the
	// model as piano.NoteEvent messages.
	RTMIDIContext struct {
		driver             *rtmididrv.Driver
		broker             *piano.Broker
		inputDevices       []RTMIDIDevice
		devicesInitialized bool
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
		stop    *func()
	}
)

// NewContext opens the driver. If that fails, the context reports
// piano.MIDISupportNoDriver and lists no devices.
func NewContext(broker *piano.Broker) *RTMIDIContext {
	m := RTMIDIContext{broker: broker}
	var err error
	if m.driver, err = rtmididrv.New(); err != nil {
		slog.Warn("no MIDI driver", "error", err)
		m.driver = nil
	}
	return &m
}

func (m *RTMIDIContext) Support() piano.MIDISupport {
	if m.driver == nil {
		return piano.MIDISupportNoDriver
	}
	return piano.MIDISupported
}

func (m *RTMIDIContext) Inputs(yield func(piano.MIDIInputDevice) bool) {
	if !m.devicesInitialized {
		m.initInputDevices()
	}
	for _, device := range m.inputDevices {
		if !yield(device) {
			break
		}
	}
}

func (m *RTMIDIContext) initInputDevices() {
	m.devicesInitialized = true
	if m.driver == nil {
		return
	}
	ins, err := m.driver.Ins()
	if err != nil {
		slog.Warn("listing MIDI inputs failed", "error", err)
		return
	}
	for _, in := range ins {
		m.inputDevices = append(m.inputDevices, RTMIDIDevice{context: m, in: in, stop: new(func())})
	}
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	for _, d := range c.inputDevices {
		if d.IsOpen() {
			d.Close()
		}
	}
	c.driver.Close()
}

// handleMessage runs on the driver's goroutine.
func (c *RTMIDIContext) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		piano.TrySend(c.broker.ToModel, piano.MsgToModel{Data: piano.NoteEvent{On: true, Note: key}})
	case msg.GetNoteEnd(&channel, &key):
		piano.TrySend(c.broker.ToModel, piano.MsgToModel{Data: piano.NoteEvent{On: false, Note: key}})
	}
}

func (d RTMIDIDevice) Open() error {
	if d.context.driver == nil {
		return errors.New("no driver available")
	}
	if d.in.IsOpen() {
		return nil
	}
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, d.context.handleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	*d.stop = stop
	return nil
}

func (d RTMIDIDevice) Close() error {
	if *d.stop != nil {
		(*d.stop)()
		*d.stop = nil
	}
	return d.in.Close()
}

func (d RTMIDIDevice) IsOpen() bool   { return d.in.IsOpen() }
func (d RTMIDIDevice) String() string { return d.in.String() }
