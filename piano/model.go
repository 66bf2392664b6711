package piano

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/keypiano/keypiano"
)

type (
	// Model is the state of the piano window. It is owned by the GUI
	// goroutine: all methods must be called from it, and messages from other
	// goroutines reach it through Broker.ToModel and ProcessMsg.
	//
	// The tone engine and the recorder never share state; the model only
	// hosts both.
	Model struct {
		broker        *Broker
		prefs         Preferences
		tones         *ToneEngine
		input         *InputBinding
		rec           recorderState
		midi          midiState
		alerts        Alerts
		notifications []Notification
		sounding      float64
		tempDir       string
		closed        bool
	}

	// ModelOptions are the collaborators of the model. Nil Capture or MIDI
	// mean that the platform has no such support.
	ModelOptions struct {
		Notes       keypiano.Notes
		Preferences Preferences
		Capture     keypiano.CaptureContext
		MIDI        MIDIContext
		// TempDir holds the encoded recordings; os.TempDir() if empty.
		TempDir string
	}
)

func NewModel(broker *Broker, opts ModelOptions) *Model {
	notes := opts.Notes
	if notes == nil {
		notes = keypiano.DefaultNotes
	}
	m := &Model{
		broker:  broker,
		prefs:   opts.Preferences,
		tempDir: opts.TempDir,
	}
	m.tones = NewToneEngine(broker)
	m.input = NewInputBinding(notes, m.tones)
	m.input.ReleaseMatchingOnly = opts.Preferences.Tone.ReleaseMatchingOnly
	m.rec.capture = opts.Capture
	m.rec.level = minLevel
	m.midi.context = opts.MIDI
	if m.midi.context == nil {
		m.midi.context = NullMIDIContext{}
	}
	return m
}

// Initialize binds the audio output when the window opens. Failure is
// reported to the user and returned.
func (m *Model) Initialize(audio keypiano.AudioContext) error {
	if err := m.tones.Initialize(audio); err != nil {
		m.notify("Audio unavailable", err)
		return err
	}
	m.tones.Configure(m.prefs.Tone.Waveform, m.prefs.Tone.Volume)
	return nil
}

func (m *Model) Broker() *Broker          { return m.broker }
func (m *Model) Preferences() Preferences { return m.prefs }
func (m *Model) Tones() *ToneEngine       { return m.tones }
func (m *Model) Input() *InputBinding     { return m.input }
func (m *Model) Notes() keypiano.Notes    { return m.input.Notes() }
func (m *Model) Alerts() *Alerts          { return &m.alerts }
func (m *Model) Closed() bool             { return m.closed }

// Sounding returns the frequency of the tone the player last reported as
// sounding, or zero.
func (m *Model) Sounding() float64 { return m.sounding }

// Notification returns the oldest notification not yet dismissed.
func (m *Model) Notification() (Notification, bool) {
	if len(m.notifications) == 0 {
		return Notification{}, false
	}
	return m.notifications[0], true
}

type (
	dismissNotification Model
	releaseMatchingOnly Model
)

func (m *Model) DismissNotification() Action { return MakeAction((*dismissNotification)(m)) }
func (m *dismissNotification) Enabled() bool { return len(m.notifications) > 0 }
func (m *dismissNotification) Do()           { m.notifications = m.notifications[1:] }

// ReleaseMatchingOnly switches between stopping the note on any release and
// only on the release of the input that started it.
func (m *Model) ReleaseMatchingOnly() Bool         { return MakeBool((*releaseMatchingOnly)(m)) }
func (m *releaseMatchingOnly) Value() bool         { return m.input.ReleaseMatchingOnly }
func (m *releaseMatchingOnly) SetValue(value bool) { m.input.ReleaseMatchingOnly = value }

// ProcessMsg applies a message received from Broker.ToModel.
func (m *Model) ProcessMsg(msg MsgToModel) {
	switch d := msg.Data.(type) {
	case func():
		d()
	case PlayerStatus:
		m.sounding = d.Frequency
	case NoteEvent:
		m.input.MIDIEvent(d)
	case streamOpened, autoStop, sessionFinished, recordingLevel:
		m.Recorder().handle(d)
	default:
		slog.Debug("unknown message to model", "type", fmt.Sprintf("%T", d))
	}
}

// Close releases everything the model owns: the audio context, a pending
// microphone request or capture session, the recording file and the MIDI
// devices. Calling it again does nothing.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.Recorder().close()
	m.MIDI().close()
	var errs []error
	if err := m.tones.Teardown(); err != nil {
		errs = append(errs, fmt.Errorf("closing audio failed: %w", err))
	}
	if m.rec.capture != nil {
		if err := m.rec.capture.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing capture failed: %w", err))
		}
	}
	return errors.Join(errs...)
}

// notify reports err to the user as a blocking notification.
func (m *Model) notify(title string, err error) {
	slog.Error(title, "error", err)
	m.notifications = append(m.notifications, Notification{Title: title, Message: err.Error()})
}
