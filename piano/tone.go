package piano

import (
	"errors"
	"fmt"
	"io"

	"github.com/keypiano/keypiano"
)

type (
	// ToneEngine turns note-trigger and note-release events into a tone. It
	// owns the audio context for the lifetime of the window: Initialize binds
	// the context and starts the player, Teardown releases it. Before
	// Initialize and after Teardown, PlayNote and StopNote do nothing.
	//
	// ToneEngine is used from the GUI goroutine; the Player it drives runs in
	// the audio goroutine.
	ToneEngine struct {
		broker  *Broker
		player  *Player
		context keypiano.AudioContext
		closer  io.Closer
		state   toneState
	}

	toneState int
)

const (
	toneUninitialized toneState = iota
	toneReady
	toneTornDown
)

var ErrAlreadyInitialized = errors.New("tone engine already initialized")

func NewToneEngine(broker *Broker) *ToneEngine {
	return &ToneEngine{broker: broker, player: NewPlayer(broker)}
}

// Initialize binds the audio context and starts rendering. A nil context
// means the platform has no audio output.
func (e *ToneEngine) Initialize(context keypiano.AudioContext) error {
	if e.state != toneUninitialized {
		return ErrAlreadyInitialized
	}
	if context == nil {
		return fmt.Errorf("no audio output: %w", keypiano.ErrPlatformUnsupported)
	}
	e.context = context
	e.closer = context.Play(func(buf keypiano.AudioBuffer) error {
		e.player.Process(buf)
		return nil
	})
	e.state = toneReady
	return nil
}

// PlayNote starts a tone at the given frequency. A previously sounding tone
// is stopped first.
func (e *ToneEngine) PlayNote(frequency float64) {
	if e.state != toneReady || frequency <= 0 {
		return
	}
	TrySend(e.broker.ToPlayer, any(NoteOn{Frequency: frequency}))
}

// StopNote stops the sounding tone. It is a no-op if nothing is sounding.
func (e *ToneEngine) StopNote() {
	if e.state != toneReady {
		return
	}
	TrySend(e.broker.ToPlayer, any(NoteOff{}))
}

// Configure changes the waveform and volume of subsequently played notes.
func (e *ToneEngine) Configure(waveform keypiano.Waveform, volume float32) {
	if e.state != toneReady {
		return
	}
	TrySend(e.broker.ToPlayer, any(PlayerSettings{Waveform: waveform, Volume: volume}))
}

// Teardown stops rendering and releases the audio context. It is safe to
// call more than once.
func (e *ToneEngine) Teardown() error {
	if e.state != toneReady {
		e.state = toneTornDown
		return nil
	}
	e.state = toneTornDown
	var errs []error
	if err := e.closer.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.context.Close(); err != nil {
		errs = append(errs, err)
	}
	e.closer, e.context = nil, nil
	return errors.Join(errs...)
}

func (e *ToneEngine) Ready() bool { return e.state == toneReady }

// Player returns the player rendering the tones. Its methods must only be
// called from the audio goroutine.
func (e *ToneEngine) Player() *Player { return e.player }
