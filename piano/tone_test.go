package piano_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/piano"
)

type fakeAudio struct {
	callback func(keypiano.AudioBuffer) error
	stopped  bool
	closed   bool
}

func (f *fakeAudio) Play(callback func(keypiano.AudioBuffer) error) io.Closer {
	f.callback = callback
	return keypiano.CloserFunc(func() error {
		f.stopped = true
		return nil
	})
}

func (f *fakeAudio) Close() error {
	f.closed = true
	return nil
}

// render pulls n frames from the engine like the audio backend would.
func (f *fakeAudio) render(t *testing.T, n int) keypiano.AudioBuffer {
	t.Helper()
	buf := make(keypiano.AudioBuffer, n)
	buf.Fill([2]float32{1, 1}) // garbage that the player must overwrite
	if f.callback == nil {
		t.Fatal("audio callback was never registered")
	}
	if err := f.callback(buf); err != nil {
		t.Fatalf("audio callback failed: %v", err)
	}
	return buf
}

func cycles(buf keypiano.AudioBuffer) int {
	n := 0
	for i := 1; i < len(buf); i++ {
		if buf[i-1][0] < 0 && buf[i][0] >= 0 {
			n++
		}
	}
	return n
}

func silent(buf keypiano.AudioBuffer) bool {
	for _, f := range buf {
		if f != [2]float32{} {
			return false
		}
	}
	return true
}

func newEngine(t *testing.T) (*piano.ToneEngine, *fakeAudio) {
	t.Helper()
	e := piano.NewToneEngine(piano.NewBroker())
	audio := &fakeAudio{}
	if err := e.Initialize(audio); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return e, audio
}

func TestPlayNoteFrequency(t *testing.T) {
	e, audio := newEngine(t)
	for _, note := range keypiano.DefaultNotes {
		t.Run(note.Label, func(t *testing.T) {
			e.PlayNote(note.Frequency)
			buf := audio.render(t, keypiano.SampleRate)
			freq, ok := e.Player().Active()
			if !ok || freq != note.Frequency {
				t.Fatalf("expected %v Hz to be active, got %v (%v)", note.Frequency, freq, ok)
			}
			if c, want := cycles(buf), int(note.Frequency); c < want-1 || c > want+1 {
				t.Errorf("expected about %d cycles per second, got %d", want, c)
			}
			for i, f := range buf {
				if f[0] != f[1] {
					t.Fatalf("frame %d: expected identical channels, got %v", i, f)
				}
			}
			e.StopNote()
			if !silent(audio.render(t, 512)) {
				t.Error("expected silence after StopNote")
			}
		})
	}
}

func TestStopNoteIdempotent(t *testing.T) {
	e, audio := newEngine(t)
	e.StopNote()
	e.StopNote()
	if !silent(audio.render(t, 256)) {
		t.Error("expected silence")
	}
	e.PlayNote(440)
	e.StopNote()
	e.StopNote()
	if !silent(audio.render(t, 256)) {
		t.Error("expected silence after double StopNote")
	}
	if _, ok := e.Player().Active(); ok {
		t.Error("expected no active tone")
	}
}

func TestMonophonicOverwrite(t *testing.T) {
	e, audio := newEngine(t)
	e.PlayNote(261.63)
	audio.render(t, 128)
	e.PlayNote(293.66)
	buf := audio.render(t, keypiano.SampleRate)
	if freq, ok := e.Player().Active(); !ok || freq != 293.66 {
		t.Fatalf("expected only 293.66 Hz to sound, got %v (%v)", freq, ok)
	}
	if c := cycles(buf); c < 292 || c > 294 {
		t.Errorf("expected the output to contain only the new tone, got %d cycles", c)
	}
	e.StopNote()
	if !silent(audio.render(t, 256)) {
		t.Error("expected a single release to silence everything")
	}
}

func TestPlayerReportsStatus(t *testing.T) {
	broker := piano.NewBroker()
	e := piano.NewToneEngine(broker)
	audio := &fakeAudio{}
	if err := e.Initialize(audio); err != nil {
		t.Fatal(err)
	}
	e.PlayNote(440)
	audio.render(t, 64)
	msg, ok := piano.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatal("expected a status message")
	}
	if s, ok := msg.Data.(piano.PlayerStatus); !ok || s.Frequency != 440 {
		t.Errorf("expected PlayerStatus{440}, got %#v", msg.Data)
	}
}

func TestIgnoresInvalidFrequency(t *testing.T) {
	e, audio := newEngine(t)
	e.PlayNote(0)
	e.PlayNote(-440)
	if !silent(audio.render(t, 64)) {
		t.Error("expected non-positive frequencies to be ignored")
	}
}

func TestTeardown(t *testing.T) {
	e, audio := newEngine(t)
	e.PlayNote(440)
	audio.render(t, 64)
	e.StopNote()
	audio.render(t, 64)
	if err := e.Teardown(); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}
	if !audio.stopped || !audio.closed {
		t.Error("expected Teardown to stop the player and close the context")
	}
	e.PlayNote(440)
	e.StopNote()
	if !silent(audio.render(t, 64)) {
		t.Error("expected PlayNote to be a no-op after Teardown")
	}
	if err := e.Teardown(); err != nil {
		t.Errorf("second Teardown failed: %v", err)
	}
	if e.Ready() {
		t.Error("engine should not be ready after Teardown")
	}
}

func TestInitialize(t *testing.T) {
	e := piano.NewToneEngine(piano.NewBroker())
	e.PlayNote(440) // before Initialize: no-op, must not panic
	if err := e.Initialize(nil); !errors.Is(err, keypiano.ErrPlatformUnsupported) {
		t.Errorf("expected ErrPlatformUnsupported, got %v", err)
	}
	if err := e.Initialize(&fakeAudio{}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := e.Initialize(&fakeAudio{}); !errors.Is(err, piano.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}
