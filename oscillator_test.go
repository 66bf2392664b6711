package keypiano_test

import (
	"math"
	"testing"

	"github.com/keypiano/keypiano"
)

// zeroCrossings counts upward zero crossings, which for a periodic waveform
// equals the number of full cycles.
func zeroCrossings(buf []float32) int {
	n := 0
	for i := 1; i < len(buf); i++ {
		if buf[i-1] < 0 && buf[i] >= 0 {
			n++
		}
	}
	return n
}

func TestSineFrequency(t *testing.T) {
	for _, note := range keypiano.DefaultNotes {
		o := keypiano.NewOscillator(note.Frequency, keypiano.Sine)
		buf := make([]float32, keypiano.SampleRate)
		o.Render(buf, keypiano.SampleRate)
		got := zeroCrossings(buf)
		want := int(note.Frequency)
		if got < want-1 || got > want+1 {
			t.Errorf("%s: expected about %d cycles in one second, got %d", note.Label, want, got)
		}
	}
}

func TestOscillatorRange(t *testing.T) {
	for _, w := range []keypiano.Waveform{keypiano.Sine, keypiano.Square, keypiano.Triangle, keypiano.Sawtooth} {
		o := keypiano.NewOscillator(440, w)
		buf := make([]float32, 4096)
		o.Render(buf, keypiano.SampleRate)
		for i, v := range buf {
			if v < -1 || v > 1 || math.IsNaN(float64(v)) {
				t.Fatalf("%v: sample %d out of range: %v", w, i, v)
			}
		}
	}
}

func TestStoppedOscillatorIsSilent(t *testing.T) {
	o := keypiano.NewOscillator(440, keypiano.Sine)
	o.Stop()
	buf := []float32{1, 1, 1, 1}
	o.Render(buf, keypiano.SampleRate)
	for i, v := range buf {
		if v != 0 {
			t.Errorf("sample %d: expected silence, got %v", i, v)
		}
	}
}

func TestParseWaveform(t *testing.T) {
	tests := []struct {
		in   string
		want keypiano.Waveform
		ok   bool
	}{
		{"sine", keypiano.Sine, true},
		{"Square", keypiano.Square, true},
		{"TRIANGLE", keypiano.Triangle, true},
		{"sawtooth", keypiano.Sawtooth, true},
		{"noise", keypiano.Sine, false},
	}
	for _, tt := range tests {
		got, err := keypiano.ParseWaveform(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseWaveform(%q) = %v, %v", tt.in, got, err)
		}
	}
	if s := keypiano.Triangle.Title(); s != "Triangle" {
		t.Errorf("expected title Triangle, got %q", s)
	}
}
