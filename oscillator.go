package keypiano

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	Waveform int

	// Oscillator is a tone generator: a single periodic waveform at a fixed
	// frequency. It is not safe for concurrent use; the player owns it.
	Oscillator struct {
		frequency float64
		waveform  Waveform
		phase     float64 // in cycles, [0,1)
		stopped   bool
	}
)

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

var waveformNames = [...]string{"sine", "square", "triangle", "sawtooth"}

var titleCaser = cases.Title(language.English)

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// Title returns the name of the waveform for display, e.g. "Sine".
func (w Waveform) Title() string {
	return titleCaser.String(w.String())
}

func ParseWaveform(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if strings.EqualFold(name, s) {
			return Waveform(i), nil
		}
	}
	return Sine, fmt.Errorf("unknown waveform %q", s)
}

func (w Waveform) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Waveform) UnmarshalText(text []byte) error {
	v, err := ParseWaveform(string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func NewOscillator(frequency float64, waveform Waveform) *Oscillator {
	return &Oscillator{frequency: frequency, waveform: waveform}
}

func (o *Oscillator) Frequency() float64 { return o.frequency }
func (o *Oscillator) Waveform() Waveform { return o.waveform }
func (o *Oscillator) Stopped() bool      { return o.stopped }

// Stop silences the oscillator immediately; there is no release phase.
func (o *Oscillator) Stop() { o.stopped = true }

// Render writes len(out) mono samples in range [-1,1] at the given sample
// rate. A stopped oscillator renders silence.
func (o *Oscillator) Render(out []float32, sampleRate int) {
	if o.stopped {
		for i := range out {
			out[i] = 0
		}
		return
	}
	delta := o.frequency / float64(sampleRate)
	for i := range out {
		out[i] = float32(o.sample(o.phase))
		o.phase += delta
		o.phase -= math.Floor(o.phase)
	}
}

func (o *Oscillator) sample(p float64) float64 {
	switch o.waveform {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(p-0.5)
	case Sawtooth:
		return 2*p - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
