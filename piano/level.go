package piano

import (
	"encoding/binary"
	"math"

	"github.com/viterin/vek/vek32"
)

type Decibel float32

const minLevel Decibel = -60

// PeakLevel returns the peak of a fragment of 16-bit little-endian PCM, in
// decibels relative to full scale, floored at -60 dB.
func PeakLevel(fragment []byte) Decibel {
	n := len(fragment) / 2
	if n == 0 {
		return minLevel
	}
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(fragment[2*i:]))) / math.MaxInt16
	}
	vek32.Abs_Inplace(samples)
	peak := vek32.Max(samples)
	if peak <= 0 {
		return minLevel
	}
	db := Decibel(20 * math.Log10(float64(peak)))
	if db < minLevel {
		return minLevel
	}
	return db
}
