package oto

import (
	"encoding/binary"
	"math"

	"github.com/keypiano/keypiano"
)

const bytesPerFrame = 8 // two float32 channels

// FloatBufferTo32BitLE appends the buffer to out as interleaved little-endian
// float32 samples, clamped to [-1,1]. The capacity of out is reused.
func FloatBufferTo32BitLE(buff keypiano.AudioBuffer, out []byte) []byte {
	for _, frame := range buff {
		for _, v := range frame {
			if v < -1 {
				v = -1
			} else if v > 1 {
				v = 1
			}
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}
