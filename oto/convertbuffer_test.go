package oto_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/oto"
)

func TestFloatBufferTo32BitLE(t *testing.T) {
	buf := keypiano.AudioBuffer{{0, 0.5}, {-2, 2}}
	out := oto.FloatBufferTo32BitLE(buf, nil)
	if len(out) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(out))
	}
	expected := []float32{0, 0.5, -1, 1}
	for i, e := range expected {
		got := math.Float32frombits(binary.LittleEndian.Uint32(out[i*4:]))
		if got != e {
			t.Errorf("sample %d: expected %v, got %v", i, e, got)
		}
	}
}

func TestFloatBufferTo32BitLEReusesCapacity(t *testing.T) {
	tmp := make([]byte, 0, 64)
	out := oto.FloatBufferTo32BitLE(keypiano.AudioBuffer{{1, 1}}, tmp)
	if &out[0] != &tmp[:1][0] {
		t.Error("expected the output to reuse the capacity of the given buffer")
	}
}
