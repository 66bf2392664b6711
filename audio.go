package keypiano

import "io"

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length, each
	// sample represented by [2]float32. [0] is left channel, [1] is right
	AudioBuffer [][2]float32

	// AudioContext is the long-lived audio output owned by the tone engine.
	// Play starts calling the callback from the audio goroutine whenever the
	// output needs more frames; the returned Closer stops the callbacks. Close
	// releases the context itself.
	AudioContext interface {
		Play(callback func(buf AudioBuffer) error) io.Closer
		Close() error
	}

	// CloserFunc adapts a function to io.Closer.
	CloserFunc func() error
)

// SampleRate is the output rate of all AudioContexts, in frames per second.
const SampleRate = 44100

func (f CloserFunc) Close() error { return f() }

// Fill sets every frame of the buffer to v.
func (buffer AudioBuffer) Fill(v [2]float32) {
	for i := range buffer {
		buffer[i] = v
	}
}
