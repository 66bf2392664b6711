package oto

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/keypiano/keypiano"
)

type (
	OtoContext struct {
		context *oto.Context
	}

	// otoReader pulls audio from the callback whenever oto needs more data.
	// Read is called from oto's own goroutine.
	otoReader struct {
		callback  func(keypiano.AudioBuffer) error
		audio     keypiano.AudioBuffer
		tmpBuffer []byte
		err       error
	}
)

const otoBufferSize = 50 * time.Millisecond

// NewContext creates the process-wide oto context and waits until the audio
// device is ready.
func NewContext() (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   keypiano.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   otoBufferSize,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

// Play starts a player that calls the callback to fill every block of
// output. Closing the returned io.Closer stops the player.
func (c *OtoContext) Play(callback func(keypiano.AudioBuffer) error) io.Closer {
	r := &otoReader{callback: callback}
	player := c.context.NewPlayer(r)
	player.Play()
	return keypiano.CloserFunc(func() error {
		if err := player.Close(); err != nil {
			return fmt.Errorf("cannot close oto player: %w", err)
		}
		return nil
	})
}

// Close suspends the output. oto allows only one context per process, so
// the context itself is never destroyed.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (r *otoReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(r.audio) < frames {
		r.audio = make(keypiano.AudioBuffer, frames)
	}
	r.audio = r.audio[:frames]
	if err := r.callback(r.audio); err != nil {
		slog.Error("audio callback failed, stopping output", "error", err)
		r.err = io.EOF
		return 0, r.err
	}
	r.tmpBuffer = FloatBufferTo32BitLE(r.audio, r.tmpBuffer[:0])
	return copy(p, r.tmpBuffer), nil
}
