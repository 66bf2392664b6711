// Package sdlcapture records the default microphone with SDL2 queued audio
// capture.
package sdlcapture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/keypiano/keypiano"
	"github.com/veandco/go-sdl2/sdl"
)

type (
	Context struct {
		initErr error
	}

	stream struct {
		device        sdl.AudioDeviceID
		format        keypiano.CaptureFormat
		fragmentBytes int
		fragments     chan []byte
		stop          chan struct{}
		stopOnce      sync.Once
	}
)

// pollInterval is how often the capture queue is checked for full
// fragments. Shorter than any sensible fragment.
const pollInterval = 20 * time.Millisecond

func NewContext() *Context {
	c := &Context{}
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		c.initErr = err
		slog.Warn("SDL audio unavailable", "error", err)
	}
	return c
}

func (c *Context) Supported() bool {
	return c.initErr == nil && sdl.GetNumAudioDevices(true) > 0
}

// Open opens the default capture device. The operating system may ask the
// user for permission here.
func (c *Context) Open(ctx context.Context, opts keypiano.CaptureOptions) (keypiano.CaptureStream, error) {
	if c.initErr != nil {
		return nil, fmt.Errorf("%w: %w", keypiano.ErrPlatformUnsupported, c.initErr)
	}
	if sdl.GetNumAudioDevices(true) <= 0 {
		return nil, fmt.Errorf("%w: no microphone found", keypiano.ErrAcquisitionFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	desired := sdl.AudioSpec{
		Freq:     int32(opts.SampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: uint8(opts.Channels),
		Samples:  1024,
	}
	var obtained sdl.AudioSpec
	device, err := sdl.OpenAudioDevice("", true, &desired, &obtained, 0)
	if err != nil {
		return nil, classify(err)
	}
	if err := ctx.Err(); err != nil {
		sdl.CloseAudioDevice(device)
		return nil, err
	}
	format := keypiano.CaptureFormat{SampleRate: int(obtained.Freq), Channels: int(obtained.Channels)}
	s := &stream{
		device:        device,
		format:        format,
		fragmentBytes: max(opts.FragmentFrames, 1) * format.BytesPerFrame(),
		fragments:     make(chan []byte, 16),
		stop:          make(chan struct{}),
	}
	sdl.PauseAudioDevice(device, false)
	slog.Debug("capture device opened", "device", device, "rate", format.SampleRate, "channels", format.Channels)
	go s.run()
	return s, nil
}

func (c *Context) Close() error {
	if c.initErr == nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
	}
	return nil
}

func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"permission", "denied", "not authorized"} {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%w: %w", keypiano.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %w", keypiano.ErrAcquisitionFailed, err)
}

func (s *stream) Fragments() <-chan []byte       { return s.fragments }
func (s *stream) Format() keypiano.CaptureFormat { return s.format }

func (s *stream) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *stream) run() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			sdl.PauseAudioDevice(s.device, true)
			if err := s.drain(true); err != nil {
				slog.Warn("flushing capture queue failed", "error", err)
			}
			sdl.CloseAudioDevice(s.device)
			close(s.fragments)
			return
		case <-ticker.C:
			if err := s.drain(false); err != nil {
				slog.Error("reading capture queue failed", "error", err)
				// leave the stream to be stopped by its owner
			}
		}
	}
}

// drain emits every full fragment in the queue, and with flush also the
// remaining partial fragment.
func (s *stream) drain(flush bool) error {
	for {
		queued := int(sdl.GetQueuedAudioSize(s.device))
		n := s.fragmentBytes
		if queued < n {
			if !flush || queued == 0 {
				return nil
			}
			n = queued - queued%s.format.BytesPerFrame()
			if n == 0 {
				return nil
			}
		}
		buf := make([]byte, n)
		read, err := sdl.DequeueAudio(s.device, buf)
		if err != nil {
			return err
		}
		if read <= 0 {
			return errors.New("capture queue returned no data")
		}
		s.fragments <- buf[:read]
	}
}
