package keypiano

import (
	"context"
	"errors"
)

type (
	// CaptureContext gives access to the microphone. Open blocks until the
	// device is acquired, acquisition fails or ctx is done.
	CaptureContext interface {
		Supported() bool
		Open(ctx context.Context, opts CaptureOptions) (CaptureStream, error)
		Close() error
	}

	// CaptureStream is one live capture session. Fragments delivers the
	// captured audio in the order it was captured. After Stop, the stream
	// delivers every fragment that was still pending and then closes the
	// channel, so receiving until the channel is closed drains the session
	// completely.
	CaptureStream interface {
		Fragments() <-chan []byte
		Format() CaptureFormat
		Stop() error
	}

	CaptureOptions struct {
		SampleRate int
		Channels   int
		// FragmentFrames is the number of frames after which a fragment is
		// emitted. The last fragment can be shorter.
		FragmentFrames int
	}

	// CaptureFormat describes the fragments: little-endian signed 16-bit
	// interleaved PCM.
	CaptureFormat struct {
		SampleRate int
		Channels   int
	}
)

var (
	ErrPlatformUnsupported = errors.New("audio capture is not supported on this platform")
	ErrPermissionDenied    = errors.New("microphone access denied")
	ErrAcquisitionFailed   = errors.New("could not acquire microphone")
)

// BytesPerFrame is the size of one interleaved frame in a fragment.
func (f CaptureFormat) BytesPerFrame() int { return 2 * f.Channels }

// NullCaptureContext reports that capture is unsupported. It is used when
// the binary is built without a capture backend.
type NullCaptureContext struct{}

func (NullCaptureContext) Supported() bool { return false }
func (NullCaptureContext) Open(context.Context, CaptureOptions) (CaptureStream, error) {
	return nil, ErrPlatformUnsupported
}
func (NullCaptureContext) Close() error { return nil }
