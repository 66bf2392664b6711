package piano

import (
	"encoding/binary"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-wat/ebml-go/webm"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/keypiano/keypiano"
)

type (
	// Artifact is a finished recording. Data is the concatenation of the
	// captured fragments in the order they were captured. The recording is
	// also encoded to a file in the chosen container; URL refers to that
	// file until Release is called.
	Artifact struct {
		Data      []byte
		Format    keypiano.CaptureFormat
		Container Container
		MIMEType  string
		Path      string
		URL       string
		Fragments int
	}

	Container int

	writeNopCloser struct{ io.Writer }
)

const (
	ContainerWebM Container = iota
	ContainerWAV
)

const pcmCodecID = "A_PCM/INT/LIT"

// blocks are written in 20 ms chunks
const webmBlocksPerSecond = 50

func (c Container) String() string {
	switch c {
	case ContainerWebM:
		return "webm"
	case ContainerWAV:
		return "wav"
	}
	return fmt.Sprintf("container(%d)", int(c))
}

func (c Container) MIMEType() string {
	if c == ContainerWAV {
		return "audio/wav"
	}
	return "audio/webm"
}

func (c Container) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Container) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "webm":
		*c = ContainerWebM
	case "wav":
		*c = ContainerWAV
	default:
		return fmt.Errorf("unknown container %q", string(text))
	}
	return nil
}

func (w writeNopCloser) Close() error { return nil }

// NewArtifact encodes data into a temporary file in dir (os.TempDir() if dir
// is empty) and returns the artifact referring to it.
func NewArtifact(data []byte, format keypiano.CaptureFormat, container Container, dir string) (*Artifact, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid capture format %+v", format)
	}
	f, err := os.CreateTemp(dir, "keypiano-*."+container.String())
	if err != nil {
		return nil, fmt.Errorf("could not create recording file: %w", err)
	}
	switch container {
	case ContainerWAV:
		err = encodeWAV(f, data, format)
	default:
		err = encodeWebM(f, data, format)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("could not encode recording: %w", err)
	}
	path, err := filepath.Abs(f.Name())
	if err != nil {
		path = f.Name()
	}
	return &Artifact{
		Data:      data,
		Format:    format,
		Container: container,
		MIMEType:  container.MIMEType(),
		Path:      path,
		URL:       (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(),
	}, nil
}

// WriteTo copies the encoded recording to w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}

// Release removes the encoded file. The artifact must not be used after.
func (a *Artifact) Release() error {
	if a.Path == "" {
		return nil
	}
	err := os.Remove(a.Path)
	a.Path, a.URL = "", ""
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (a *Artifact) Duration() time.Duration {
	frames := len(a.Data) / a.Format.BytesPerFrame()
	return time.Duration(frames) * time.Second / time.Duration(a.Format.SampleRate)
}

func encodeWebM(w io.Writer, data []byte, format keypiano.CaptureFormat) error {
	tracks := []webm.TrackEntry{{
		Name:        "Microphone",
		TrackNumber: 1,
		TrackUID:    1,
		CodecID:     pcmCodecID,
		TrackType:   2, // audio
		Audio: &webm.Audio{
			SamplingFrequency: float64(format.SampleRate),
			Channels:          uint64(format.Channels),
		},
	}}
	writers, err := webm.NewSimpleBlockWriter(writeNopCloser{w}, tracks)
	if err != nil {
		return fmt.Errorf("webm.NewSimpleBlockWriter: %w", err)
	}
	bw := writers[0]
	bytesPerFrame := format.BytesPerFrame()
	blockSize := format.SampleRate / webmBlocksPerSecond * bytesPerFrame
	for offset := 0; offset < len(data); offset += blockSize {
		end := min(offset+blockSize, len(data))
		timestamp := int64(offset/bytesPerFrame) * 1000 / int64(format.SampleRate)
		if _, err := bw.Write(true, timestamp, data[offset:end]); err != nil {
			return fmt.Errorf("writing webm block failed: %w", err)
		}
	}
	return bw.Close()
}

func encodeWAV(w io.WriteSeeker, data []byte, format keypiano.CaptureFormat) error {
	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}
	enc := wav.NewEncoder(w, format.SampleRate, 16, format.Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples failed: %w", err)
	}
	return enc.Close()
}
