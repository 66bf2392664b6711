package piano_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/piano"
)

func TestNewArtifact(t *testing.T) {
	format := keypiano.CaptureFormat{SampleRate: 8000, Channels: 2}
	data := make([]byte, 8000*format.BytesPerFrame()/2) // half a second
	for i := range data {
		data[i] = byte(i)
	}
	for _, tc := range []struct {
		container piano.Container
		mime      string
		magic     []byte
	}{
		{piano.ContainerWebM, "audio/webm", []byte{0x1A, 0x45, 0xDF, 0xA3}},
		{piano.ContainerWAV, "audio/wav", []byte("RIFF")},
	} {
		t.Run(tc.container.String(), func(t *testing.T) {
			dir := t.TempDir()
			a, err := piano.NewArtifact(data, format, tc.container, dir)
			if err != nil {
				t.Fatalf("NewArtifact failed: %v", err)
			}
			if a.MIMEType != tc.mime {
				t.Errorf("expected %s, got %s", tc.mime, a.MIMEType)
			}
			if filepath.Dir(a.Path) != dir || filepath.Ext(a.Path) != "."+tc.container.String() {
				t.Errorf("unexpected path %s", a.Path)
			}
			if !bytes.Equal(a.Data, data) {
				t.Error("expected Data to be kept as is")
			}
			if d := a.Duration(); d != 500*time.Millisecond {
				t.Errorf("expected 500ms, got %v", d)
			}
			var b bytes.Buffer
			n, err := a.WriteTo(&b)
			if err != nil {
				t.Fatalf("WriteTo failed: %v", err)
			}
			if n <= int64(len(data))/2 || !bytes.HasPrefix(b.Bytes(), tc.magic) {
				t.Errorf("unexpected encoding of %d bytes, starting with % x", n, b.Bytes()[:min(4, b.Len())])
			}
			path := a.Path
			if err := a.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}
			if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("expected %s to be removed, got %v", path, err)
			}
			if a.URL != "" {
				t.Error("expected the URL to be revoked")
			}
			if err := a.Release(); err != nil {
				t.Errorf("second Release failed: %v", err)
			}
		})
	}
}

func TestNewArtifactInvalidFormat(t *testing.T) {
	if _, err := piano.NewArtifact([]byte{1, 2}, keypiano.CaptureFormat{}, piano.ContainerWebM, t.TempDir()); err == nil {
		t.Error("expected an error for an empty format")
	}
}

func TestContainerText(t *testing.T) {
	var c piano.Container
	if err := c.UnmarshalText([]byte("WAV")); err != nil || c != piano.ContainerWAV {
		t.Errorf("expected wav, got %v (%v)", c, err)
	}
	if err := c.UnmarshalText([]byte("ogg")); err == nil {
		t.Error("expected an error for ogg")
	}
	if b, _ := piano.ContainerWebM.MarshalText(); string(b) != "webm" {
		t.Errorf("expected webm, got %s", b)
	}
}
