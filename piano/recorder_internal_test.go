package piano

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/keypiano/keypiano"
)

type closedStream struct {
	stops int
}

func (s *closedStream) Fragments() <-chan []byte {
	c := make(chan []byte)
	close(c)
	return c
}

func (s *closedStream) Format() keypiano.CaptureFormat {
	return keypiano.CaptureFormat{SampleRate: 8000, Channels: 1}
}

func (s *closedStream) Stop() error {
	s.stops++
	return nil
}

func TestStaleMessagesIgnored(t *testing.T) {
	m := NewModel(NewBroker(), ModelOptions{Preferences: DefaultPreferences(), TempDir: t.TempDir()})
	defer m.Close()
	stream := &closedStream{}
	m.rec.state = RecorderRecording
	m.rec.session = &captureSession{id: 2, stream: stream, timer: time.NewTimer(time.Hour)}

	m.ProcessMsg(MsgToModel{Data: autoStop{id: 1}})
	if m.Recorder().State() != RecorderRecording || stream.stops != 0 {
		t.Fatal("a timer of an earlier session must not stop the current one")
	}
	m.ProcessMsg(MsgToModel{Data: sessionFinished{id: 1, data: []byte{1, 2}, format: stream.Format()}})
	if m.Recorder().Artifact() != nil {
		t.Fatal("data of an earlier session must not become the artifact")
	}

	late := &closedStream{}
	m.ProcessMsg(MsgToModel{Data: streamOpened{id: 7, stream: late}})
	if late.stops != 1 {
		t.Error("a stream granted after the request was abandoned must be stopped")
	}

	m.ProcessMsg(MsgToModel{Data: autoStop{id: 2}})
	if m.Recorder().State() != RecorderIdle || stream.stops != 1 {
		t.Fatal("expected the session timer to stop the recording")
	}
	m.ProcessMsg(MsgToModel{Data: sessionFinished{id: 2, data: []byte{3, 4}, format: stream.Format()}})
	if a := m.Recorder().Artifact(); a == nil || len(a.Data) != 2 || a.Data[0] != 3 {
		t.Fatalf("expected the stopped session's artifact, got %+v", a)
	}
}

func TestClassifyAcquisitionError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := classifyAcquisitionError(ctx, errors.New("device busy"), time.Second)
	if !errors.Is(err, keypiano.ErrAcquisitionFailed) {
		t.Errorf("expected ErrAcquisitionFailed, got %v", err)
	}
	denied := fmt.Errorf("%w: blocked", keypiano.ErrPermissionDenied)
	if err := classifyAcquisitionError(ctx, denied, time.Second); err != denied {
		t.Errorf("expected the denial to be kept, got %v", err)
	}
}
