package piano

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/keypiano/keypiano"
)

type (
	// Recorder captures the microphone into an Artifact. It is a view of the
	// Model and must only be used from the GUI goroutine.
	//
	// The recorder goes Idle -> Requesting -> Recording -> Idle. Acquisition
	// of the microphone happens in a background goroutine; fragments are
	// collected by a per-session goroutine which, after the stream has been
	// stopped, receives until the stream closes its fragment channel before
	// it concatenates the fragments. The result is therefore the same no
	// matter how the stop races with fragments in flight.
	Recorder Model

	RecorderState int

	recorderState struct {
		state     RecorderState
		capture   keypiano.CaptureContext
		requestID uint64
		cancel    context.CancelFunc
		session   *captureSession
		stoppedID uint64 // session whose artifact is still awaited
		artifact  *Artifact
		level     Decibel
	}

	captureSession struct {
		id     uint64
		stream keypiano.CaptureStream
		timer  *time.Timer
	}

	// messages from background goroutines, handled in Model.ProcessMsg

	streamOpened struct {
		id     uint64
		stream keypiano.CaptureStream
		err    error
	}

	autoStop struct {
		id uint64
	}

	sessionFinished struct {
		id        uint64
		data      []byte
		fragments int
		format    keypiano.CaptureFormat
	}

	recordingLevel struct {
		id    uint64
		level Decibel
	}
)

const (
	RecorderIdle RecorderState = iota
	RecorderRequesting
	RecorderRecording
)

var ErrNotRecording = errors.New("not recording")

func (s RecorderState) String() string {
	switch s {
	case RecorderIdle:
		return "idle"
	case RecorderRequesting:
		return "requesting"
	case RecorderRecording:
		return "recording"
	}
	return fmt.Sprintf("RecorderState(%d)", int(s))
}

func (m *Model) Recorder() *Recorder { return (*Recorder)(m) }

func (r *Recorder) State() RecorderState { return r.rec.state }

// Artifact returns the result of the last completed recording, or nil.
func (r *Recorder) Artifact() *Artifact { return r.rec.artifact }

// Level returns the peak level of the most recently captured fragment.
func (r *Recorder) Level() Decibel {
	if r.rec.state != RecorderRecording {
		return minLevel
	}
	return r.rec.level
}

// Start

type startRecording Recorder

func (r *Recorder) Start() Action       { return MakeAction((*startRecording)(r)) }
func (r *startRecording) Enabled() bool { return r.rec.state == RecorderIdle }
func (r *startRecording) Do() {
	m := (*Model)(r)
	if r.rec.capture == nil || !r.rec.capture.Supported() {
		m.notify("Recording failed", keypiano.ErrPlatformUnsupported)
		return
	}
	r.rec.state = RecorderRequesting
	r.rec.requestID++
	id := r.rec.requestID
	timeout := r.prefs.Recording.PermissionTimeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	r.rec.cancel = cancel
	capture := r.rec.capture
	opts := r.prefs.Recording.captureOptions()
	broker := r.broker
	slog.Debug("requesting microphone", "request", id)
	go func() {
		defer cancel()
		stream, err := capture.Open(ctx, opts)
		if err != nil {
			err = classifyAcquisitionError(ctx, err, timeout)
		}
		broker.ToModel <- MsgToModel{Data: streamOpened{id: id, stream: stream, err: err}}
	}()
}

func classifyAcquisitionError(ctx context.Context, err error, timeout time.Duration) error {
	switch {
	case errors.Is(err, keypiano.ErrPermissionDenied),
		errors.Is(err, keypiano.ErrAcquisitionFailed),
		errors.Is(err, keypiano.ErrPlatformUnsupported):
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: no response within %v", keypiano.ErrAcquisitionFailed, timeout)
	}
	return fmt.Errorf("%w: %w", keypiano.ErrAcquisitionFailed, err)
}

// Stop

type stopRecording Recorder

func (r *Recorder) Stop() Action       { return MakeAction((*stopRecording)(r)) }
func (r *stopRecording) Enabled() bool { return r.rec.state == RecorderRecording }
func (r *stopRecording) Do()           { (*Recorder)(r).stop("manual") }

// Toggle starts the recording when idle and stops it when recording.
func (r *Recorder) Toggle() Action {
	return MakeAction(DoFunc(func() {
		if r.rec.state == RecorderRecording {
			r.Stop().Do()
			return
		}
		r.Start().Do()
	}))
}

func (r *Recorder) stop(reason string) {
	s := r.rec.session
	if r.rec.state != RecorderRecording || s == nil {
		return
	}
	s.timer.Stop()
	if err := s.stream.Stop(); err != nil {
		(*Model)(r).Alerts().Add(fmt.Sprintf("Stopping the microphone failed: %v", err), Warning)
	}
	r.rec.state = RecorderIdle
	r.rec.session = nil
	r.rec.stoppedID = s.id
	slog.Info("recording stopped", "session", s.id, "reason", reason)
}

// Save writes the encoded recording to w.
func (r *Recorder) Save(w io.Writer) error {
	if r.rec.artifact == nil {
		return ErrNotRecording
	}
	if _, err := r.rec.artifact.WriteTo(w); err != nil {
		return fmt.Errorf("saving recording failed: %w", err)
	}
	return nil
}

// FileName is the suggested name of the saved recording.
func (r *Recorder) FileName() string {
	return r.prefs.Recording.FileName(time.Now())
}

func (r *Recorder) handle(msg any) {
	m := (*Model)(r)
	switch e := msg.(type) {
	case streamOpened:
		if r.rec.state != RecorderRequesting || e.id != r.rec.requestID {
			if e.stream != nil {
				discard(e.stream)
			}
			return
		}
		r.rec.cancel = nil
		if e.err != nil {
			r.rec.state = RecorderIdle
			m.notify("Error accessing microphone", e.err)
			return
		}
		r.begin(e.id, e.stream)
	case autoStop:
		if r.rec.session != nil && r.rec.session.id == e.id {
			r.stop("timeout")
		}
	case recordingLevel:
		if r.rec.session != nil && r.rec.session.id == e.id {
			r.rec.level = e.level
		}
	case sessionFinished:
		if e.id != r.rec.stoppedID {
			return
		}
		r.rec.stoppedID = 0
		artifact, err := NewArtifact(e.data, e.format, r.prefs.Recording.Container, r.tempDir)
		if err != nil {
			m.Alerts().Add(fmt.Sprintf("Could not finish recording: %v", err), Error)
			return
		}
		artifact.Fragments = e.fragments
		r.rec.artifact = artifact
		slog.Info("recording ready", "session", e.id, "bytes", len(e.data), "fragments", e.fragments, "url", artifact.URL)
		m.Alerts().AddNamed("Recording", fmt.Sprintf("Recording ready (%.1f s)", artifact.Duration().Seconds()), Info)
	}
}

func (r *Recorder) begin(id uint64, stream keypiano.CaptureStream) {
	r.releaseArtifact()
	r.rec.stoppedID = 0
	r.rec.level = minLevel
	broker := r.broker
	s := &captureSession{id: id, stream: stream}
	s.timer = time.AfterFunc(r.prefs.Recording.MaxDuration, func() {
		broker.ToModel <- MsgToModel{Data: autoStop{id: id}}
	})
	r.rec.session = s
	r.rec.state = RecorderRecording
	slog.Info("recording started", "session", id, "maxDuration", r.prefs.Recording.MaxDuration)
	go collect(broker, id, stream)
}

// collect receives the fragments of one session in order until the stream
// closes its channel, then posts the concatenation to the model.
func collect(broker *Broker, id uint64, stream keypiano.CaptureStream) {
	fragments := make([][]byte, 0, 64)
	for f := range stream.Fragments() {
		fragments = append(fragments, f)
		TrySend(broker.ToModel, MsgToModel{Data: recordingLevel{id: id, level: PeakLevel(f)}})
	}
	broker.ToModel <- MsgToModel{Data: sessionFinished{
		id:        id,
		data:      bytes.Join(fragments, nil),
		fragments: len(fragments),
		format:    stream.Format(),
	}}
}

func discard(stream keypiano.CaptureStream) {
	stream.Stop()
	go func() {
		for range stream.Fragments() {
		}
	}()
}

func (r *Recorder) releaseArtifact() {
	if r.rec.artifact == nil {
		return
	}
	if err := r.rec.artifact.Release(); err != nil {
		slog.Warn("could not release recording", "path", r.rec.artifact.Path, "error", err)
	}
	r.rec.artifact = nil
}

// close aborts any pending request or session and releases the artifact.
func (r *Recorder) close() {
	if r.rec.cancel != nil {
		r.rec.cancel()
		r.rec.cancel = nil
	}
	if s := r.rec.session; s != nil {
		s.timer.Stop()
		s.stream.Stop()
		r.rec.session = nil
	}
	r.rec.state = RecorderIdle
	r.rec.stoppedID = 0
	r.releaseArtifact()
}
