//go:build !cgo

package cmd

import (
	"github.com/keypiano/keypiano"
)

func NewCaptureContext() keypiano.CaptureContext {
	// SDL needs cgo; without it the microphone is unavailable
	return keypiano.NullCaptureContext{}
}
