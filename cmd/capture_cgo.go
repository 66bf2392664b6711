//go:build cgo

package cmd

import (
	"github.com/keypiano/keypiano"
	"github.com/keypiano/keypiano/sdlcapture"
)

func NewCaptureContext() keypiano.CaptureContext {
	return sdlcapture.NewContext()
}
