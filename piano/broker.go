package piano

import (
	"time"
)

type (
	// Broker is the centralized message broker of the piano. It connects the
	// GUI goroutine, which owns the Model, to the audio goroutine, which owns
	// the Player, and carries results of background work (microphone
	// acquisition, fragment collection, timers) back to the Model.
	//
	// All channels are buffered. The audio goroutine only uses TrySend and
	// never blocks on the GUI; messages that must not be lost, such as the
	// end of a capture session, are sent blocking from their own goroutines.
	//
	// CloseGUI has a capacity of 1 so that a close request can always be
	// sent without blocking. FinishedGUI is closed, never sent to, when the
	// GUI has shut down.
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any

		CloseGUI    chan struct{}
		FinishedGUI chan struct{}
	}

	// MsgToModel is a message sent to the model. Data is one of the message
	// types understood by Model.ProcessMsg, or a func() that is executed on
	// the GUI goroutine.
	MsgToModel struct {
		Data any
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:     make(chan MsgToModel, 1024),
		ToPlayer:    make(chan any, 1024),
		CloseGUI:    make(chan struct{}, 1),
		FinishedGUI: make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
