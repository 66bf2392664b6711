package piano

import (
	"github.com/keypiano/keypiano"
	"github.com/viterin/vek/vek32"
)

type (
	// Player renders the tone of the piano, run in the audio goroutine. It is
	// controlled by messages from the ToneEngine via Broker.ToPlayer, which
	// are processed at the start of every Process call, and it reports the
	// currently sounding frequency back to the model via Broker.ToModel.
	//
	// The player is monophonic: it has a single voice slot and triggering a
	// note stops the previous oscillator before the new one starts.
	Player struct {
		voice    *keypiano.Oscillator
		waveform keypiano.Waveform
		volume   float32
		mono     []float32
		broker   *Broker
	}

	// NoteOn starts a new tone at Frequency, replacing the current one.
	NoteOn struct {
		Frequency float64
	}

	// NoteOff stops the current tone, if any.
	NoteOff struct{}

	// PlayerSettings changes the waveform and volume of subsequent tones.
	PlayerSettings struct {
		Waveform keypiano.Waveform
		Volume   float32
	}

	// PlayerStatus is sent to the model whenever the sounding tone changes.
	// Frequency is zero when the player is silent.
	PlayerStatus struct {
		Frequency float64
	}
)

const defaultVolume = 0.3

func NewPlayer(broker *Broker) *Player {
	return &Player{
		broker:   broker,
		waveform: keypiano.Sine,
		volume:   defaultVolume,
	}
}

// Process renders audio to the given buffer, filling it completely. Pending
// note messages are applied before rendering, in the order they were sent.
func (p *Player) Process(buffer keypiano.AudioBuffer) {
	p.processMessages()
	if p.voice == nil {
		buffer.Fill([2]float32{})
		return
	}
	if cap(p.mono) < len(buffer) {
		p.mono = make([]float32, len(buffer))
	}
	mono := p.mono[:len(buffer)]
	p.voice.Render(mono, keypiano.SampleRate)
	vek32.MulNumber_Inplace(mono, p.volume)
	for i, v := range mono {
		buffer[i] = [2]float32{v, v}
	}
}

// Active returns the frequency of the sounding tone. Must be called from the
// goroutine that calls Process.
func (p *Player) Active() (frequency float64, ok bool) {
	if p.voice == nil {
		return 0, false
	}
	return p.voice.Frequency(), true
}

func (p *Player) processMessages() {
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case NoteOn:
				p.trigger(m.Frequency)
			case NoteOff:
				p.release()
			case PlayerSettings:
				p.waveform = m.Waveform
				p.volume = m.Volume
			}
		default:
			return
		}
	}
}

func (p *Player) trigger(frequency float64) {
	if p.voice != nil {
		p.voice.Stop()
	}
	p.voice = keypiano.NewOscillator(frequency, p.waveform)
	p.send(PlayerStatus{Frequency: frequency})
}

func (p *Player) release() {
	if p.voice == nil {
		return
	}
	p.voice.Stop()
	p.voice = nil
	p.send(PlayerStatus{})
}

func (p *Player) send(message any) {
	TrySend(p.broker.ToModel, MsgToModel{Data: message})
}
