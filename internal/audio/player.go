package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const bufferSize = 1024

// Player is a live stereo pad for the GUI viewer. A stack of detuned
// triangle oscillators runs through a low-pass filter whose cutoff opens as
// the population synchronizes, with a long stereo delay behind it.
type Player struct {
	stream *portaudio.Stream

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	mu         sync.Mutex
	sync       float64
	syncSmooth float64

	Active bool
}

func NewPlayer() *Player {
	delayLen := int(float64(SampleRate) * 0.6)
	return &Player{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, bufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	p.stream = stream
	p.Active = true
	return nil
}

func (p *Player) Stop() {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
	}
	portaudio.Terminate()
	p.Active = false
}

// UpdateSync feeds the current order parameter to the synthesis engine.
func (p *Player) UpdateSync(r float64) {
	p.mu.Lock()
	p.sync = r
	p.mu.Unlock()
}

func triangle(phase float64) float64 {
	f := phase - math.Floor(phase)
	return 4.0*math.Abs(f-0.5) - 1.0
}

func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (p *Player) process(out [][]float32) {
	// C major pentatonic pad: C3 G3 C4 E4 G4.
	freqs := []float64{130.81, 196.00, 261.63, 329.63, 392.00}

	p.mu.Lock()
	target := p.sync
	p.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	vol := 0.25

	for i := 0; i < len(out[0]); i++ {
		// Slow morph so the pad never jumps with a noisy r(t).
		p.syncSmooth = p.syncSmooth*0.9995 + target*0.0005

		cutoff := 300.0 + 900.0*p.syncSmooth

		sampleL := 0.0
		sampleR := 0.0
		for j, f := range freqs {
			oscL := triangle(p.time * (f * 0.999))
			oscR := triangle(p.time * (f * 1.001))

			g := 1.0 / float64(len(freqs))
			lfo := math.Sin(p.time*0.2 + float64(j))

			sampleL += oscL * g * (0.7 + 0.3*lfo)
			sampleR += oscR * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, p.filterState[0] = lpf(sampleL, cutoff, dt, p.filterState[0])
		outR, p.filterState[1] = lpf(sampleR, cutoff, dt, p.filterState[1])

		delayL := p.delayLine[0][p.delayHead]
		delayR := p.delayLine[1][p.delayHead]

		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		p.delayLine[0][p.delayHead] = mixL * 0.7
		p.delayLine[1][p.delayHead] = mixR * 0.7
		p.delayHead = (p.delayHead + 1) % len(p.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)

		p.time += dt
	}
}
