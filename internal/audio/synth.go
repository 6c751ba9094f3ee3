// Package audio turns a finished run into sound: an offline soundtrack
// render whose dynamics follow the order parameter, and a live pad for the
// GUI viewer.
package audio

import (
	"encoding/binary"
	"math"
	"os"
)

const (
	SampleRate = 44100
	maxAmp     = 32767 / 4

	bpm        = 72.0
	beatLen    = 60.0 / bpm
	measureLen = beatLen * 4
)

// C major pentatonic, the scale of the soundtrack.
var (
	bassNote = 130.81 // C3

	chords = [][]float64{
		{261.63, 329.63, 392.00}, // C major
		{440.00, 523.25, 659.25}, // A minor
		{174.61, 220.00, 261.63}, // F major
		{392.00, 246.94, 587.33}, // G major
	}

	melody = []float64{
		261.63, 329.63, 392.00, 329.63,
		293.66, 392.00, 440.00, 392.00,
		329.63, 523.25, 440.00, 392.00,
		261.63, 293.66, 329.63, 261.63,
	}
)

func pureSine(freq, t float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

// RenderTrack synthesizes a mono soundtrack for the run. The sync series is
// the per-frame order parameter sampled every frameDt seconds; chord and
// melody levels swell as the population locks, so the music resolves exactly
// when the metronomes do.
func RenderTrack(sync []float64, frameDt, duration float64) []int16 {
	total := int(duration * SampleRate)
	audio := make([]float64, total)

	syncAt := func(t float64) float64 {
		if len(sync) == 0 {
			return 0
		}
		pos := t / frameDt
		i := int(pos)
		if i >= len(sync)-1 {
			return sync[len(sync)-1]
		}
		frac := pos - float64(i)
		return sync[i]*(1-frac) + sync[i+1]*frac
	}

	noteDur := measureLen / 2
	melodyStart := 8.0

	for i := 0; i < total; i++ {
		t := float64(i) / SampleRate
		r := syncAt(t)

		// Heartbeat bass on beats 1 and 3.
		beatPos := math.Mod(t/beatLen, 2)
		var sample float64
		if beatPos < 0.1 {
			sample += pureSine(bassNote, t) * math.Exp(-beatPos*20) * 0.15
		} else {
			sample += pureSine(bassNote, t) * 0.03
		}

		// One chord per measure, louder as the run synchronizes.
		measurePos := math.Mod(t/measureLen, float64(len(chords)))
		chord := chords[int(measurePos)]
		chordGain := 0.03 + 0.06*r
		swell := 0.7 + 0.3*math.Sin((measurePos-math.Floor(measurePos))*math.Pi)
		for _, f := range chord {
			sample += pureSine(f, t) * chordGain * swell
		}

		// Melody enters after the intro, gated by sync level.
		if t >= melodyStart && r > 0.2 {
			noteIdx := int((t - melodyStart) / noteDur)
			freq := melody[noteIdx%len(melody)]
			progress := math.Mod(t-melodyStart, noteDur) / noteDur
			env := 1.0
			if progress < 0.3 {
				env = progress / 0.3
			} else if progress > 0.7 {
				env = (1 - progress) / 0.3
			}
			sample += pureSine(freq, t) * env * 0.12 * r
		}

		// Fade in and out at the ends.
		fade := 1.0
		if t < 4.0 {
			fade = math.Pow(t/4.0, 0.7)
		} else if t > duration-4.0 {
			fade = math.Pow(math.Max(0, duration-t)/4.0, 0.5)
		}

		audio[i] = sample * fade
	}

	// Soft limiting, then normalize.
	peak := 0.0
	for i, v := range audio {
		if math.Abs(v) > 0.8 {
			audio[i] = math.Copysign(0.8*math.Tanh(math.Abs(v)), v)
		}
		if math.Abs(audio[i]) > peak {
			peak = math.Abs(audio[i])
		}
	}
	samples := make([]int16, total)
	if peak == 0 {
		return samples
	}
	for i, v := range audio {
		samples[i] = int16(v / peak * 0.75 * maxAmp)
	}
	return samples
}

// WriteWAV writes mono 16-bit PCM samples to path.
func WriteWAV(path string, samples []int16) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	dataLen := uint32(len(samples) * 2)

	var header []byte
	header = append(header, []byte("RIFF")...)
	header = binary.LittleEndian.AppendUint32(header, 36+dataLen)
	header = append(header, []byte("WAVE")...)
	header = append(header, []byte("fmt ")...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, 1) // PCM
	header = binary.LittleEndian.AppendUint16(header, 1) // mono
	header = binary.LittleEndian.AppendUint32(header, SampleRate)
	header = binary.LittleEndian.AppendUint32(header, SampleRate*2)
	header = binary.LittleEndian.AppendUint16(header, 2)
	header = binary.LittleEndian.AppendUint16(header, 16)
	header = append(header, []byte("data")...)
	header = binary.LittleEndian.AppendUint32(header, dataLen)

	if _, err := file.Write(header); err != nil {
		return err
	}
	return binary.Write(file, binary.LittleEndian, samples)
}
