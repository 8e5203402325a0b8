package synth

import "github.com/chewxy/math32"

// sustainNote marks a voice whose key was released while the sustain pedal
// was held. Such a voice keeps sounding until the pedal is released, but can
// no longer be matched by a note-off.
const sustainNote = -1

// Voice is a single sounding note: two oscillators integrated into a
// sawtooth (or a pulse wave, when the second one is phase shifted), a
// low-pass filter, an amplitude envelope and a filter envelope. The synth
// owns a fixed array of voices and addresses them by index.
type Voice struct {
	note int // 0 = idle, sustainNote = held by the pedal
	saw  float32

	osc1, osc2 Oscillator
	env        Envelope
	filterEnv  Envelope
	filter     Filter

	period    float32 // current period in samples, glides towards target
	target    float32
	glideRate float32

	panLeft, panRight float32

	cutoff         float32 // key tracked and velocity scaled cutoff in Hz
	filterMod      float32 // smoothed LFO, mod wheel and key tracking modulation
	filterQ        float32
	pitchBend      float32
	filterEnvDepth float32
}

func (v *Voice) Reset() {
	v.note = 0
	v.saw = 0
	v.osc1.Reset()
	v.osc2.Reset()
	v.env.Reset()
	v.filterEnv.Reset()
	v.filter.Reset()
	v.panLeft = 0.707
	v.panRight = 0.707
}

// Render produces the next output sample of the voice. input is added before
// the filter; the synth uses it for noise.
func (v *Voice) Render(input float32) float32 {
	sample1 := v.osc1.NextSample()
	sample2 := v.osc2.NextSample()
	// leaky integrator turns the impulse trains into a sawtooth
	v.saw = v.saw*0.997 + sample1 - sample2
	output := v.saw + input
	output = v.filter.Render(output)
	return output * v.env.NextValue()
}

func (v *Voice) Release() {
	v.env.Release()
	v.filterEnv.Release()
}

// UpdatePanning places the voice in the stereo field by its note number,
// with middle C in the center, using a constant power law.
func (v *Voice) UpdatePanning() {
	panning := clamp((float32(v.note)-60)/24, -1, 1)
	v.panLeft = math32.Sin(piOver4 * (1 - panning))
	v.panRight = math32.Sin(piOver4 * (1 + panning))
}

// UpdateLFO advances glide and the filter envelope by one step and computes
// new filter coefficients.
func (v *Voice) UpdateLFO() {
	v.period += v.glideRate * (v.target - v.period)
	fenv := v.filterEnv.NextValue()
	modulatedCutoff := v.cutoff * math32.Exp(v.filterMod+v.filterEnvDepth*fenv) / v.pitchBend
	modulatedCutoff = clamp(modulatedCutoff, 30, math32.Min(20000, 0.49*v.filter.SampleRate))
	v.filter.UpdateCoefficients(modulatedCutoff, v.filterQ)
}

func (v *Voice) Note() int { return v.note }

func (v *Voice) IsActive() bool { return v.env.IsActive() }

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
