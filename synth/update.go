package synth

import (
	"github.com/chewxy/math32"
	"github.com/jx11synth/jx11"
)

// Update recomputes all coefficients from the parameters. It is cheap enough
// to call once per block whenever a parameter has changed. Notes that are
// already sounding pick up most changes immediately; envelope rates and
// oscillator amplitudes take effect on the next note.
func (s *Synth) Update(p jx11.Params) {
	p = p.Clamp()
	inverseSampleRate := 1 / s.sampleRate
	// the LFO runs at the update rate, i.e. once every lfoMax samples
	inverseUpdateRate := inverseSampleRate * lfoMax

	s.envAttack = envelopeRate(inverseSampleRate, p.EnvAttack)
	s.envDecay = envelopeRate(inverseSampleRate, p.EnvDecay)
	s.envSustain = p.EnvSustain / 100
	s.envRelease = releaseRate(inverseSampleRate, p.EnvRelease)

	noiseMix := p.Noise / 100
	s.noiseMix = noiseMix * noiseMix * 0.06

	s.oscMix = p.OscMix / 100

	semi := p.OscTune
	cent := p.OscFine
	s.detune = math32.Pow(1.059463094359, -semi-0.01*cent)

	// tune is the period in samples of MIDI note 0 (8.1758 Hz at A440)
	tuneInSemi := -36.3763 - 12*p.Octave - p.Tuning/100
	s.tune = s.sampleRate * math32.Exp(0.05776226505*tuneInSemi)

	if p.PolyMode < 0.5 {
		s.numVoices = 1
	} else {
		s.numVoices = MaxVoices
	}

	if p.FilterVelocity < jx11.FilterVelocityOff {
		s.velocitySensitivity = 0
		s.ignoreVelocity = true
	} else {
		s.velocitySensitivity = 0.0005 * p.FilterVelocity
		s.ignoreVelocity = false
	}

	lfoRate := jx11.LFORateHz(p.LFORate)
	s.lfoInc = lfoRate * inverseUpdateRate * twoPi

	vibrato := p.Vibrato / 200
	s.vibrato = 0.2 * vibrato * vibrato
	s.pwmDepth = s.vibrato
	if vibrato < 0 {
		s.vibrato = 0 // negative vibrato means pulse width modulation instead
	}

	if p.GlideRate < 2 {
		s.glideRate = 1 // no glide
	} else {
		s.glideRate = 1 - math32.Exp(-inverseSampleRate*math32.Exp(6-0.07*p.GlideRate))
	}
	s.glideMode = int(p.GlideMode + 0.5)
	s.glideBend = p.GlideBend

	s.filterKeyTracking = 0.08*p.FilterFreq - 1.5
	filterReso := p.FilterReso / 100
	s.filterQ = math32.Exp(3 * filterReso)
	filterLFO := p.FilterLFO / 100
	s.filterLFODepth = 2.5 * filterLFO * filterLFO
	s.filterEnvDepth = 0.06 * p.FilterEnv

	s.filterAttack = envelopeRate(inverseSampleRate, p.FilterAttack)
	s.filterDecay = envelopeRate(inverseSampleRate, p.FilterDecay)
	filterSustain := p.FilterSustain / 100
	s.filterSustain = filterSustain * filterSustain
	s.filterRelease = envelopeRate(inverseSampleRate, p.FilterRelease)

	s.volumeTrim = 0.0008 * (3.2 - s.oscMix - 25*s.noiseMix) * (1.5 - 0.5*filterReso)

	s.outputGain.setTarget(decibelsToGain(p.OutputLevel))
}

// envelopeRate maps a 0..100 knob to a per-sample multiplier. Small values
// give fast stages.
func envelopeRate(inverseSampleRate, param float32) float32 {
	return math32.Exp(-inverseSampleRate * math32.Exp(5.5-0.075*param))
}

func releaseRate(inverseSampleRate, param float32) float32 {
	if param < 1 {
		return 0.75 // extra fast release
	}
	return envelopeRate(inverseSampleRate, param)
}

func decibelsToGain(db float32) float32 {
	if db <= -100 {
		return 0
	}
	return math32.Pow(10, db*0.05)
}
