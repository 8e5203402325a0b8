package synth

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/jx11synth/jx11"
)

const (
	MaxVoices = 8

	lfoMax = 32    // the LFO is recomputed every lfoMax samples
	analog = 0.002 // per-voice detuning in semitones, times the voice index

	minPeriod     = 0.6 // shortest oscillator period in samples
	minGlideStart = 6   // a glide never starts from a period shorter than this

	outputRampSeconds = 0.05
)

type (
	// Synth is the voice manager: it turns MIDI messages into voice
	// allocation decisions and renders the sum of the voices. It owns all
	// state; nothing is shared between Synth instances.
	//
	// Synth is not safe for concurrent use. Update, MIDIMessage and Render
	// are meant to be called from the audio goroutine only; see the
	// processor package for delivering parameter changes from elsewhere.
	Synth struct {
		sampleRate float32
		voices     [MaxVoices]Voice
		noiseGen   NoiseGenerator
		outputGain linearSmoother

		// coefficients, recomputed by Update
		numVoices           int
		envAttack           float32
		envDecay            float32
		envSustain          float32
		envRelease          float32
		filterAttack        float32
		filterDecay         float32
		filterSustain       float32
		filterRelease       float32
		oscMix              float32
		detune              float32
		tune                float32
		volumeTrim          float32
		velocitySensitivity float32
		ignoreVelocity      bool
		vibrato             float32
		pwmDepth            float32
		lfoInc              float32
		glideMode           int
		glideRate           float32
		glideBend           float32
		filterKeyTracking   float32
		filterQ             float32
		filterLFODepth      float32
		filterEnvDepth      float32
		noiseMix            float32

		// performance state
		pitchBend           float32
		sustainPedalPressed bool
		lfo                 float32
		lfoStep             int
		vibratoMod          float32
		pwm                 float32
		modWheel            float32
		pressure            float32
		filterCtl           float32
		filterZip           float32
		resonanceCtl        float32
		resonanceCC         byte
		lastNote            int
	}
)

// New creates a synth for the given sample rate, with the default
// parameters applied.
func New(sampleRate float32) (*Synth, error) {
	if !(sampleRate > 0) || math32.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("invalid sample rate %v", sampleRate)
	}
	s := &Synth{sampleRate: sampleRate, resonanceCC: jx11.CCResonance}
	for i := range s.voices {
		s.voices[i].osc1 = NewOscillator()
		s.voices[i].osc2 = NewOscillator()
		s.voices[i].filter.SampleRate = sampleRate
	}
	s.Update(jx11.DefaultParams())
	s.Reset()
	return s, nil
}

func (s *Synth) SampleRate() float32 { return s.sampleRate }

// Reset silences all voices and clears the performance state (pitch bend,
// mod wheel, pedal...). Coefficients set by Update are kept.
func (s *Synth) Reset() {
	for i := range s.voices {
		s.voices[i].Reset()
	}
	s.noiseGen.Reset()
	s.pitchBend = 1
	s.sustainPedalPressed = false
	s.outputGain.reset(s.sampleRate, outputRampSeconds)
	s.lfo = 0
	s.lfoStep = 0
	s.vibratoMod = 1
	s.pwm = 1
	s.modWheel = 0
	s.lastNote = 0
	s.resonanceCtl = 1
	s.pressure = 0
	s.filterZip = 0
	s.filterCtl = 0
}

// Render fills left and right with the next len(left) frames. If right is
// nil, a mono mix is written to left; otherwise right must be at least as
// long as left. Render does not allocate and cannot fail; the returned
// verdict tells whether the output had to be clamped or silenced.
func (s *Synth) Render(left, right []float32) EarVerdict {
	if right != nil {
		right = right[:len(left)]
	}
	for i := range s.voices {
		v := &s.voices[i]
		if v.env.IsActive() {
			v.glideRate = s.glideRate
			v.filterQ = s.filterQ * s.resonanceCtl
			v.pitchBend = s.pitchBend
			v.filterEnvDepth = s.filterEnvDepth
		}
	}
	for i := range left {
		s.updateLFO()
		noise := s.noiseGen.NextValue() * s.noiseMix
		var outLeft, outRight float32
		for j := range s.voices {
			v := &s.voices[j]
			if v.env.IsActive() {
				output := v.Render(noise)
				outLeft += output * v.panLeft
				outRight += output * v.panRight
			}
		}
		gain := s.outputGain.next()
		outLeft *= gain
		outRight *= gain
		if right != nil {
			left[i] = outLeft
			right[i] = outRight
		} else {
			left[i] = (outLeft + outRight) * 0.5
		}
	}
	for i := range s.voices {
		v := &s.voices[i]
		if !v.env.IsActive() {
			v.env.Reset()
			v.filter.Reset()
		}
	}
	verdict := ProtectYourEars(left)
	if right != nil {
		verdict = max(verdict, ProtectYourEars(right))
	}
	return verdict
}

// MIDIMessage handles a single short MIDI message. Channel is ignored, so
// the synth responds in omni mode. Unknown messages are ignored.
func (s *Synth) MIDIMessage(status, data1, data2 byte) {
	data1 &= 0x7F
	data2 &= 0x7F
	switch status & 0xF0 {
	case jx11.NoteOff:
		s.noteOff(int(data1))
	case jx11.NoteOn:
		if data2 > 0 {
			s.noteOn(int(data1), int(data2))
		} else {
			s.noteOff(int(data1))
		}
	case jx11.PitchBend:
		// 14-bit value, +-2 semitones; stored as a period multiplier
		s.pitchBend = math32.Exp(-0.000014102 * float32(int(data1)+128*int(data2)-8192))
	case jx11.ControlChange:
		s.controlChange(data1, data2)
	case jx11.ChannelPressure:
		s.pressure = 0.0001 * float32(data1) * float32(data1)
	}
}

// SetResonanceCC binds filter resonance to the controller cc. The previous
// controller no longer affects the resonance.
func (s *Synth) SetResonanceCC(cc byte) { s.resonanceCC = cc & 0x7F }

func (s *Synth) ResonanceCC() byte { return s.resonanceCC }

func (s *Synth) controlChange(cc, value byte) {
	if cc == s.resonanceCC {
		s.resonanceCtl = 154 / float32(154-int(value))
		return
	}
	switch cc {
	case jx11.CCSustainPedal:
		s.sustainPedalPressed = value >= 64
		if !s.sustainPedalPressed {
			s.noteOff(sustainNote)
		}
	case jx11.CCModWheel:
		s.modWheel = 0.000005 * float32(value) * float32(value)
	case jx11.CCFilterUp:
		s.filterCtl = 0.02 * float32(value)
	case jx11.CCFilterDown:
		s.filterCtl = -0.03 * float32(value)
	default:
		if cc >= jx11.CCAllSoundOff {
			for i := range s.voices {
				s.voices[i].Reset()
			}
			s.sustainPedalPressed = false
		}
	}
}

func (s *Synth) noteOn(note, velocity int) {
	if s.ignoreVelocity {
		velocity = 80
	}
	v := 0
	if s.numVoices == 1 {
		if s.voices[0].note > 0 {
			s.shiftQueuedNotes()
			s.restartMonoVoice(note, velocity)
			return
		}
	} else {
		v = s.findFreeVoice()
	}
	s.startVoice(v, note, velocity)
}

func (s *Synth) noteOff(note int) {
	if s.numVoices == 1 && s.voices[0].note == note {
		if queued := s.nextQueuedNote(); queued > 0 {
			s.restartMonoVoice(queued, -1)
		}
	}
	for i := range s.voices {
		v := &s.voices[i]
		if v.note == note {
			if s.sustainPedalPressed {
				v.note = sustainNote
			} else {
				v.Release()
				v.note = 0
			}
		}
	}
}

func (s *Synth) startVoice(index, note, velocity int) {
	period := s.calcPeriod(index, note)
	v := &s.voices[index]
	v.target = period
	noteDistance := 0
	if s.lastNote > 0 {
		if s.glideMode == jx11.GlideAlways || (s.glideMode == jx11.GlideLegato && s.isPlayingLegatoStyle()) {
			noteDistance = note - s.lastNote
		}
	}
	v.period = period * math32.Pow(1.059463094359, float32(noteDistance)-s.glideBend)
	if v.period < minGlideStart {
		v.period = minGlideStart
	}
	s.lastNote = note
	v.note = note
	v.UpdatePanning()

	vel := 0.004*float32((velocity+64)*(velocity+64)) - 8
	v.osc1.Amplitude = s.volumeTrim * vel
	v.osc2.Amplitude = v.osc1.Amplitude * s.oscMix
	if s.vibrato == 0 && s.pwmDepth > 0 {
		v.osc2.SquareWave(&v.osc1, v.period)
	}

	v.cutoff = s.sampleRate / (period * pi)
	v.cutoff *= math32.Exp(s.velocitySensitivity * float32(velocity-64))

	v.env.AttackMultiplier = s.envAttack
	v.env.DecayMultiplier = s.envDecay
	v.env.SustainLevel = s.envSustain
	v.env.ReleaseMultiplier = s.envRelease
	v.env.Attack()

	v.filterEnv.AttackMultiplier = s.filterAttack
	v.filterEnv.DecayMultiplier = s.filterDecay
	v.filterEnv.SustainLevel = s.filterSustain
	v.filterEnv.ReleaseMultiplier = s.filterRelease
	v.filterEnv.Attack()
}

// restartMonoVoice changes the pitch of the single mono voice without
// retriggering its envelopes (legato). velocity <= 0 keeps the cutoff
// unscaled by velocity, which is the case when an older queued note comes
// back after a note-off.
func (s *Synth) restartMonoVoice(note, velocity int) {
	period := s.calcPeriod(0, note)
	v := &s.voices[0]
	v.target = period
	if s.glideMode == jx11.GlideOff {
		v.period = period
	}
	v.env.level += Silence + Silence
	v.note = note
	v.UpdatePanning()
	v.cutoff = s.sampleRate / (period * pi)
	if velocity > 0 {
		v.cutoff *= math32.Exp(s.velocitySensitivity * float32(velocity-64))
	}
}

// calcPeriod returns the period in samples of the note played on voice
// index. Each voice is detuned a tiny bit for an analog feel. The period is
// doubled until both oscillators are at least minPeriod samples long, since
// the oscillator cannot produce shorter periods.
func (s *Synth) calcPeriod(index, note int) float32 {
	period := s.tune * math32.Exp(-0.05776226505*(float32(note)+analog*float32(index)))
	for period < minPeriod || period*s.detune < minPeriod {
		period += period
	}
	return period
}

// findFreeVoice returns the quietest voice that is not in its attack stage,
// stealing it if necessary. Ties go to the lowest index; if every voice is in
// attack, voice 0 is stolen.
func (s *Synth) findFreeVoice() int {
	v := 0
	l := float32(100) // louder than any voice
	for i := range s.voices {
		if s.voices[i].env.level < l && !s.voices[i].env.IsInAttack() {
			l = s.voices[i].env.level
			v = i
		}
	}
	return v
}

// shiftQueuedNotes pushes the held notes one slot down the voice array, which
// serves as the mono mode note queue. The voices beyond 0 only store notes;
// they are released so that they never sound.
func (s *Synth) shiftQueuedNotes() {
	for i := MaxVoices - 1; i > 0; i-- {
		s.voices[i].note = s.voices[i-1].note
		s.voices[i].Release()
	}
}

// nextQueuedNote pops the most recent queued note, or returns 0 if the queue
// is empty.
func (s *Synth) nextQueuedNote() int {
	held := 0
	for i := MaxVoices - 1; i > 0; i-- {
		if s.voices[i].note > 0 {
			held = i
		}
	}
	if held > 0 {
		note := s.voices[held].note
		s.voices[held].note = 0
		return note
	}
	return 0
}

func (s *Synth) isPlayingLegatoStyle() bool {
	for i := range s.voices {
		if s.voices[i].note > 0 {
			return true
		}
	}
	return false
}

func (s *Synth) updateLFO() {
	s.lfoStep--
	if s.lfoStep <= 0 {
		s.lfoStep = lfoMax
		s.lfo += s.lfoInc
		if s.lfo > pi {
			s.lfo -= twoPi
		}
		sine := math32.Sin(s.lfo)
		s.vibratoMod = 1 + sine*(s.modWheel+s.vibrato)
		s.pwm = 1 + sine*(s.modWheel+s.pwmDepth)
		filterMod := s.filterKeyTracking + s.filterCtl + (s.filterLFODepth+s.pressure)*sine
		s.filterZip += 0.005 * (filterMod - s.filterZip)
	}
	for i := range s.voices {
		v := &s.voices[i]
		if v.env.IsActive() {
			v.osc1.Modulation = s.vibratoMod
			v.osc2.Modulation = s.pwm
			v.filterMod = s.filterZip
			v.UpdateLFO()
			s.updatePeriod(v)
		}
	}
}

func (s *Synth) updatePeriod(v *Voice) {
	v.osc1.Period = v.period * s.pitchBend
	v.osc2.Period = v.osc1.Period * s.detune
}

// NumActiveVoices returns the number of voices whose amplitude envelope is
// above Silence.
func (s *Synth) NumActiveVoices() int {
	n := 0
	for i := range s.voices {
		if s.voices[i].env.IsActive() {
			n++
		}
	}
	return n
}

// VoiceLevels writes the amplitude envelope level of every voice into levels.
func (s *Synth) VoiceLevels(levels *[MaxVoices]float32) {
	for i := range s.voices {
		levels[i] = s.voices[i].env.level
	}
}
