package synth

import "github.com/chewxy/math32"

const (
	pi      = math32.Pi
	twoPi   = 2 * math32.Pi
	piOver4 = math32.Pi / 4
)

// Oscillator generates a band-limited impulse train (BLIT) using a sinc
// pulse, sin(x)/x, evaluated half a period at a time. The phase runs from
// -phaseMax to phaseMax, bounces back, and at the start of every new cycle
// the period, amplitude and modulation are sampled again. Subtracting the
// average dc makes the output zero-mean, so integrating it (as the voice
// does) gives a sawtooth.
//
// The sine is computed with a digital resonator, sin(x+inc) =
// 2*cos(inc)*sin(x) - sin(x-inc), and only reseeded at cycle start.
type Oscillator struct {
	Period     float32 // in samples
	Amplitude  float32
	Modulation float32 // multiplies the period; vibrato or pulse width

	phase    float32
	inc      float32
	phaseMax float32
	dc       float32
	sin0     float32
	sin1     float32
	dsin     float32
}

func NewOscillator() Oscillator {
	return Oscillator{Amplitude: 1, Modulation: 1}
}

// Reset puts the oscillator back to the start of a cycle. Period, Amplitude
// and Modulation are left alone.
func (o *Oscillator) Reset() {
	o.inc = 0
	o.phase = 0
	o.sin0 = 0
	o.sin1 = 0
	o.dsin = 0
	o.dc = 0
}

func (o *Oscillator) NextSample() float32 {
	var output float32
	o.phase += o.inc
	if o.phase <= piOver4 {
		halfPeriod := o.Period / 2 * o.Modulation
		o.phaseMax = math32.Floor(0.5+halfPeriod) - 0.5
		o.dc = 0.5 * o.Amplitude / o.phaseMax
		o.phaseMax *= pi
		o.inc = o.phaseMax / halfPeriod
		o.phase = -o.phase
		o.sin0 = o.Amplitude * math32.Sin(o.phase)
		o.sin1 = o.Amplitude * math32.Sin(o.phase-o.inc)
		o.dsin = 2 * math32.Cos(o.inc)
		if o.phase*o.phase > 1e-9 {
			output = o.sin0 / o.phase
		} else {
			output = o.Amplitude // sinc(0) = 1
		}
	} else {
		if o.phase > o.phaseMax {
			o.phase = o.phaseMax + o.phaseMax - o.phase
			o.inc = -o.inc
		}
		sinp := o.dsin*o.sin0 - o.sin1
		o.sin1 = o.sin0
		o.sin0 = sinp
		output = sinp / o.phase
	}
	return output - o.dc
}

// SquareWave puts o half a period (newPeriod/2) behind other, so that
// subtracting o from other yields a pulse wave whose width follows the
// Modulation of o. It must be called right after other has been started.
func (o *Oscillator) SquareWave(other *Oscillator, newPeriod float32) {
	o.Reset()
	if other.inc > 0 {
		o.phase = other.phaseMax + other.phaseMax - other.phase
		o.inc = -other.inc
	} else if other.inc < 0 {
		o.phase = other.phase
		o.inc = other.inc
	} else {
		o.phase = -pi
		o.inc = pi
	}
	o.phase += pi * newPeriod / 2
	o.phaseMax = o.phase
}
