package synth

import "github.com/chewxy/math32"

// Filter is a trapezoidal-integrated state variable low-pass filter (Andrew
// Simper's SVF). It stays stable under per-sample cutoff modulation.
type Filter struct {
	SampleRate float32

	g, k       float32
	a1, a2, a3 float32
	ic1eq      float32
	ic2eq      float32
}

// UpdateCoefficients sets the cutoff in Hz and the resonance Q. cutoff must be
// below the Nyquist frequency and q must be positive.
func (f *Filter) UpdateCoefficients(cutoff, q float32) {
	f.g = math32.Tan(pi * cutoff / f.SampleRate)
	f.k = 1 / q
	f.a1 = 1 / (1 + f.g*(f.g+f.k))
	f.a2 = f.g * f.a1
	f.a3 = f.g * f.a2
}

// Reset clears the coefficients and the integrator state. The filter outputs
// silence until UpdateCoefficients is called again.
func (f *Filter) Reset() {
	f.g, f.k = 0, 0
	f.a1, f.a2, f.a3 = 0, 0, 0
	f.ic1eq, f.ic2eq = 0, 0
}

func (f *Filter) Render(x float32) float32 {
	v3 := x - f.ic2eq
	v1 := f.a1*f.ic1eq + f.a2*v3
	v2 := f.ic2eq + f.a2*f.ic1eq + f.a3*v3
	f.ic1eq = 2*v1 - f.ic1eq
	f.ic2eq = 2*v2 - f.ic2eq
	return v2
}
