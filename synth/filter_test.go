package synth

import (
	"math"
	"testing"
)

func TestFilterImpulseDecays(t *testing.T) {
	for _, c := range []struct {
		cutoff, q float32
	}{
		{1000, 0.707},
		{200, 5},
		{15000, 1},
		{30, 20},
	} {
		f := Filter{SampleRate: 44100}
		f.UpdateCoefficients(c.cutoff, c.q)
		y := f.Render(1)
		if math.IsNaN(float64(y)) {
			t.Fatalf("cutoff %v q %v: NaN output", c.cutoff, c.q)
		}
		var last float32
		for i := 0; i < 5*44100; i++ {
			last = f.Render(0)
		}
		if last > 1e-4 || last < -1e-4 {
			t.Fatalf("cutoff %v q %v: impulse response did not decay, %v after 5 s", c.cutoff, c.q, last)
		}
	}
}

func TestFilterPassesDC(t *testing.T) {
	f := Filter{SampleRate: 44100}
	f.UpdateCoefficients(1000, 0.707)
	var y float32
	for i := 0; i < 44100; i++ {
		y = f.Render(1)
	}
	if d := y - 1; d > 1e-3 || d < -1e-3 {
		t.Fatalf("low-pass DC gain should be 1, got %v", y)
	}
}

func TestFilterResetSilences(t *testing.T) {
	f := Filter{SampleRate: 44100}
	f.UpdateCoefficients(1000, 2)
	for i := 0; i < 100; i++ {
		f.Render(1)
	}
	f.Reset()
	if y := f.Render(1); y != 0 {
		t.Fatalf("filter without coefficients should output silence, got %v", y)
	}
}
