package synth

import (
	"math"
	"testing"
)

func TestOscillatorZeroMean(t *testing.T) {
	for _, period := range []float32{100, 37.5, 250} {
		o := NewOscillator()
		o.Period = period
		o.Amplitude = 0.5
		skip := int(10 * period)
		for i := 0; i < skip; i++ {
			o.NextSample()
		}
		n := int(40 * period)
		var sum float64
		for i := 0; i < n; i++ {
			x := o.NextSample()
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				t.Fatalf("period %v: non-finite sample %v at %v", period, x, i)
			}
			if x > 1 || x < -1 {
				t.Fatalf("period %v: sample %v out of range at %v", period, x, i)
			}
			sum += float64(x)
		}
		if mean := sum / float64(n); math.Abs(mean) > 2e-3 {
			t.Fatalf("period %v: mean %v, expected close to zero", period, mean)
		}
	}
}

func TestOscillatorFirstSampleIsPeak(t *testing.T) {
	o := NewOscillator()
	o.Period = 100
	o.Amplitude = 1
	if x := o.NextSample(); x < 0.9 {
		t.Fatalf("first sample of a reset oscillator should be near the amplitude, got %v", x)
	}
}

func TestOscillatorSquareWave(t *testing.T) {
	t.Run("other not started", func(t *testing.T) {
		var a, b Oscillator
		b.SquareWave(&a, 100)
		want := float32(-pi + pi*50)
		if d := b.phase - want; d > 1e-4 || d < -1e-4 || b.phaseMax != b.phase || b.inc != pi {
			t.Fatalf("got phase %v phaseMax %v inc %v, want phase %v inc %v", b.phase, b.phaseMax, b.inc, want, pi)
		}
	})
	t.Run("other rising", func(t *testing.T) {
		a := NewOscillator()
		a.Period = 100
		for i := 0; i < 10; i++ {
			a.NextSample()
		}
		if a.inc <= 0 {
			t.Fatalf("expected a rising oscillator, inc %v", a.inc)
		}
		var b Oscillator
		b.SquareWave(&a, 100)
		want := 2*a.phaseMax - a.phase + pi*50
		if d := b.phase - want; d > 1e-3 || d < -1e-3 {
			t.Fatalf("got phase %v, want %v", b.phase, want)
		}
		if b.inc != -a.inc {
			t.Fatalf("got inc %v, want %v", b.inc, -a.inc)
		}
	})
}
