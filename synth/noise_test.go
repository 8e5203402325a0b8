package synth

import "testing"

func TestNoiseDeterministic(t *testing.T) {
	var a, b NoiseGenerator
	a.Reset()
	b.Reset()
	var sum float64
	const n = 100000
	for i := 0; i < n; i++ {
		x, y := a.NextValue(), b.NextValue()
		if x != y {
			t.Fatalf("same seed produced different values at %v: %v != %v", i, x, y)
		}
		if x < -1 || x >= 1 {
			t.Fatalf("noise value %v out of range [-1, 1)", x)
		}
		sum += float64(x)
	}
	if mean := sum / n; mean > 0.01 || mean < -0.01 {
		t.Fatalf("noise mean %v too far from zero", mean)
	}
	a.Reset()
	var c NoiseGenerator
	c.Reset()
	if a.NextValue() != c.NextValue() {
		t.Fatalf("Reset did not restore the seed")
	}
}
