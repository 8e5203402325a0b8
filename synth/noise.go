package synth

// NoiseGenerator is a linear congruential white noise source. The same seed
// always gives the same sequence.
type NoiseGenerator struct {
	seed uint32
}

const noiseSeed = 22222

func (n *NoiseGenerator) Reset() {
	n.seed = noiseSeed
}

// NextValue returns a sample in [-1, 1).
func (n *NoiseGenerator) NextValue() float32 {
	n.seed = n.seed*196314165 + 907633515
	// the top 25 bits, as a signed value centered on zero
	r := int32(n.seed>>7) - 16777216
	return float32(r) / 16777216
}
