package synth

// linearSmoother ramps linearly from its current value to a new target over a
// fixed number of samples. Used for the output level, so that turning the
// knob does not produce zipper noise.
type linearSmoother struct {
	current, target, step float32
	countdown             int
	stepsToTarget         int
}

func (s *linearSmoother) reset(sampleRate, rampSeconds float32) {
	s.stepsToTarget = int(sampleRate * rampSeconds)
	s.current = s.target
	s.countdown = 0
}

func (s *linearSmoother) setTarget(v float32) {
	if v == s.target {
		return
	}
	s.target = v
	if s.stepsToTarget <= 0 {
		s.current = v
		s.countdown = 0
		return
	}
	s.countdown = s.stepsToTarget
	s.step = (s.target - s.current) / float32(s.countdown)
}

func (s *linearSmoother) next() float32 {
	if s.countdown <= 0 {
		return s.target
	}
	s.countdown--
	if s.countdown > 0 {
		s.current += s.step
	} else {
		s.current = s.target
	}
	return s.current
}
