package synth

// Silence is the level below which an envelope is considered finished.
const Silence = 0.0001

// Envelope is an analog-style ADSR envelope. Every stage is a one-pole
// exponential approach to a target:
//
//	level = multiplier*(level-target) + target
//
// The attack aims at 2.0 so that the curve is still steep when it crosses
// 1.0. The switch from attack to decay happens implicitly once
// level+target > 3, i.e. when level exceeds 1.0 during the attack stage; no
// explicit stage variable is kept.
type Envelope struct {
	// Coefficients, written by the synth before Attack.
	AttackMultiplier  float32
	DecayMultiplier   float32
	SustainLevel      float32
	ReleaseMultiplier float32

	level      float32
	target     float32
	multiplier float32
}

// NextValue advances the envelope by one sample and returns the new level.
func (e *Envelope) NextValue() float32 {
	e.level = e.multiplier*(e.level-e.target) + e.target
	if e.level+e.target > 3 {
		e.multiplier = e.DecayMultiplier
		e.target = e.SustainLevel
	}
	return e.level
}

// Attack starts the attack stage from the current level, so a retriggered
// note does not click.
func (e *Envelope) Attack() {
	e.level += Silence + Silence
	e.target = 2
	e.multiplier = e.AttackMultiplier
}

func (e *Envelope) Release() {
	e.target = 0
	e.multiplier = e.ReleaseMultiplier
}

func (e *Envelope) Reset() {
	e.level = 0
	e.target = 0
	e.multiplier = 0
}

func (e *Envelope) Level() float32 { return e.level }

func (e *Envelope) IsActive() bool { return e.level > Silence }

func (e *Envelope) IsInAttack() bool { return e.target >= 2 }
