package synth

import "testing"

func TestEnvelopeStages(t *testing.T) {
	e := Envelope{AttackMultiplier: 0.99, DecayMultiplier: 0.999, SustainLevel: 0.5, ReleaseMultiplier: 0.99}
	e.Attack()
	if !e.IsInAttack() {
		t.Fatalf("envelope should be in attack after Attack()")
	}
	prev := e.Level()
	samples := 0
	for e.IsInAttack() {
		v := e.NextValue()
		if e.IsInAttack() && v <= prev {
			t.Fatalf("attack not strictly increasing at sample %v: %v <= %v", samples, v, prev)
		}
		prev = v
		samples++
		if samples > 10000 {
			t.Fatalf("attack did not finish in %v samples", samples)
		}
	}
	if prev <= 1 {
		t.Fatalf("attack should end above 1.0, ended at %v", prev)
	}
	for i := 0; i < 20000; i++ {
		e.NextValue()
	}
	if d := e.Level() - 0.5; d > 1e-3 || d < -1e-3 {
		t.Fatalf("decay should settle at sustain level 0.5, got %v", e.Level())
	}
	e.Release()
	start := e.Level()
	prev = start
	for i := 0; i < 2000; i++ {
		v := e.NextValue()
		if v > prev || v > start {
			t.Fatalf("release not decreasing at sample %v: %v > %v", i, v, prev)
		}
		prev = v
	}
	if e.IsActive() {
		t.Fatalf("envelope should be silent after release, level %v", e.Level())
	}
}

func TestEnvelopeRetriggerStartsFromCurrentLevel(t *testing.T) {
	e := Envelope{AttackMultiplier: 0.9, DecayMultiplier: 0.9, SustainLevel: 0.3, ReleaseMultiplier: 0.9}
	e.Attack()
	for i := 0; i < 100; i++ {
		e.NextValue()
	}
	before := e.Level()
	e.Attack()
	if e.Level() < before {
		t.Fatalf("retrigger dropped the level from %v to %v", before, e.Level())
	}
	e.Reset()
	if e.IsActive() || e.IsInAttack() || e.Level() != 0 {
		t.Fatalf("Reset did not silence the envelope: %+v", e)
	}
}
