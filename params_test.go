package jx11_test

import (
	"errors"
	"testing"

	"github.com/jx11synth/jx11"
)

func TestDefaultParamsWithinRange(t *testing.T) {
	p := jx11.DefaultParams()
	for i := jx11.ParamID(0); i < jx11.NumParams; i++ {
		info := i.Info()
		if v := p.Get(i); v < info.Min || v > info.Max {
			t.Fatalf("default of %v is %v, outside %v..%v", i, v, info.Min, info.Max)
		}
	}
	if p.Clamp() != p {
		t.Fatalf("clamping the defaults changed them")
	}
}

func TestParamKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := jx11.ParamID(0); i < jx11.NumParams; i++ {
		key := i.String()
		if key == "" || seen[key] {
			t.Fatalf("parameter %d has an empty or duplicate key %q", i, key)
		}
		seen[key] = true
		if id, ok := jx11.ParamByKey(key); !ok || id != i {
			t.Fatalf("ParamByKey(%q) = %v, %v; want %v", key, id, ok, i)
		}
	}
}

func TestSetClamps(t *testing.T) {
	var p jx11.Params
	p.Set(jx11.FilterReso, 1000)
	if p.FilterReso != 100 {
		t.Fatalf("expected resonance clamped to 100, got %v", p.FilterReso)
	}
	p.Set(jx11.OutputLevel, -100)
	if p.OutputLevel != -24 {
		t.Fatalf("expected output level clamped to -24, got %v", p.OutputLevel)
	}
	if err := p.SetByKey("envattack", 42); err != nil || p.EnvAttack != 42 {
		t.Fatalf("SetByKey failed: %v (value %v)", err, p.EnvAttack)
	}
	if err := p.SetByKey("cowbell", 1); !errors.Is(err, jx11.ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	info := jx11.FilterEnv.Info()
	for _, v := range []float32{-100, -50, 0, 25, 100} {
		n := info.Normalize(v)
		if n < 0 || n > 1 {
			t.Fatalf("Normalize(%v) = %v, outside 0..1", v, n)
		}
		if got := info.Denormalize(n); got-v > 1e-4 || v-got > 1e-4 {
			t.Fatalf("Denormalize(Normalize(%v)) = %v", v, got)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		id    jx11.ParamID
		value float32
		want  string
	}{
		{jx11.OscMix, 0, " 100: 0"},
		{jx11.OscMix, 100, "  50:50"},
		{jx11.FilterVelocity, -100, "OFF"},
		{jx11.FilterVelocity, 30, "30"},
		{jx11.LFORate, 4.0 / 7.0, "1.000"},
		{jx11.Vibrato, -20, "PWM 20.0"},
		{jx11.Vibrato, 20, "20.0"},
		{jx11.GlideMode, 2, "Always"},
		{jx11.PolyMode, 0, "Mono"},
		{jx11.Octave, -2, "-2"},
	}
	for _, tt := range tests {
		if got := jx11.FormatValue(tt.id, tt.value); got != tt.want {
			t.Errorf("FormatValue(%v, %v) = %q, want %q", tt.id, tt.value, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := jx11.FilterReso.Info().DisplayName(); got != "Filter Reso" {
		t.Fatalf("expected %q, got %q", "Filter Reso", got)
	}
}
