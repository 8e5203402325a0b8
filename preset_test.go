package jx11_test

import (
	"testing"

	"github.com/jx11synth/jx11"
)

func TestFactoryPresets(t *testing.T) {
	presets, err := jx11.FactoryPresets()
	if err != nil {
		t.Fatalf("FactoryPresets failed: %v", err)
	}
	if len(presets) != 11 {
		t.Fatalf("expected 11 factory presets, got %v", len(presets))
	}
	if presets[0].Name != "Init" || presets[0].Params != jx11.DefaultParams() {
		t.Fatalf("first preset should be Init with default values, got %+v", presets[0])
	}
	for _, p := range presets {
		if p.User {
			t.Fatalf("factory preset %q marked as user preset", p.Name)
		}
		if p.Params.Clamp() != p.Params {
			t.Fatalf("factory preset %q has values out of range", p.Name)
		}
	}
	if i := presets.Find("mono glide"); i < 0 || presets[i].Params.PolyMode != 0 {
		t.Fatalf("Find should be case-insensitive and Mono Glide should be mono, got index %v", i)
	}
	if presets.Find("no such preset") != -1 {
		t.Fatalf("Find should return -1 for a missing preset")
	}
}

func TestParseBankRejectsWrongLength(t *testing.T) {
	if _, err := jx11.ParseBank([]byte("- name: Short\n  values: [1, 2, 3]\n")); err == nil {
		t.Fatalf("expected an error for a preset with too few values")
	}
	if _, err := jx11.ParseBank([]byte("- name: X\n  colour: red\n")); err == nil {
		t.Fatalf("expected an error for an unknown field")
	}
}

func TestUnmarshalParams(t *testing.T) {
	p, err := jx11.UnmarshalParams([]byte("filterreso: 250\nenvattack: 12\n"))
	if err != nil {
		t.Fatalf("UnmarshalParams failed: %v", err)
	}
	want := jx11.DefaultParams()
	want.FilterReso = 100
	want.EnvAttack = 12
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
	if _, err := jx11.UnmarshalParams([]byte("cowbell: 1\n")); err == nil {
		t.Fatalf("expected an error for an unknown key")
	}
}

func TestPresetNameToFilename(t *testing.T) {
	if got := jx11.PresetNameToFilename(" Echo Pad [SA] "); got != "Echo_Pad_SA" {
		t.Fatalf("expected Echo_Pad_SA, got %q", got)
	}
}
