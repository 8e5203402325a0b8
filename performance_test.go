package jx11_test

import (
	"errors"
	"testing"

	"github.com/jx11synth/jx11"
)

func TestPerformanceEvents(t *testing.T) {
	perf := jx11.Performance{
		Notes: []jx11.PerformanceNote{
			{Time: 0.5, Length: 0.5, Note: 64, Velocity: 90},
			{Time: 0, Length: 0.5, Note: 60, Velocity: 100},
		},
		Messages: []jx11.TimedMessage{{Time: 0.25, Data: []int{0xB0, 0x40, 127}}},
	}
	if err := perf.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	got := perf.Events(1000)
	want := []jx11.MIDIEvent{
		{Frame: 0, Status: jx11.NoteOn, Data1: 60, Data2: 100},
		{Frame: 250, Status: 0xB0, Data1: 0x40, Data2: 127},
		{Frame: 500, Status: jx11.NoteOff, Data1: 60},
		{Frame: 500, Status: jx11.NoteOn, Data1: 64, Data2: 90},
		{Frame: 1000, Status: jx11.NoteOff, Data1: 64},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %v: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := perf.Frames(1000); n != 2000 {
		t.Fatalf("expected 2000 frames with the default tail, got %v", n)
	}
	perf.Length = 3
	if n := perf.Frames(1000); n != 3000 {
		t.Fatalf("expected 3000 frames with explicit length, got %v", n)
	}
}

func TestPerformanceEventsNoteOffBeforeNoteOn(t *testing.T) {
	// the second repetition is listed first; its note-on shares a frame with
	// the note-off of the first one
	perf := jx11.Performance{
		Notes: []jx11.PerformanceNote{
			{Time: 0.5, Length: 0.5, Note: 60, Velocity: 90},
			{Time: 0, Length: 0.5, Note: 60, Velocity: 100},
			{Time: 2, Length: 0, Note: 62, Velocity: 100},
		},
	}
	got := perf.Events(1000)
	want := []jx11.MIDIEvent{
		{Frame: 0, Status: jx11.NoteOn, Data1: 60, Data2: 100},
		{Frame: 500, Status: jx11.NoteOff, Data1: 60},
		{Frame: 500, Status: jx11.NoteOn, Data1: 60, Data2: 90},
		{Frame: 1000, Status: jx11.NoteOff, Data1: 60},
		{Frame: 2000, Status: jx11.NoteOn, Data1: 62, Data2: 100},
		{Frame: 2001, Status: jx11.NoteOff, Data1: 62},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %v: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPerformanceValidate(t *testing.T) {
	tests := []struct {
		name string
		perf jx11.Performance
	}{
		{"note out of range", jx11.Performance{Notes: []jx11.PerformanceNote{{Note: 0, Velocity: 1}}}},
		{"zero velocity", jx11.Performance{Notes: []jx11.PerformanceNote{{Note: 60}}}},
		{"negative time", jx11.Performance{Notes: []jx11.PerformanceNote{{Time: -1, Note: 60, Velocity: 1}}}},
		{"empty message", jx11.Performance{Messages: []jx11.TimedMessage{{}}}},
		{"running status", jx11.Performance{Messages: []jx11.TimedMessage{{Data: []int{0x40, 1}}}}},
		{"unknown param", jx11.Performance{Params: map[string]float32{"cowbell": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.perf.Validate(); !errors.Is(err, jx11.ErrInvalidPerformance) {
				t.Fatalf("expected ErrInvalidPerformance, got %v", err)
			}
		})
	}
}

func TestResolveParams(t *testing.T) {
	presets, err := jx11.FactoryPresets()
	if err != nil {
		t.Fatalf("FactoryPresets failed: %v", err)
	}
	perf := jx11.Performance{Preset: "Bubble", Params: map[string]float32{"noise": 40}}
	p, err := perf.ResolveParams(presets)
	if err != nil {
		t.Fatalf("ResolveParams failed: %v", err)
	}
	want := presets[presets.Find("Bubble")].Params
	want.Noise = 40
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
	perf.Preset = "missing"
	if _, err := perf.ResolveParams(presets); err == nil {
		t.Fatalf("expected an error for a missing preset")
	}
}
