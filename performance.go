package jx11

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

type (
	// Performance is a short piece of music for offline rendering: a sound
	// (preset plus parameter overrides) and a list of timed notes and raw
	// MIDI messages. Times are in seconds.
	Performance struct {
		Preset   string             `yaml:"preset,omitempty" json:"preset,omitempty"`
		Params   map[string]float32 `yaml:"params,omitempty" json:"params,omitempty"`
		Length   float64            `yaml:"length,omitempty" json:"length,omitempty"` // 0 = until the last event plus Tail
		Tail     float64            `yaml:"tail,omitempty" json:"tail,omitempty"`     // 0 = DefaultTail
		Notes    []PerformanceNote  `yaml:"notes,omitempty" json:"notes,omitempty"`
		Messages []TimedMessage     `yaml:"messages,omitempty" json:"messages,omitempty"`
	}

	PerformanceNote struct {
		Time     float64 `yaml:"time" json:"time"`
		Length   float64 `yaml:"length" json:"length"`
		Note     int     `yaml:"note" json:"note"`
		Velocity int     `yaml:"velocity" json:"velocity"`
	}

	TimedMessage struct {
		Time float64 `yaml:"time" json:"time"`
		Data []int   `yaml:"data" json:"data"`
	}
)

const DefaultTail = 1.0

var ErrInvalidPerformance = errors.New("invalid performance")

// Validate checks that all notes and messages are well formed.
func (p *Performance) Validate() error {
	if p.Length < 0 || p.Tail < 0 {
		return fmt.Errorf("%w: negative length or tail", ErrInvalidPerformance)
	}
	for i, n := range p.Notes {
		if n.Time < 0 || n.Length < 0 {
			return fmt.Errorf("%w: note %d has negative time or length", ErrInvalidPerformance, i)
		}
		if n.Note < 1 || n.Note > 127 {
			return fmt.Errorf("%w: note %d: note number %d out of range 1..127", ErrInvalidPerformance, i, n.Note)
		}
		if n.Velocity < 1 || n.Velocity > 127 {
			return fmt.Errorf("%w: note %d: velocity %d out of range 1..127", ErrInvalidPerformance, i, n.Velocity)
		}
	}
	for i, m := range p.Messages {
		if m.Time < 0 {
			return fmt.Errorf("%w: message %d has negative time", ErrInvalidPerformance, i)
		}
		if len(m.Data) == 0 || len(m.Data) > 3 {
			return fmt.Errorf("%w: message %d has %d bytes, expected 1..3", ErrInvalidPerformance, i, len(m.Data))
		}
		if m.Data[0] < 0x80 || m.Data[0] > 0xFF {
			return fmt.Errorf("%w: message %d does not start with a status byte", ErrInvalidPerformance, i)
		}
		for _, d := range m.Data[1:] {
			if d < 0 || d > 0x7F {
				return fmt.Errorf("%w: message %d has data byte %d out of range", ErrInvalidPerformance, i, d)
			}
		}
	}
	for k := range p.Params {
		if _, ok := ParamByKey(k); !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidPerformance, ErrUnknownParam, k)
		}
	}
	return nil
}

// ResolveParams returns the parameters the performance should be rendered
// with: the named preset (or the defaults) with the overrides applied.
func (p *Performance) ResolveParams(presets Presets) (Params, error) {
	params := DefaultParams()
	if p.Preset != "" {
		i := presets.Find(p.Preset)
		if i < 0 {
			return Params{}, fmt.Errorf("preset %q not found", p.Preset)
		}
		params = presets[i].Params
	}
	for k, v := range p.Params {
		if err := params.SetByKey(k, v); err != nil {
			return Params{}, err
		}
	}
	return params, nil
}

// Events converts the notes and messages into MIDIEvents sorted by frame.
// On the same frame, note-ons come last so that a note ending on that frame
// does not cut off a note starting on it; the other events keep the order in
// which they were listed, note events first. A note always lasts at least
// one frame.
func (p *Performance) Events(sampleRate int) []MIDIEvent {
	ret := make([]MIDIEvent, 0, len(p.Notes)*2+len(p.Messages))
	for _, n := range p.Notes {
		on := secondsToFrames(n.Time, sampleRate)
		off := max(secondsToFrames(n.Time+n.Length, sampleRate), on+1)
		ret = append(ret,
			MIDIEvent{Frame: on, Status: NoteOn, Data1: byte(n.Note), Data2: byte(n.Velocity)},
			MIDIEvent{Frame: off, Status: NoteOff, Data1: byte(n.Note)},
		)
	}
	for _, m := range p.Messages {
		data := make([]byte, len(m.Data))
		for i, d := range m.Data {
			data[i] = byte(d)
		}
		if ev, ok := MakeMIDIEvent(secondsToFrames(m.Time, sampleRate), data); ok {
			ret = append(ret, ev)
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].Frame != ret[j].Frame {
			return ret[i].Frame < ret[j].Frame
		}
		return !ret[i].isNoteOn() && ret[j].isNoteOn()
	})
	return ret
}

// Frames returns the total length of the rendering in frames.
func (p *Performance) Frames(sampleRate int) int {
	if p.Length > 0 {
		return secondsToFrames(p.Length, sampleRate)
	}
	end := 0.0
	for _, n := range p.Notes {
		end = math.Max(end, n.Time+n.Length)
	}
	for _, m := range p.Messages {
		end = math.Max(end, m.Time)
	}
	tail := p.Tail
	if tail == 0 {
		tail = DefaultTail
	}
	return secondsToFrames(end+tail, sampleRate)
}

func secondsToFrames(t float64, sampleRate int) int {
	return int(math.Round(t * float64(sampleRate)))
}
