package jx11

// MIDIEvent is a short (at most three byte) MIDI message. Frame is relative to
// the start of the buffer being processed, or to the start of a performance
// when rendering offline. Longer messages such as sysex are never turned into
// MIDIEvents.
type MIDIEvent struct {
	Frame  int
	Status byte
	Data1  byte
	Data2  byte
}

// MIDI status bytes, with the channel nibble cleared.
const (
	NoteOff         = 0x80
	NoteOn          = 0x90
	PolyPressure    = 0xA0
	ControlChange   = 0xB0
	ProgramChange   = 0xC0
	ChannelPressure = 0xD0
	PitchBend       = 0xE0
)

// Controller numbers handled by the synth.
const (
	CCModWheel     = 0x01
	CCSustainPedal = 0x40
	CCResonance    = 0x47
	CCFilterUp     = 0x4A
	CCFilterDown   = 0x4B
	CCAllSoundOff  = 0x78 // this and every controller above it silence the synth
)

// MakeMIDIEvent builds an event from raw bytes. ok is false if the message is
// empty, longer than three bytes, or does not start with a status byte.
func MakeMIDIEvent(frame int, data []byte) (ev MIDIEvent, ok bool) {
	if len(data) == 0 || len(data) > 3 || data[0] < 0x80 {
		return MIDIEvent{}, false
	}
	ev = MIDIEvent{Frame: frame, Status: data[0]}
	if len(data) >= 2 {
		ev.Data1 = data[1]
	}
	if len(data) == 3 {
		ev.Data2 = data[2]
	}
	return ev, true
}

// Type returns the status with the channel nibble cleared.
func (e MIDIEvent) Type() byte {
	return e.Status & 0xF0
}

func (e MIDIEvent) Channel() int {
	return int(e.Status & 0x0F)
}

func (e MIDIEvent) isNoteOn() bool {
	return e.Type() == NoteOn && e.Data2 > 0
}
