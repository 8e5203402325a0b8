package processor

import "github.com/jx11synth/jx11"

// EventSlice is an EventContext over events collected by the host before the
// block, e.g. the events a VST host sends through its dispatcher. Frames are
// relative to the start of the current block.
type EventSlice struct {
	Events []jx11.MIDIEvent
	index  int
}

func (e *EventSlice) NextEvent(frame int) (event jx11.MIDIEvent, ok bool) {
	if e.index < len(e.Events) {
		ev := e.Events[e.index]
		e.index++
		return ev, true
	}
	e.index = len(e.Events) + 1
	return jx11.MIDIEvent{}, false
}

// FinishBlock keeps the events that were not due yet, shifted to the next
// block, and drops the rest. The underlying array is reused.
func (e *EventSlice) FinishBlock(frame int) {
	if e.index > 0 && e.index <= len(e.Events) {
		n := copy(e.Events, e.Events[e.index-1:])
		e.Events = e.Events[:n]
		for i := range e.Events {
			e.Events[i].Frame -= frame
		}
	} else {
		e.Events = e.Events[:0]
	}
	e.index = 0
}

// Add appends an event. Events must be added in frame order.
func (e *EventSlice) Add(ev jx11.MIDIEvent) {
	e.Events = append(e.Events, ev)
}
