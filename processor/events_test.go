package processor_test

import (
	"testing"
	"time"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/processor"
)

func TestEventSlice(t *testing.T) {
	s := &processor.EventSlice{}
	s.Add(jx11.MIDIEvent{Frame: 10, Status: jx11.NoteOn, Data1: 60, Data2: 1})
	s.Add(jx11.MIDIEvent{Frame: 40, Status: jx11.NoteOff, Data1: 60})
	if ev, ok := s.NextEvent(0); !ok || ev.Frame != 10 {
		t.Fatalf("expected the first event, got %+v (ok %v)", ev, ok)
	}
	if ev, ok := s.NextEvent(10); !ok || ev.Frame != 40 {
		t.Fatalf("expected the second event, got %+v (ok %v)", ev, ok)
	}
	s.FinishBlock(32) // the second event was not due yet
	if len(s.Events) != 1 || s.Events[0].Frame != 8 {
		t.Fatalf("expected the second event to move to frame 8, got %+v", s.Events)
	}
	if ev, ok := s.NextEvent(0); !ok || ev.Status != jx11.NoteOff {
		t.Fatalf("expected the carried event, got %+v (ok %v)", ev, ok)
	}
	if _, ok := s.NextEvent(8); ok {
		t.Fatalf("expected no more events")
	}
	s.FinishBlock(32)
	if len(s.Events) != 0 {
		t.Fatalf("expected all events to be dropped, got %+v", s.Events)
	}
}

func TestEventQueue(t *testing.T) {
	q := processor.NewEventQueue(1000)
	q.Push(jx11.MIDIEvent{Status: jx11.NoteOn, Data1: 60, Data2: 100}, 100*time.Millisecond)
	q.Push(jx11.MIDIEvent{Status: jx11.NoteOff, Data1: 60}, 150*time.Millisecond)
	ev, ok := q.NextEvent(0)
	if !ok || ev.Frame != 0 || ev.Status != jx11.NoteOn {
		t.Fatalf("the first event should start the clock at frame 0, got %+v (ok %v)", ev, ok)
	}
	ev, ok = q.NextEvent(0)
	if !ok || ev.Frame != 50 {
		t.Fatalf("expected the second event 50 ms later, got %+v (ok %v)", ev, ok)
	}
	q.FinishBlock(32)
	ev, ok = q.NextEvent(0)
	if !ok || ev.Status != jx11.NoteOff {
		t.Fatalf("expected the pending event again, got %+v (ok %v)", ev, ok)
	}
	// 18 frames remained; the clock was nudged a fifth of the way towards it
	if ev.Frame != 15 {
		t.Fatalf("expected the pending event at frame 15, got %v", ev.Frame)
	}
	if _, ok := q.NextEvent(15); ok {
		t.Fatalf("expected no more events")
	}
}
