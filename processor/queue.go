package processor

import (
	"time"

	"github.com/jx11synth/jx11"
)

type (
	// EventQueue is an EventContext for live input. Drivers push events with
	// the time they were received from any goroutine; the audio goroutine
	// maps the timestamps to frames. The clock is locked to the first event
	// and then slowly drifts towards the arrival times of the events, so that
	// jitter in the audio callbacks does not show up as jitter in the notes.
	EventQueue struct {
		sampleRate    int
		events        chan timestampedEvent
		eventsBuf     []timestampedEvent
		eventIndex    int
		startFrame    int
		startFrameSet bool
	}

	timestampedEvent struct {
		frame int
		event jx11.MIDIEvent
	}
)

func NewEventQueue(sampleRate int) *EventQueue {
	return &EventQueue{sampleRate: sampleRate, events: make(chan timestampedEvent, 1024)}
}

// Push queues an event received at timestamp, measured from any fixed point
// in time. The frame of the event is ignored. If the queue is full, the event
// is dropped and Push returns false.
func (q *EventQueue) Push(ev jx11.MIDIEvent, timestamp time.Duration) bool {
	frame := int(timestamp.Microseconds() * int64(q.sampleRate) / 1e6)
	return TrySend(q.events, timestampedEvent{frame: frame, event: ev})
}

func (q *EventQueue) NextEvent(frame int) (event jx11.MIDIEvent, ok bool) {
F:
	for {
		select {
		case msg := <-q.events:
			q.eventsBuf = append(q.eventsBuf, msg)
			if !q.startFrameSet {
				q.startFrame = msg.frame
				q.startFrameSet = true
			}
		default:
			break F
		}
	}
	if q.eventIndex > 0 { // an event was consumed, check how badly we need to adjust the timing
		// delta is never negative, because the processor does not consume
		// an event until the current frame is past it. If it is positive, we
		// consumed the event too late, so the clock is adjusted.
		delta := frame + q.startFrame - q.eventsBuf[q.eventIndex-1].frame
		q.startFrame -= delta / 5
	}
	if q.eventIndex < len(q.eventsBuf) {
		m := q.eventsBuf[q.eventIndex]
		q.eventIndex++
		ev := m.event
		ev.Frame = m.frame - q.startFrame
		return ev, true
	}
	q.eventIndex = len(q.eventsBuf) + 1
	return jx11.MIDIEvent{}, false
}

func (q *EventQueue) FinishBlock(frame int) {
	q.startFrame += frame
	if q.eventIndex > 0 {
		copy(q.eventsBuf, q.eventsBuf[q.eventIndex-1:])
		q.eventsBuf = q.eventsBuf[:len(q.eventsBuf)-q.eventIndex+1]
		if len(q.eventsBuf) > 0 {
			// The remaining events were not due yet; nudge the clock towards
			// them so that they are played as they were received. delta is
			// always negative here.
			delta := q.startFrame - q.eventsBuf[0].frame
			q.startFrame -= delta / 5
		}
	}
	q.eventIndex = 0
}
