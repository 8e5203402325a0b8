package processor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/synth"
)

type (
	// Broker carries messages out of the audio goroutine. The processor only
	// ever sends to it with TrySend, so a slow or missing reader costs
	// dropped messages, never a blocked audio callback. Rendered audio is
	// passed around in *jx11.AudioBuffers borrowed from a sync.Pool, so that
	// metering does not allocate in steady state.
	Broker struct {
		ToMeter chan *jx11.AudioBuffer
		Alerts  chan Alert

		bufferPool sync.Pool
	}

	// Alert is a notification from the audio goroutine. It holds no
	// strings, so sending one does not allocate.
	Alert struct {
		Kind     AlertKind
		Priority AlertPriority
		Value    int
		Verdict  synth.EarVerdict
	}

	AlertKind     int
	AlertPriority int
)

const (
	AlertEars          AlertKind = iota // Verdict tells what happened
	AlertProgramChange                  // Value is the new program
	AlertMIDILearned                    // Value is the learned CC number
	AlertBadProgram                     // Value is the requested program
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

func NewBroker() *Broker {
	return &Broker{
		ToMeter:    make(chan *jx11.AudioBuffer, 1024),
		Alerts:     make(chan Alert, 64),
		bufferPool: sync.Pool{New: func() any { return &jx11.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the pool. After use, it
// should be returned with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *jx11.AudioBuffer {
	return b.bufferPool.Get().(*jx11.AudioBuffer)
}

// PutAudioBuffer returns a buffer to the pool, keeping its capacity.
func (b *Broker) PutAudioBuffer(buf *jx11.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

func (a Alert) String() string {
	switch a.Kind {
	case AlertEars:
		return "ear protection: " + a.Verdict.String()
	case AlertProgramChange:
		return fmt.Sprintf("program change to %d", a.Value)
	case AlertMIDILearned:
		return fmt.Sprintf("MIDI learn: resonance mapped to CC %d", a.Value)
	case AlertBadProgram:
		return fmt.Sprintf("program %d does not exist", a.Value)
	}
	return "unknown alert"
}

func (p AlertPriority) String() string {
	switch p {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// LogAlerts logs every alert received from c until c is closed.
func LogAlerts(c <-chan Alert) {
	for a := range c {
		log.Printf("%v: %v", a.Priority, a)
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
