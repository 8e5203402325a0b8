package processor

import (
	"fmt"
	"sync/atomic"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/synth"
)

type (
	// Processor sits between a host and the synth. It splits each block at
	// the MIDI event offsets so that events take effect on the exact frame,
	// and it takes care of the parameters: other goroutines publish new
	// parameter snapshots, and the audio goroutine picks them up once at the
	// start of each block. The audio path does not allocate or lock.
	//
	// Process, ProcessBuffer and Reset must be called from a single
	// goroutine (the audio goroutine). All the other methods are safe to
	// call from any goroutine.
	Processor struct {
		synth   *synth.Synth
		broker  *Broker
		presets jx11.Presets

		params       atomic.Pointer[jx11.Params]
		changed      atomic.Bool
		resetPending atomic.Bool
		program      atomic.Int32

		midiLearn   atomic.Bool
		midiLearnCC atomic.Uint32

		clampReported bool
		left, right   []float32
	}

	// EventContext feeds timestamped MIDI events to ProcessBuffer. NextEvent
	// returns the next event of the current block; frame tells how far the
	// rendering has progressed. An event returned by NextEvent but not yet
	// due when the block ends is expected to be returned again in the next
	// block, with its frame made relative to the new block. FinishBlock is
	// called with the block length after every block.
	EventContext interface {
		NextEvent(frame int) (event jx11.MIDIEvent, ok bool)
		FinishBlock(frame int)
	}
)

// New creates a processor. presets is the bank selected by program change;
// broker may be nil, in which case alerts and audio for metering are
// dropped.
func New(sampleRate float32, presets jx11.Presets, broker *Broker) (*Processor, error) {
	s, err := synth.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("synth.New failed: %w", err)
	}
	p := &Processor{synth: s, broker: broker, presets: presets}
	p.midiLearnCC.Store(jx11.CCResonance)
	if len(presets) > 0 {
		params := presets[0].Params
		p.params.Store(&params)
	} else {
		params := jx11.DefaultParams()
		p.params.Store(&params)
	}
	p.changed.Store(true)
	return p, nil
}

func (p *Processor) SampleRate() float32 { return p.synth.SampleRate() }

// Params returns the most recently published parameters.
func (p *Processor) Params() jx11.Params {
	return *p.params.Load()
}

// SetParams publishes a new parameter snapshot. The synth picks it up at the
// start of the next block.
func (p *Processor) SetParams(params jx11.Params) {
	params = params.Clamp()
	p.params.Store(&params)
	p.changed.Store(true)
}

// SetParam changes a single parameter.
func (p *Processor) SetParam(id jx11.ParamID, value float32) {
	for {
		old := p.params.Load()
		params := *old
		params.Set(id, value)
		if p.params.CompareAndSwap(old, &params) {
			break
		}
	}
	p.changed.Store(true)
}

func (p *Processor) Presets() jx11.Presets { return p.presets }

// CurrentProgram returns the index of the last selected preset.
func (p *Processor) CurrentProgram() int { return int(p.program.Load()) }

// SelectPreset applies the preset: all parameters are replaced and the synth
// is reset at the start of the next block.
func (p *Processor) SelectPreset(index int) error {
	if index < 0 || index >= len(p.presets) {
		return fmt.Errorf("preset index %d out of range 0..%d", index, len(p.presets)-1)
	}
	p.program.Store(int32(index))
	p.params.Store(&p.presets[index].Params)
	p.changed.Store(true)
	p.resetPending.Store(true)
	return nil
}

// SetMIDILearn arms or disarms MIDI learn. When armed, the next control
// change message picks the controller that is mapped to filter resonance.
// The controller previously mapped to resonance is released.
func (p *Processor) SetMIDILearn(on bool) { p.midiLearn.Store(on) }

func (p *Processor) MIDILearn() bool { return p.midiLearn.Load() }

func (p *Processor) MIDILearnCC() byte { return byte(p.midiLearnCC.Load()) }

// SetMIDILearnCC maps filter resonance to the controller cc, starting from
// the next block.
func (p *Processor) SetMIDILearnCC(cc byte) { p.midiLearnCC.Store(uint32(cc & 0x7F)) }

// Reset silences the synth and clears its performance state.
func (p *Processor) Reset() {
	p.synth.Reset()
}

// Process renders len(left) frames. right may be nil for mono output,
// otherwise it must be as long as left. events must be sorted by frame;
// events with a frame before the previous event are handled as soon as
// possible, and events past the end of the block at the end of the block.
func (p *Processor) Process(left, right []float32, events []jx11.MIDIEvent) {
	p.applyChanges()
	offset := 0
	for _, ev := range events {
		frame := min(max(ev.Frame, offset), len(left))
		if frame > offset {
			p.render(left[offset:frame], sub(right, offset, frame))
			offset = frame
		}
		p.handleMIDI(ev)
	}
	if offset < len(left) {
		p.render(left[offset:], sub(right, offset, len(left)))
	}
}

// ProcessBuffer fills an interleaved stereo buffer, pulling MIDI events from
// ctx. It is the entry point for hosts that work with jx11.AudioBuffers.
func (p *Processor) ProcessBuffer(buffer jx11.AudioBuffer, ctx EventContext) {
	n := len(buffer)
	if len(p.left) < n {
		p.left = make([]float32, n)
		p.right = make([]float32, n)
	}
	left, right := p.left[:n], p.right[:n]
	p.applyChanges()
	frame := 0
	ev, ok := ctx.NextEvent(frame)
	for frame < n {
		for ok && ev.Frame <= frame {
			p.handleMIDI(ev)
			ev, ok = ctx.NextEvent(frame)
		}
		end := n
		if ok && ev.Frame < end {
			end = ev.Frame
		}
		p.render(left[frame:end], right[frame:end])
		frame = end
	}
	ctx.FinishBlock(n)
	buffer.Interleave(left, right)
	p.sendToMeter(buffer)
}

func (p *Processor) applyChanges() {
	if p.changed.Swap(false) {
		p.synth.Update(*p.params.Load())
	}
	if p.resetPending.Swap(false) {
		p.synth.Reset()
	}
	p.synth.SetResonanceCC(byte(p.midiLearnCC.Load()))
}

func (p *Processor) render(left, right []float32) {
	switch p.synth.Render(left, right) {
	case synth.EarsSilenced:
		p.alert(Alert{Kind: AlertEars, Priority: Error, Verdict: synth.EarsSilenced})
	case synth.EarsClamped:
		if !p.clampReported {
			p.clampReported = true
			p.alert(Alert{Kind: AlertEars, Priority: Warning, Verdict: synth.EarsClamped})
		}
	}
}

func (p *Processor) handleMIDI(ev jx11.MIDIEvent) {
	status, data1, data2 := ev.Status, ev.Data1&0x7F, ev.Data2&0x7F
	switch status & 0xF0 {
	case jx11.ControlChange:
		if p.midiLearn.Load() {
			p.midiLearnCC.Store(uint32(data1))
			p.synth.SetResonanceCC(data1)
			p.midiLearn.Store(false)
			p.alert(Alert{Kind: AlertMIDILearned, Priority: Info, Value: int(data1)})
			return
		}
	case jx11.ProgramChange:
		p.programChange(int(data1))
		return
	}
	p.synth.MIDIMessage(status, data1, data2)
}

// programChange applies a preset from the audio goroutine. The preset
// already lives in the bank, so only a pointer is published.
func (p *Processor) programChange(index int) {
	if index >= len(p.presets) {
		p.alert(Alert{Kind: AlertBadProgram, Priority: Warning, Value: index})
		return
	}
	p.program.Store(int32(index))
	p.params.Store(&p.presets[index].Params)
	p.synth.Update(p.presets[index].Params)
	p.synth.Reset()
	p.alert(Alert{Kind: AlertProgramChange, Priority: Info, Value: index})
}

func (p *Processor) alert(a Alert) {
	if p.broker != nil {
		TrySend(p.broker.Alerts, a)
	}
}

func (p *Processor) sendToMeter(buffer jx11.AudioBuffer) {
	if p.broker == nil || len(buffer) == 0 {
		return
	}
	bufPtr := p.broker.GetAudioBuffer() // borrow a buffer from the broker
	*bufPtr = append(*bufPtr, buffer...)
	if !TrySend(p.broker.ToMeter, bufPtr) {
		p.broker.PutAudioBuffer(bufPtr)
	}
}

func sub(s []float32, from, to int) []float32 {
	if s == nil {
		return nil
	}
	return s[from:to]
}
