package processor

import (
	"fmt"

	"github.com/jx11synth/jx11"
)

// DefaultBlockSize is the block size used for offline rendering. Events are
// sample accurate regardless of the block size.
const DefaultBlockSize = 512

// Render plays a performance offline and returns the stereo output. The
// performance is validated first.
func Render(perf *jx11.Performance, presets jx11.Presets, sampleRate, blockSize int) (jx11.AudioBuffer, error) {
	if err := perf.Validate(); err != nil {
		return nil, err
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	params, err := perf.ResolveParams(presets)
	if err != nil {
		return nil, fmt.Errorf("could not resolve performance parameters: %w", err)
	}
	p, err := New(float32(sampleRate), presets, nil)
	if err != nil {
		return nil, err
	}
	p.SetParams(params)
	events := perf.Events(sampleRate)
	total := perf.Frames(sampleRate)
	ret := make(jx11.AudioBuffer, total)
	left := make([]float32, blockSize)
	right := make([]float32, blockSize)
	blockEvents := make([]jx11.MIDIEvent, 0, 64)
	for start := 0; start < total; start += blockSize {
		n := min(blockSize, total-start)
		blockEvents = blockEvents[:0]
		for len(events) > 0 && events[0].Frame < start+n {
			ev := events[0]
			ev.Frame -= start
			blockEvents = append(blockEvents, ev)
			events = events[1:]
		}
		p.Process(left[:n], right[:n], blockEvents)
		ret[start:start+n].Interleave(left[:n], right[:n])
	}
	return ret, nil
}
