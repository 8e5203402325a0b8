// Package meter measures the output of the synth outside the audio goroutine:
// sample peaks, RMS levels and K-weighted loudness. It reads the blocks that
// the processor publishes on the broker.
package meter

import (
	"math"
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/processor"
)

type (
	// Meter chops the incoming audio into 100 ms chunks and publishes one
	// Result per chunk.
	Meter struct {
		broker    *processor.Broker
		chunkSize int
		loudness  loudnessDetector
		peaks     peakDetector
		chunk     jx11.AudioBuffer
		tmp       []float32

		mu       sync.Mutex // guards everything above and the waveform
		waveform RingBuffer[[2]float32]

		Results chan Result
	}

	Decibel float32

	Result struct {
		Momentary    Decibel    // K-weighted loudness over the last 400 ms
		ShortTerm    Decibel    // K-weighted loudness over the last 3 s
		MaxMomentary Decibel    // highest momentary loudness since the last reset
		Peak         [2]Decibel // sample peak of the chunk
		PeakHold     [2]Decibel // highest sample peak since the last reset
		RMS          [2]Decibel
	}

	loudnessDetector struct {
		states    [2][2]biquadState
		momentary RingBuffer[float32]
		shortTerm RingBuffer[float32]
		maxPower  float32
		tmp, tmp2 []float32
	}

	peakDetector struct {
		hold [2]float32
	}

	biquadState struct {
		x1, x2, y1, y2 float32
	}

	biquadCoeff struct {
		b0, b1, b2, a1, a2 float32
	}
)

// From ITU-R BS.1770, designed for 44.1 kHz. At other sample rates the
// weighting is approximate.
var kWeighting = [2]biquadCoeff{
	{b0: 1.5308412300503476, b1: -2.6509799951547293, b2: 1.1690790799215869, a1: -1.6636551132560204, a2: 0.7125954280732254},
	{b0: 0.9995600645425144, b1: -1.9991201290850289, b2: 0.9995600645425144, a1: -1.9891696736297957, a2: 0.9891990357870394},
}

// kOffset makes up for K-weighting having slightly above unity gain at 1 kHz.
const kOffset = -0.691

// Silent is reported for signals with no energy at all.
const Silent Decibel = -math.MaxFloat32

// New creates a meter for audio at the given sample rate. waveformLength is
// the number of most recent frames kept for Waveform.
func New(broker *processor.Broker, sampleRate float32, waveformLength int) *Meter {
	chunkSize := max(int(sampleRate/10), 1)
	return &Meter{
		broker:    broker,
		chunkSize: chunkSize,
		loudness: loudnessDetector{
			momentary: RingBuffer[float32]{Buffer: make([]float32, 4)},  // 4 x 100 ms
			shortTerm: RingBuffer[float32]{Buffer: make([]float32, 30)}, // 30 x 100 ms
		},
		chunk:    make(jx11.AudioBuffer, 0, chunkSize),
		waveform: RingBuffer[[2]float32]{Buffer: make([][2]float32, max(waveformLength, 1))},
		Results:  make(chan Result, 16),
	}
}

// Run consumes audio from the broker until broker.ToMeter is closed. Buffers
// are returned to the broker's pool once measured.
func (m *Meter) Run() {
	for bufPtr := range m.broker.ToMeter {
		m.Write(*bufPtr)
		m.broker.PutAudioBuffer(bufPtr)
	}
	close(m.Results)
}

// Write measures buf. A Result is sent, if there is room, for every complete
// chunk; leftover frames wait for the next call.
func (m *Meter) Write(buf jx11.AudioBuffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waveform.WriteWrap(buf)
	for len(buf) > 0 {
		l := min(len(buf), m.chunkSize-len(m.chunk))
		m.chunk = append(m.chunk, buf[:l]...)
		buf = buf[l:]
		if len(m.chunk) < m.chunkSize {
			break
		}
		processor.TrySend(m.Results, m.measure(m.chunk))
		m.chunk = m.chunk[:0]
	}
}

// Waveform returns the most recent frames, oldest first.
func (m *Meter) Waveform(dst jx11.AudioBuffer) jx11.AudioBuffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waveform.Ordered(dst)
}

// Reset forgets the loudness history and the peak hold.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loudness.reset()
	m.peaks = peakDetector{}
	m.chunk = m.chunk[:0]
}

func (m *Meter) measure(chunk jx11.AudioBuffer) Result {
	setSliceLength(&m.tmp, len(chunk))
	var ret Result
	for chn := range 2 {
		for i := range chunk {
			m.tmp[i] = chunk[i][chn]
		}
		meanSquare := vek32.Dot(m.tmp, m.tmp) / float32(len(chunk))
		ret.RMS[chn] = power2decibel(meanSquare, 0)
		ret.Peak[chn], ret.PeakHold[chn] = m.peaks.update(chn, m.tmp)
	}
	ret.Momentary, ret.ShortTerm, ret.MaxMomentary = m.loudness.update(chunk)
	return ret
}

// update follows EBU Tech 3341: the momentary window is the last 400 ms and
// the short-term window the last 3 s, both updated every 100 ms.
func (d *loudnessDetector) update(chunk jx11.AudioBuffer) (momentary, shortTerm, maxMomentary Decibel) {
	setSliceLength(&d.tmp, len(chunk))
	setSliceLength(&d.tmp2, len(chunk))
	var total float32
	for chn := range 2 {
		for i := range chunk {
			d.tmp[i] = chunk[i][chn]
		}
		for k := range kWeighting {
			d.states[chn][k].filter(d.tmp, kWeighting[k])
		}
		squared := vek32.Mul_Into(d.tmp2, d.tmp, d.tmp)
		total += vek32.Mean(squared)
	}
	d.momentary.WriteWrapSingle(total)
	d.shortTerm.WriteWrapSingle(total)
	m := vek32.Mean(d.momentary.Buffer)
	d.maxPower = max(d.maxPower, m)
	return power2decibel(m, kOffset), power2decibel(vek32.Mean(d.shortTerm.Buffer), kOffset), power2decibel(d.maxPower, kOffset)
}

func (d *loudnessDetector) reset() {
	d.states = [2][2]biquadState{}
	d.momentary.clear()
	d.shortTerm.clear()
	d.maxPower = 0
}

func (d *peakDetector) update(chn int, samples []float32) (peak, hold Decibel) {
	vek32.Abs_Inplace(samples)
	p := vek32.Max(samples)
	d.hold[chn] = max(d.hold[chn], p)
	return amplitude2decibel(p), amplitude2decibel(d.hold[chn])
}

func (s *biquadState) filter(buffer []float32, c biquadCoeff) {
	st := *s
	for i, x := range buffer {
		y := c.b0*x + c.b1*st.x1 + c.b2*st.x2 - c.a1*st.y1 - c.a2*st.y2
		st.x2, st.x1 = st.x1, x
		st.y2, st.y1 = st.y1, y
		buffer[i] = y
	}
	*s = st
}

func power2decibel(power, offset float32) Decibel {
	if power <= 0 {
		return Silent
	}
	return Decibel(float32(10*math.Log10(float64(power))) + offset)
}

func amplitude2decibel(a float32) Decibel {
	if a <= 0 {
		return Silent
	}
	return Decibel(20 * math.Log10(float64(a)))
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}
