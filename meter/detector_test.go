package meter_test

import (
	"math"
	"testing"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/meter"
	"github.com/jx11synth/jx11/processor"
)

func sine(frames int, freq, amplitude float64) jx11.AudioBuffer {
	buf := make(jx11.AudioBuffer, frames)
	for i := range buf {
		v := float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/44100))
		buf[i] = [2]float32{v, v}
	}
	return buf
}

func near(a meter.Decibel, b float64, tol float64) bool {
	return math.Abs(float64(a)-b) <= tol
}

func TestMeterSine(t *testing.T) {
	m := meter.New(processor.NewBroker(), 44100, 16)
	m.Write(sine(44100, 1000, 1))
	var last meter.Result
	n := 0
	for len(m.Results) > 0 {
		last = <-m.Results
		n++
	}
	if n != 10 {
		t.Fatalf("expected 10 results for 1 s of audio, got %v", n)
	}
	for chn := range 2 {
		if !near(last.Peak[chn], 0, 0.05) {
			t.Errorf("expected a 0 dB peak, got %v", last.Peak[chn])
		}
		if !near(last.RMS[chn], -3.01, 0.05) {
			t.Errorf("expected -3 dB RMS, got %v", last.RMS[chn])
		}
	}
	if !near(last.Momentary, 0, 0.5) {
		t.Errorf("expected 0 LUFS momentary loudness, got %v", last.Momentary)
	}
	if last.MaxMomentary < last.Momentary {
		t.Errorf("max momentary %v below momentary %v", last.MaxMomentary, last.Momentary)
	}
}

func TestMeterSilence(t *testing.T) {
	m := meter.New(processor.NewBroker(), 44100, 16)
	m.Write(make(jx11.AudioBuffer, 4410))
	r := <-m.Results
	if r.Peak[0] != meter.Silent || r.RMS[1] != meter.Silent || r.Momentary != meter.Silent {
		t.Fatalf("expected silence, got %+v", r)
	}
}

func TestMeterKeepsPartialChunks(t *testing.T) {
	m := meter.New(processor.NewBroker(), 44100, 16)
	buf := sine(1000, 440, 0.5)
	for range 4 {
		m.Write(buf)
	}
	if len(m.Results) != 0 {
		t.Fatalf("expected no results before a full chunk")
	}
	m.Write(buf)
	if len(m.Results) != 1 {
		t.Fatalf("expected one result after 5000 frames, got %v", len(m.Results))
	}
	m.Reset()
	m.Write(buf[:500])
	if len(m.Results) != 1 {
		t.Fatalf("reset should drop the partial chunk")
	}
}

func TestMeterRun(t *testing.T) {
	b := processor.NewBroker()
	m := meter.New(b, 44100, 4)
	for range 3 {
		bufPtr := b.GetAudioBuffer()
		*bufPtr = append(*bufPtr, sine(2205, 440, 0.5)...)
		b.ToMeter <- bufPtr
	}
	close(b.ToMeter)
	m.Run()
	n := 0
	for range m.Results {
		n++
	}
	if n != 1 {
		t.Fatalf("expected 1 result, got %v", n)
	}
	w := m.Waveform(nil)
	want := sine(2205, 440, 0.5)[2201:]
	for i := range want {
		if w[i] != want[i] {
			t.Fatalf("waveform frame %v: got %v, want %v", i, w[i], want[i])
		}
	}
}
