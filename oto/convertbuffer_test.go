package oto

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/jx11synth/jx11"
)

func TestFloatBufferTo32BitLE(t *testing.T) {
	buf := jx11.AudioBuffer{{0.25, -0.5}, {3, -3}}
	b := FloatBufferTo32BitLE(buf, nil)
	if len(b) != 16 {
		t.Fatalf("expected 16 bytes, got %v", len(b))
	}
	want := []float32{0.25, -0.5, 1, -1}
	for i, w := range want {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])); got != w {
			t.Fatalf("sample %v: got %v, want %v", i, got, w)
		}
	}
}

func TestPlaybackRead(t *testing.T) {
	calls := 0
	p := &playback{
		done: make(chan struct{}),
		render: func(buf jx11.AudioBuffer) error {
			calls++
			if calls > 2 {
				return io.EOF
			}
			for i := range buf {
				buf[i] = [2]float32{0.5, 0.5}
			}
			return nil
		},
	}
	b := make([]byte, 12) // one and a half frames
	n, err := p.Read(b)
	if n != 12 || err != nil {
		t.Fatalf("expected 12 bytes, got %v (%v)", n, err)
	}
	// the rest of the second frame, after which render ends
	n, err = p.Read(b)
	if n != 4 || err != nil {
		t.Fatalf("expected 4 bytes, got %v (%v)", n, err)
	}
	n, err = p.Read(b)
	if !errors.Is(err, io.EOF) || n != 0 {
		t.Fatalf("expected io.EOF, got %v bytes, %v", n, err)
	}
	if calls != 3 {
		t.Fatalf("render should not be called after it failed, got %v calls", calls)
	}
	select {
	case <-p.done:
	default:
		t.Fatalf("playback should be finished")
	}
}
