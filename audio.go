package jx11

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type (
	// AudioBuffer is a buffer of interleaved stereo frames.
	AudioBuffer [][2]float32

	// AudioContext plays audio pulled from a render callback. render fills
	// the whole buffer on every call; returning an error (io.EOF for a
	// normal end) stops the playback once the already rendered audio has
	// been played.
	AudioContext interface {
		Play(render func(buf AudioBuffer) error) CloserWaiter
		Close() error
	}

	// CloserWaiter is a playback in progress. Wait blocks until the playback
	// has ended or was closed.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)

// Deinterleave copies the buffer into separate left and right slices, which
// must be at least len(b) long.
func (b AudioBuffer) Deinterleave(left, right []float32) {
	for i, v := range b {
		left[i], right[i] = v[0], v[1]
	}
}

// Interleave fills the buffer from separate channels. If right is nil, left
// is copied to both channels.
func (b AudioBuffer) Interleave(left, right []float32) {
	if right == nil {
		for i := range b {
			b[i] = [2]float32{left[i], left[i]}
		}
		return
	}
	for i := range b {
		b[i] = [2]float32{left[i], right[i]}
	}
}

// Raw writes the buffer as headerless little-endian data, either int16 or
// float32.
func (b AudioBuffer) Raw(pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error
	if pcm16 {
		int16data := make([]int16, len(b)*2)
		for i, v := range b {
			int16data[2*i] = int16(clampInt(int(v[0]*math.MaxInt16), math.MinInt16, math.MaxInt16))
			int16data[2*i+1] = int16(clampInt(int(v[1]*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, b)
	}
	if err != nil {
		return nil, fmt.Errorf("could not binary write data to binary buffer: %v", err)
	}
	return buf.Bytes(), nil
}

// Wav encodes the buffer as a stereo PCM .wav file with the given bit depth
// (16, 24 or 32).
func (b AudioBuffer) Wav(w io.WriteSeeker, sampleRate, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	const pcm = 1
	scale := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, len(b)*2)
	for i, v := range b {
		for c := 0; c < 2; c++ {
			data[2*i+c] = clampInt(int(float64(v[c])*scale), -int(scale)-1, int(scale))
		}
	}
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	e := wav.NewEncoder(w, sampleRate, bitDepth, 2, pcm)
	if err := e.Write(intBuf); err != nil {
		return fmt.Errorf("wav encoding failed: %w", err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("could not close wav encoder: %w", err)
	}
	return nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
