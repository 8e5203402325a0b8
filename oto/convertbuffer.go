package oto

import (
	"encoding/binary"
	"math"

	"github.com/jx11synth/jx11"
)

// FloatBufferTo32BitLE appends the buffer to dst as interleaved little-endian
// float32 samples and returns the extended slice. Samples are clipped to
// -1..1.
func FloatBufferTo32BitLE(buf jx11.AudioBuffer, dst []byte) []byte {
	for _, frame := range buf {
		for _, v := range frame {
			v = min(max(v, -1), 1)
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}
