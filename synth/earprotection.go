package synth

import "github.com/chewxy/math32"

// EarVerdict tells what ProtectYourEars had to do to a buffer. Larger values
// are worse.
type EarVerdict int

const (
	EarsOK EarVerdict = iota
	EarsClamped
	EarsSilenced
)

func (v EarVerdict) String() string {
	switch v {
	case EarsOK:
		return "ok"
	case EarsClamped:
		return "sample values above 1.0 clamped"
	case EarsSilenced:
		return "NaN, Inf or sample value above 2.0, output silenced"
	}
	return "unknown"
}

// ProtectYourEars is the last stage before audio leaves the synth. If the
// buffer contains NaN, Inf or a sample with magnitude above 2, the whole
// buffer is zeroed; otherwise samples above 1 are clamped to ±1. A nil buffer
// is left alone. It never allocates, so the caller decides whether and where
// to report the verdict.
func ProtectYourEars(buf []float32) EarVerdict {
	ret := EarsOK
	for i, x := range buf {
		switch {
		case math32.IsNaN(x), math32.IsInf(x, 0), x < -2, x > 2:
			clear(buf)
			return EarsSilenced
		case x < -1:
			buf[i] = -1
			ret = EarsClamped
		case x > 1:
			buf[i] = 1
			ret = EarsClamped
		}
	}
	return ret
}
