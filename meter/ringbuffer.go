package meter

// RingBuffer is a generic ring buffer with buffer and a cursor. The meter uses
// it for the sliding loudness windows and for the waveform snapshot.
type RingBuffer[T any] struct {
	Buffer []T
	Cursor int
}

// WriteWrap writes values ending at the cursor, overwriting the oldest data.
// If values is longer than the buffer, only its tail is kept.
func (r *RingBuffer[T]) WriteWrap(values []T) {
	if len(values) > len(r.Buffer) {
		values = values[len(values)-len(r.Buffer):]
	}
	r.Cursor = (r.Cursor + len(values)) % len(r.Buffer)
	a := min(len(values), r.Cursor)                 // how many values to copy before the cursor
	b := min(len(values)-a, len(r.Buffer)-r.Cursor) // how many values to copy to the end of the buffer
	copy(r.Buffer[r.Cursor-a:r.Cursor], values[len(values)-a:])
	copy(r.Buffer[len(r.Buffer)-b:], values[len(values)-a-b:])
}

func (r *RingBuffer[T]) WriteWrapSingle(value T) {
	r.Cursor = (r.Cursor + 1) % len(r.Buffer)
	r.Buffer[r.Cursor] = value
}

// Ordered copies the contents into dst, oldest first, and returns dst.
func (r *RingBuffer[T]) Ordered(dst []T) []T {
	dst = dst[:0]
	dst = append(dst, r.Buffer[r.Cursor:]...)
	return append(dst, r.Buffer[:r.Cursor]...)
}

func (r *RingBuffer[T]) clear() {
	clear(r.Buffer)
	r.Cursor = 0
}
