package meter

import "testing"

func TestRingBufferWriteWrap(t *testing.T) {
	r := RingBuffer[int]{Buffer: make([]int, 4)}
	r.WriteWrap([]int{1, 2, 3})
	r.WriteWrap([]int{4, 5})
	got := r.Ordered(nil)
	want := []int{2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	r.WriteWrap([]int{6, 7, 8, 9, 10, 11})
	got = r.Ordered(got)
	want = []int{8, 9, 10, 11}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRingBufferWriteWrapSingle(t *testing.T) {
	r := RingBuffer[float32]{Buffer: make([]float32, 3)}
	for _, v := range []float32{1, 2, 3, 4} {
		r.WriteWrapSingle(v)
	}
	var sum float32
	for _, v := range r.Buffer {
		sum += v
	}
	if sum != 9 {
		t.Fatalf("expected the last three values to sum to 9, got %v", sum)
	}
}
