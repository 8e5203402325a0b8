// Package oto plays audio on the default sound card with ebitengine/oto.
package oto

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/jx11synth/jx11"
)

type (
	// Context is a jx11.AudioContext on top of an oto context. oto allows
	// only one context per process.
	Context struct {
		ctx *oto.Context
	}

	// playback pulls audio from the render callback whenever oto asks for
	// more, so the callback runs on oto's goroutine.
	playback struct {
		player *oto.Player
		render func(buf jx11.AudioBuffer) error

		buf     jx11.AudioBuffer
		pending []byte
		err     error

		done      chan struct{}
		closeOnce sync.Once
	}
)

const bytesPerFrame = 8 // stereo float32

// NewContext opens the sound card. bufferSize is the latency oto should aim
// for; zero lets oto decide.
func NewContext(sampleRate int, bufferSize time.Duration) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// Play starts pulling audio from render and returns immediately.
func (c *Context) Play(render func(buf jx11.AudioBuffer) error) jx11.CloserWaiter {
	p := &playback{render: render, done: make(chan struct{})}
	p.player = c.ctx.NewPlayer(p)
	p.player.Play()
	return p
}

// Close suspends the sound card. oto contexts cannot be destroyed.
func (c *Context) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Read implements io.Reader for the oto player.
func (p *playback) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		if len(p.pending) == 0 {
			if p.err != nil {
				break
			}
			frames := max((len(b)-n)/bytesPerFrame, 1)
			if cap(p.buf) < frames {
				p.buf = make(jx11.AudioBuffer, frames)
			}
			p.buf = p.buf[:frames]
			if p.err = p.render(p.buf); p.err != nil {
				p.finish()
				break
			}
			p.pending = FloatBufferTo32BitLE(p.buf, p.pending[:0])
		}
		c := copy(b[n:], p.pending)
		p.pending = p.pending[c:]
		n += c
	}
	if n == 0 && p.err != nil {
		return 0, io.EOF
	}
	return n, nil
}

// Wait blocks until render has returned an error and oto has played the
// rest, or until the playback is closed.
func (p *playback) Wait() {
	<-p.done
	for p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

func (p *playback) Close() error {
	p.finish()
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	if p.err != nil && !errors.Is(p.err, io.EOF) {
		return p.err
	}
	return nil
}

func (p *playback) finish() {
	p.closeOnce.Do(func() { close(p.done) })
}
