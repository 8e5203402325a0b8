//go:build cgo

package cmd

import (
	"github.com/jx11synth/jx11/gomidi"
	"github.com/jx11synth/jx11/processor"
)

func NewMIDIInput(queue *processor.EventQueue) MIDIInput {
	return gomidi.NewContext(queue)
}
