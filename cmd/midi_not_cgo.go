//go:build !cgo

package cmd

import (
	"errors"

	"github.com/jx11synth/jx11/processor"
)

// NullMIDIInput has no devices.
type NullMIDIInput struct{}

func (NullMIDIInput) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if namePrefix == "" && !takeFirst {
		return nil
	}
	return errors.New("MIDI input is not available: built without cgo")
}

func (NullMIDIInput) InputNames() []string { return nil }
func (NullMIDIInput) Close()               {}

func NewMIDIInput(queue *processor.EventQueue) MIDIInput {
	// with no cgo, we cannot use MIDI, so return a null input
	return NullMIDIInput{}
}
