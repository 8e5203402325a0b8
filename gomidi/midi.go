// Package gomidi reads live MIDI input with gomidi and the rtmidi driver and
// feeds it to a processor.EventQueue.
package gomidi

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/processor"
)

type (
	RTMIDIContext struct {
		driver             *rtmididrv.Driver
		currentIn          drivers.In
		stop               func()
		inputDevices       []RTMIDIDevice
		devicesInitialized bool
		queue              *processor.EventQueue
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}
)

// NewContext opens the driver. Received messages are pushed to queue. If the
// driver cannot be opened, the context has no input devices.
func NewContext(queue *processor.EventQueue) *RTMIDIContext {
	m := RTMIDIContext{queue: queue}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	return &m
}

// InputDevices lists the MIDI inputs. The list is read from the driver once
// and cached.
func (m *RTMIDIContext) InputDevices() iter.Seq[RTMIDIDevice] {
	return func(yield func(RTMIDIDevice) bool) {
		if !m.devicesInitialized {
			m.initInputDevices()
		}
		for _, device := range m.inputDevices {
			if !yield(device) {
				return
			}
		}
	}
}

// InputNames returns the names of the MIDI inputs.
func (m *RTMIDIContext) InputNames() []string {
	var ret []string
	for d := range m.InputDevices() {
		ret = append(ret, d.String())
	}
	return ret
}

func (m *RTMIDIContext) initInputDevices() {
	if m.driver == nil {
		return
	}
	ins, err := m.driver.Ins()
	if err != nil {
		return
	}
	for _, in := range ins {
		m.inputDevices = append(m.inputDevices, RTMIDIDevice{context: m, in: in})
	}
	m.devicesInitialized = true
}

// Open an input device while closing the currently open if necessary.
func (d RTMIDIDevice) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	c.closeInput()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, c.HandleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.currentIn, c.stop = d.in, stop
	return nil
}

func (d RTMIDIDevice) String() string {
	return d.in.String()
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	c.closeInput()
	c.driver.Close()
}

func (c *RTMIDIContext) closeInput() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.currentIn = nil
}

func (c *RTMIDIContext) HasDeviceOpen() bool {
	return c.currentIn != nil && c.currentIn.IsOpen()
}

// TryToOpenBy opens the first input whose name starts with namePrefix, or the
// first input of all if takeFirst is set.
func (c *RTMIDIContext) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if namePrefix == "" && !takeFirst {
		return nil
	}
	for input := range c.InputDevices() {
		if takeFirst || strings.HasPrefix(input.String(), namePrefix) {
			return input.Open()
		}
	}
	if takeFirst {
		return errors.New("could not find any MIDI input")
	}
	return fmt.Errorf("could not find any MIDI input starting with %q", namePrefix)
}

// HandleMessage is called by the driver for every message. Sysex and other
// long messages are dropped.
func (c *RTMIDIContext) HandleMessage(msg midi.Message, timestampms int32) {
	ev, ok := jx11.MakeMIDIEvent(0, msg.Bytes())
	if !ok || ev.Status >= 0xF0 {
		return
	}
	// if the queue is full, just drop the message
	c.queue.Push(ev, time.Duration(timestampms)*time.Millisecond)
}
