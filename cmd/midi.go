package cmd

// MIDIInput is a source of live MIDI input. Received events are pushed to the
// processor.EventQueue given when the input was created.
type MIDIInput interface {
	// TryToOpenBy opens the first input whose name starts with namePrefix,
	// or the first input of all if takeFirst is set.
	TryToOpenBy(namePrefix string, takeFirst bool) error
	InputNames() []string
	Close()
}
