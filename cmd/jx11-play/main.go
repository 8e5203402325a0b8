package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/cmd"
	"github.com/jx11synth/jx11/meter"
	"github.com/jx11synth/jx11/oto"
	"github.com/jx11synth/jx11/processor"
	"github.com/jx11synth/jx11/version"
)

var (
	cpuprofile       = flag.String("cpuprofile", "", "write cpu profile to `file`")
	defaultMidiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix; by default, the first input is used")
	listMidi         = flag.Bool("list", false, "list MIDI inputs and exit")
	presetName       = flag.String("preset", "", "start with the named preset")
	sampleRate       = flag.Int("rate", 44100, "sample rate in Hz")
	latency          = flag.Duration("latency", 20*time.Millisecond, "audio buffer length")
	showMeter        = flag.Bool("meter", false, "log the output level every second")
	versionFlag      = flag.Bool("v", false, "print version")
)

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	broker := processor.NewBroker()
	queue := processor.NewEventQueue(*sampleRate)
	midiInput := cmd.NewMIDIInput(queue)
	defer midiInput.Close()
	if *listMidi {
		for _, name := range midiInput.InputNames() {
			fmt.Println(name)
		}
		return
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}
	presets, err := jx11.LoadPresets()
	if err != nil {
		log.Fatal("could not load presets: ", err)
	}
	p, err := processor.New(float32(*sampleRate), presets, broker)
	if err != nil {
		log.Fatal(err)
	}
	if *presetName != "" {
		i := presets.Find(*presetName)
		if i < 0 {
			log.Fatalf("no preset named %q", *presetName)
		}
		p.SelectPreset(i)
	}
	if err := midiInput.TryToOpenBy(*defaultMidiInput, *defaultMidiInput == ""); err != nil {
		log.Printf("failed to open MIDI input: %v", err)
	}
	audioContext, err := oto.NewContext(*sampleRate, *latency)
	if err != nil {
		log.Fatal(err)
	}
	go processor.LogAlerts(broker.Alerts)
	m := meter.New(broker, float32(*sampleRate), 1)
	go m.Run()
	go logMeter(m.Results, *showMeter)

	audioCloser := audioContext.Play(func(buf jx11.AudioBuffer) error {
		p.ProcessBuffer(buf, queue)
		return nil
	})
	log.Printf("playing %q, press Ctrl+C to quit", presets[p.CurrentProgram()].Name)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	audioCloser.Close()
	audioContext.Close()
}

// logMeter drains the meter results, logging one in ten (once a second) if
// enabled.
func logMeter(results <-chan meter.Result, enabled bool) {
	n := 0
	for r := range results {
		n++
		if !enabled || n%10 != 0 {
			continue
		}
		log.Printf("peak %5.1f/%5.1f dB, rms %5.1f/%5.1f dB, momentary %5.1f LUFS",
			max(r.PeakHold[0], -99), max(r.PeakHold[1], -99), max(r.RMS[0], -99), max(r.RMS[1], -99), max(r.Momentary, -99))
	}
}
