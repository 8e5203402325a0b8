//go:build plugin

package main

import (
	"log"
	"sync/atomic"

	"gopkg.in/yaml.v3"
	"pipelined.dev/audio/vst2"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/processor"
)

const (
	pluginName        = "JX11"
	defaultSampleRate = 44100
)

var pluginID = [4]byte{'J', 'X', '1', '1'}

// chunk is the plugin state saved by the host with the project.
type chunk struct {
	Program     int         `yaml:"program"`
	MIDILearnCC int         `yaml:"midilearncc"`
	Params      jx11.Params `yaml:"params"`
}

func init() {
	var (
		version = int32(100)
	)
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		presets, err := jx11.LoadPresets()
		if err != nil {
			log.Printf("could not load presets: %v", err)
		}
		broker := processor.NewBroker()
		go processor.LogAlerts(broker.Alerts)
		var current atomic.Pointer[processor.Processor]
		newProcessor := func(sampleRate float32) *processor.Processor {
			p, err := processor.New(sampleRate, presets, broker)
			if err != nil {
				log.Printf("could not create processor: %v", err)
				return nil
			}
			if old := current.Load(); old != nil {
				p.SetParams(old.Params())
				p.SetMIDILearnCC(old.MIDILearnCC())
			}
			current.Store(p)
			return p
		}
		newProcessor(defaultSampleRate)
		events := &processor.EventSlice{}
		buf := make(jx11.AudioBuffer, 1024)
		return vst2.Plugin{
				UniqueID:       pluginID,
				Version:        version,
				InputChannels:  0,
				OutputChannels: 2,
				Name:           pluginName,
				Vendor:         "jx11synth",
				Category:       vst2.PluginCategorySynth,
				Flags:          vst2.PluginIsSynth,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					p := current.Load()
					if timeInfo := h.GetTimeInfo(0); timeInfo != nil && timeInfo.SampleRate > 0 && float32(timeInfo.SampleRate) != p.SampleRate() {
						if np := newProcessor(float32(timeInfo.SampleRate)); np != nil {
							p = np
						}
					}
					left := out.Channel(0)
					right := out.Channel(1)
					if len(buf) < out.Frames {
						buf = append(buf, make(jx11.AudioBuffer, out.Frames-len(buf))...)
					}
					buf = buf[:out.Frames]
					p.ProcessBuffer(buf, events)
					buf.Deinterleave(left, right)
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveEvents, vst2.PluginCanReceiveMIDIEvent, vst2.PluginCanReceiveTimeInfo:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				ProcessEventsFunc: func(ev *vst2.EventsPtr) {
					for i := 0; i < ev.NumEvents(); i++ {
						switch v := ev.Event(i).(type) {
						case *vst2.MIDIEvent:
							if e, ok := jx11.MakeMIDIEvent(int(v.DeltaFrames), v.Data[:]); ok {
								events.Add(e)
							}
						}
					}
				},
				GetChunkFunc: func(isPreset bool) []byte {
					p := current.Load()
					data, err := yaml.Marshal(chunk{Program: p.CurrentProgram(), MIDILearnCC: int(p.MIDILearnCC()), Params: p.Params()})
					if err != nil {
						log.Printf("could not save state: %v", err)
						return nil
					}
					return data
				},
				SetChunkFunc: func(data []byte, isPreset bool) {
					c := chunk{Params: jx11.DefaultParams(), MIDILearnCC: jx11.CCResonance}
					if err := yaml.Unmarshal(data, &c); err != nil {
						log.Printf("could not restore state: %v", err)
						return
					}
					p := current.Load()
					p.SelectPreset(c.Program) // selects the program; the saved values win
					p.SetParams(c.Params)
					p.SetMIDILearnCC(byte(c.MIDILearnCC))
				},
			}
	}
}

func main() {}
