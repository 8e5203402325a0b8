package jx11

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type (
	// Params is the complete set of user-facing parameters of the synth, in
	// the units shown to the user (percent, semitones, cents, dB...). The
	// synth converts them to internal coefficients in Synth.Update.
	Params struct {
		OscMix         float32 `yaml:"oscmix" json:"oscMix"`
		OscTune        float32 `yaml:"osctune" json:"oscTune"`
		OscFine        float32 `yaml:"oscfine" json:"oscFine"`
		GlideMode      float32 `yaml:"glidemode" json:"glideMode"`
		GlideRate      float32 `yaml:"gliderate" json:"glideRate"`
		GlideBend      float32 `yaml:"glidebend" json:"glideBend"`
		FilterFreq     float32 `yaml:"filterfreq" json:"filterFreq"`
		FilterReso     float32 `yaml:"filterreso" json:"filterReso"`
		FilterEnv      float32 `yaml:"filterenv" json:"filterEnv"`
		FilterLFO      float32 `yaml:"filterlfo" json:"filterLFO"`
		FilterVelocity float32 `yaml:"filtervelocity" json:"filterVelocity"`
		FilterAttack   float32 `yaml:"filterattack" json:"filterAttack"`
		FilterDecay    float32 `yaml:"filterdecay" json:"filterDecay"`
		FilterSustain  float32 `yaml:"filtersustain" json:"filterSustain"`
		FilterRelease  float32 `yaml:"filterrelease" json:"filterRelease"`
		EnvAttack      float32 `yaml:"envattack" json:"envAttack"`
		EnvDecay       float32 `yaml:"envdecay" json:"envDecay"`
		EnvSustain     float32 `yaml:"envsustain" json:"envSustain"`
		EnvRelease     float32 `yaml:"envrelease" json:"envRelease"`
		LFORate        float32 `yaml:"lforate" json:"lfoRate"`
		Vibrato        float32 `yaml:"vibrato" json:"vibrato"`
		Noise          float32 `yaml:"noise" json:"noise"`
		Octave         float32 `yaml:"octave" json:"octave"`
		Tuning         float32 `yaml:"tuning" json:"tuning"`
		OutputLevel    float32 `yaml:"outputlevel" json:"outputLevel"`
		PolyMode       float32 `yaml:"polymode" json:"polyMode"`
	}

	// ParamID indexes a parameter. The order is the order in which preset
	// banks list the values.
	ParamID int

	// ParamInfo describes the range, default and presentation of a single
	// parameter.
	ParamInfo struct {
		Key     string // identifier used in files, e.g. "filterreso"
		Name    string // human readable name, lower case, e.g. "filter reso"
		Label   string // unit label, e.g. "%"
		Min     float32
		Max     float32
		Step    float32 // 0 means continuous
		Default float32
		Choices []string // non-nil for choice parameters; value is the index
	}
)

const (
	OscMix ParamID = iota
	OscTune
	OscFine
	GlideMode
	GlideRate
	GlideBend
	FilterFreq
	FilterReso
	FilterEnv
	FilterLFO
	FilterVelocity
	FilterAttack
	FilterDecay
	FilterSustain
	FilterRelease
	EnvAttack
	EnvDecay
	EnvSustain
	EnvRelease
	LFORate
	Vibrato
	Noise
	Octave
	Tuning
	OutputLevel
	PolyMode
	NumParams
)

// Glide modes, as stored in Params.GlideMode.
const (
	GlideOff = iota
	GlideLegato
	GlideAlways
)

// FilterVelocityOff is the threshold below which velocity is ignored
// completely.
const FilterVelocityOff = -90

var ParamInfos = [NumParams]ParamInfo{
	OscMix:         {Key: "oscmix", Name: "osc mix", Label: "%", Min: 0, Max: 100, Default: 0},
	OscTune:        {Key: "osctune", Name: "osc tune", Label: "semi", Min: -24, Max: 24, Step: 1, Default: -12},
	OscFine:        {Key: "oscfine", Name: "osc fine", Label: "cent", Min: -50, Max: 50, Step: 0.1, Default: 0},
	GlideMode:      {Key: "glidemode", Name: "glide mode", Min: 0, Max: 2, Step: 1, Default: GlideOff, Choices: []string{"Off", "Legato", "Always"}},
	GlideRate:      {Key: "gliderate", Name: "glide rate", Label: "%", Min: 0, Max: 100, Step: 1, Default: 35},
	GlideBend:      {Key: "glidebend", Name: "glide bend", Label: "semi", Min: -36, Max: 36, Step: 0.01, Default: 0},
	FilterFreq:     {Key: "filterfreq", Name: "filter freq", Label: "%", Min: 0, Max: 100, Step: 0.1, Default: 100},
	FilterReso:     {Key: "filterreso", Name: "filter reso", Label: "%", Min: 0, Max: 100, Step: 1, Default: 15},
	FilterEnv:      {Key: "filterenv", Name: "filter env", Label: "%", Min: -100, Max: 100, Step: 0.1, Default: 50},
	FilterLFO:      {Key: "filterlfo", Name: "filter lfo", Label: "%", Min: 0, Max: 100, Step: 1, Default: 0},
	FilterVelocity: {Key: "filtervelocity", Name: "velocity", Label: "%", Min: -100, Max: 100, Step: 1, Default: 0},
	FilterAttack:   {Key: "filterattack", Name: "filter attack", Label: "%", Min: 0, Max: 100, Step: 1, Default: 0},
	FilterDecay:    {Key: "filterdecay", Name: "filter decay", Label: "%", Min: 0, Max: 100, Step: 1, Default: 30},
	FilterSustain:  {Key: "filtersustain", Name: "filter sustain", Label: "%", Min: 0, Max: 100, Step: 1, Default: 0},
	FilterRelease:  {Key: "filterrelease", Name: "filter release", Label: "%", Min: 0, Max: 100, Step: 1, Default: 25},
	EnvAttack:      {Key: "envattack", Name: "env attack", Label: "%", Min: 0, Max: 100, Step: 1, Default: 0},
	EnvDecay:       {Key: "envdecay", Name: "env decay", Label: "%", Min: 0, Max: 100, Step: 1, Default: 50},
	EnvSustain:     {Key: "envsustain", Name: "env sustain", Label: "%", Min: 0, Max: 100, Step: 1, Default: 100},
	EnvRelease:     {Key: "envrelease", Name: "env release", Label: "%", Min: 0, Max: 100, Step: 1, Default: 30},
	LFORate:        {Key: "lforate", Name: "lfo rate", Label: "Hz", Min: 0, Max: 1, Default: 0.81},
	Vibrato:        {Key: "vibrato", Name: "vibrato", Label: "%", Min: -100, Max: 100, Step: 0.1, Default: 0},
	Noise:          {Key: "noise", Name: "noise", Label: "%", Min: 0, Max: 100, Step: 1, Default: 0},
	Octave:         {Key: "octave", Name: "octave", Min: -2, Max: 2, Step: 1, Default: 0},
	Tuning:         {Key: "tuning", Name: "tuning", Label: "cent", Min: -100, Max: 100, Step: 0.1, Default: 0},
	OutputLevel:    {Key: "outputlevel", Name: "output level", Label: "dB", Min: -24, Max: 6, Step: 0.1, Default: 0},
	PolyMode:       {Key: "polymode", Name: "polyphony", Min: 0, Max: 1, Step: 1, Default: 1, Choices: []string{"Mono", "Poly"}},
}

var ErrUnknownParam = errors.New("unknown parameter")

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// DefaultParams returns the parameters with every value at its default,
// which is also the "Init" preset.
func DefaultParams() Params {
	var p Params
	for i, info := range ParamInfos {
		*p.Ref(ParamID(i)) = info.Default
	}
	return p
}

// Ref returns a pointer to the field of p corresponding to id, or nil if the
// id is out of range.
func (p *Params) Ref(id ParamID) *float32 {
	switch id {
	case OscMix:
		return &p.OscMix
	case OscTune:
		return &p.OscTune
	case OscFine:
		return &p.OscFine
	case GlideMode:
		return &p.GlideMode
	case GlideRate:
		return &p.GlideRate
	case GlideBend:
		return &p.GlideBend
	case FilterFreq:
		return &p.FilterFreq
	case FilterReso:
		return &p.FilterReso
	case FilterEnv:
		return &p.FilterEnv
	case FilterLFO:
		return &p.FilterLFO
	case FilterVelocity:
		return &p.FilterVelocity
	case FilterAttack:
		return &p.FilterAttack
	case FilterDecay:
		return &p.FilterDecay
	case FilterSustain:
		return &p.FilterSustain
	case FilterRelease:
		return &p.FilterRelease
	case EnvAttack:
		return &p.EnvAttack
	case EnvDecay:
		return &p.EnvDecay
	case EnvSustain:
		return &p.EnvSustain
	case EnvRelease:
		return &p.EnvRelease
	case LFORate:
		return &p.LFORate
	case Vibrato:
		return &p.Vibrato
	case Noise:
		return &p.Noise
	case Octave:
		return &p.Octave
	case Tuning:
		return &p.Tuning
	case OutputLevel:
		return &p.OutputLevel
	case PolyMode:
		return &p.PolyMode
	}
	return nil
}

func (p Params) Get(id ParamID) float32 {
	if r := p.Ref(id); r != nil {
		return *r
	}
	return 0
}

// Set sets the parameter to value, clamped to the range of the parameter.
func (p *Params) Set(id ParamID, value float32) {
	if r := p.Ref(id); r != nil {
		*r = ParamInfos[id].Clamp(value)
	}
}

// SetByKey is like Set but finds the parameter using its key.
func (p *Params) SetByKey(key string, value float32) error {
	id, ok := ParamByKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	p.Set(id, value)
	return nil
}

// Clamp returns a copy of p with every value clamped to its range.
func (p Params) Clamp() Params {
	for i := ParamID(0); i < NumParams; i++ {
		p.Set(i, p.Get(i))
	}
	return p
}

func ParamByKey(key string) (ParamID, bool) {
	for i, info := range ParamInfos {
		if info.Key == key {
			return ParamID(i), true
		}
	}
	return 0, false
}

func (id ParamID) Info() ParamInfo {
	if id < 0 || id >= NumParams {
		return ParamInfo{}
	}
	return ParamInfos[id]
}

func (id ParamID) String() string {
	return id.Info().Key
}

// Clamp clamps v to the range of the parameter. Stepped parameters are not
// quantized; hosts are free to send in between values.
func (p ParamInfo) Clamp(v float32) float32 {
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// DisplayName returns the name of the parameter in title case, e.g. "Filter
// Reso".
func (p ParamInfo) DisplayName() string {
	return titleCaser.String(p.Name)
}

// Normalize maps v from the range of the parameter to 0..1. Hosts such as VST2
// see parameters only in normalized form.
func (p ParamInfo) Normalize(v float32) float32 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Clamp(v) - p.Min) / (p.Max - p.Min)
}

// Denormalize is the inverse of Normalize.
func (p ParamInfo) Denormalize(n float32) float32 {
	return p.Clamp(p.Min + n*(p.Max-p.Min))
}

// FormatValue renders the value of parameter id the way it is shown to the
// user, without the unit label.
func FormatValue(id ParamID, v float32) string {
	info := id.Info()
	if info.Choices != nil {
		i := int(v + 0.5)
		if i < 0 {
			i = 0
		}
		if i >= len(info.Choices) {
			i = len(info.Choices) - 1
		}
		return info.Choices[i]
	}
	switch id {
	case OscMix:
		return printer.Sprintf("%4.0f:%2.0f", 100-0.5*v, 0.5*v)
	case FilterVelocity:
		if v < FilterVelocityOff {
			return "OFF"
		}
		return printer.Sprintf("%.0f", v)
	case LFORate:
		return printer.Sprintf("%.3f", LFORateHz(v))
	case Vibrato:
		if v < 0 {
			return printer.Sprintf("PWM %.1f", -v)
		}
		return printer.Sprintf("%.1f", v)
	case GlideBend:
		return printer.Sprintf("%.2f", v)
	case Octave, OscTune:
		return printer.Sprintf("%.0f", v)
	}
	if info.Step >= 1 {
		return printer.Sprintf("%.0f", v)
	}
	return printer.Sprintf("%.1f", v)
}

// LFORateHz maps the normalized LFO rate knob to a frequency in Hz.
func LFORateHz(v float32) float32 {
	return math32.Exp(7*v - 4)
}
