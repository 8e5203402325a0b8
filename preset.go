package jx11

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed presets/factory.yml
var factoryBank []byte

type (
	// Preset is a named set of parameters. User presets are loaded from the
	// user config directory; the rest come from the factory bank compiled
	// into the binary.
	Preset struct {
		Name   string
		User   bool
		Params Params
	}

	// Presets is an ordered preset bank. MIDI program change messages index
	// into it.
	Presets []Preset

	bankEntry struct {
		Name   string    `yaml:"name"`
		Values []float32 `yaml:"values"`
	}
)

// UserPresetDir returns the directory where user presets are stored, or an
// error if the user config directory cannot be determined.
func UserPresetDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot find user config dir: %w", err)
	}
	return filepath.Join(configDir, "jx11", "presets"), nil
}

// FactoryPresets parses the bank compiled into the binary.
func FactoryPresets() (Presets, error) {
	return ParseBank(factoryBank)
}

// ParseBank parses a preset bank: a YAML list of names with values listed in
// ParamID order.
func ParseBank(data []byte) (Presets, error) {
	var entries []bankEntry
	if err := yaml.UnmarshalStrict(data, &entries); err != nil {
		return nil, fmt.Errorf("yaml.UnmarshalStrict failed: %w", err)
	}
	ret := make(Presets, 0, len(entries))
	for i, e := range entries {
		if len(e.Values) != int(NumParams) {
			return nil, fmt.Errorf("preset %d (%q) has %d values, expected %d", i, e.Name, len(e.Values), NumParams)
		}
		var p Params
		for j, v := range e.Values {
			p.Set(ParamID(j), v)
		}
		ret = append(ret, Preset{Name: e.Name, Params: p})
	}
	return ret, nil
}

// LoadPresets returns the factory bank followed by the user presets, sorted by
// name. Unreadable user presets are skipped.
func LoadPresets() (Presets, error) {
	ret, err := FactoryPresets()
	if err != nil {
		return nil, err
	}
	dir, err := UserPresetDir()
	if err != nil {
		return ret, nil
	}
	user := loadPresetsFromFs(os.DirFS(dir), true)
	sort.Slice(user, func(i, j int) bool { return user[i].Name < user[j].Name })
	return append(ret, user...), nil
}

func loadPresetsFromFs(fsys fs.FS, userDefined bool) Presets {
	var ret Presets
	fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		if params, err := UnmarshalParams(data); err == nil {
			name := filenameToPresetName(filepath.Base(path[:len(path)-len(ext)]))
			ret = append(ret, Preset{Name: name, User: userDefined, Params: params})
		}
		return nil
	})
	return ret
}

// UnmarshalParams parses a YAML map of parameter keys to values. Missing keys
// keep their default values; unknown keys are an error.
func UnmarshalParams(data []byte) (Params, error) {
	p := DefaultParams()
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return Params{}, fmt.Errorf("yaml.UnmarshalStrict failed: %w", err)
	}
	return p.Clamp(), nil
}

// SaveUserPreset writes the preset to the user preset directory, overwriting
// any preset with the same name.
func SaveUserPreset(name string, params Params) error {
	dir, err := UserPresetDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create preset dir: %w", err)
	}
	data, err := yaml.Marshal(&params)
	if err != nil {
		return fmt.Errorf("yaml.Marshal failed: %w", err)
	}
	filename := filepath.Join(dir, PresetNameToFilename(name)+".yml")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("cannot write preset: %w", err)
	}
	return nil
}

// Find returns the index of the first preset with the given name
// (case-insensitive), or -1.
func (ps Presets) Find(name string) int {
	for i, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

func filenameToPresetName(filename string) string {
	return strings.ReplaceAll(filename, "_", " ")
}

var nonFilenameChars = regexp.MustCompile("[^a-zA-Z0-9 _]+")

func PresetNameToFilename(name string) string {
	name = nonFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	return strings.ReplaceAll(name, " ", "_")
}
