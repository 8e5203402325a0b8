// Package export turns preset banks into source files and documentation
// using text/template and the sprig function library.
package export

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/version"
)

type (
	Exporter struct {
		Template *template.Template
	}

	// bankData is the data passed to the templates. Its methods are
	// available to the templates as e.g. {{$.Values .Params}}.
	bankData struct {
		Version string
		Presets jx11.Presets
		Params  []jx11.ParamInfo
	}
)

//go:embed templates/*
var templateFS embed.FS

// New returns an exporter using the built-in templates.
func New() (*Exporter, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Exporter{Template: tmpl}, nil
}

// NewFromTemplates returns an exporter using the templates found in
// templateDirectory instead of the built-in ones.
func NewFromTemplates(templateDirectory string) (*Exporter, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Exporter{Template: tmpl}, nil
}

// Names lists the templates that can be passed to Bank, e.g. "presets.h".
func (e *Exporter) Names() []string {
	var ret []string
	for _, t := range e.Template.Templates() {
		if filepath.Ext(t.Name()) != "" {
			ret = append(ret, t.Name())
		}
	}
	sort.Strings(ret)
	return ret
}

// Bank executes the named template on the preset bank.
func (e *Exporter) Bank(presets jx11.Presets, templateName string) (string, error) {
	data := bankData{
		Version: version.VersionOrHash,
		Presets: presets,
		Params:  jx11.ParamInfos[:],
	}
	var result bytes.Buffer
	if err := e.Template.ExecuteTemplate(&result, templateName, &data); err != nil {
		return "", fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
	}
	return result.String(), nil
}

// Values returns the values of p in ParamID order, formatted as C floats.
func (d *bankData) Values(p jx11.Params) []string {
	ret := make([]string, jx11.NumParams)
	for i := range ret {
		ret[i] = fmt.Sprintf("%.2ff", p.Get(jx11.ParamID(i)))
	}
	return ret
}

// Display returns parameter id of p as shown to the user, with its unit.
func (d *bankData) Display(p jx11.Params, id int) string {
	pid := jx11.ParamID(id)
	s := jx11.FormatValue(pid, p.Get(pid))
	if label := pid.Info().Label; label != "" {
		s += " " + label
	}
	return s
}

func (d *bankData) Identifier(name string) string {
	return jx11.PresetNameToFilename(name)
}
