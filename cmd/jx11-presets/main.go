package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/export"
	"github.com/jx11synth/jx11/version"
)

func main() {
	help := flag.Bool("h", false, "Show help.")
	show := flag.String("show", "", "Print the parameters of the named preset.")
	exportName := flag.String("export", "", "Export the preset bank using the named template, e.g. presets.h or presets.md.")
	templateDir := flag.String("templates", "", "Directory of custom export templates.")
	output := flag.String("o", "", "Write the export to this file instead of standard output.")
	importFile := flag.String("import", "", "Save a .yml parameter file as a user preset.")
	name := flag.String("name", "", "Name of the imported preset; defaults to the file name.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	var err error
	switch {
	case *importFile != "":
		err = importPreset(*importFile, *name)
	case *exportName != "":
		err = exportBank(*exportName, *templateDir, *output)
	case *show != "":
		err = showPreset(*show)
	default:
		err = listPresets()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func listPresets() error {
	presets, err := jx11.LoadPresets()
	if err != nil {
		return err
	}
	for i, p := range presets {
		user := ""
		if p.User {
			user = " (user)"
		}
		fmt.Printf("%3d %s%s\n", i, p.Name, user)
	}
	return nil
}

func showPreset(name string) error {
	presets, err := jx11.LoadPresets()
	if err != nil {
		return err
	}
	i := presets.Find(name)
	if i < 0 {
		return fmt.Errorf("no preset named %q", name)
	}
	for id := jx11.ParamID(0); id < jx11.NumParams; id++ {
		info := id.Info()
		fmt.Printf("%-16s %10s %s\n", info.DisplayName(), jx11.FormatValue(id, presets[i].Params.Get(id)), info.Label)
	}
	return nil
}

func exportBank(templateName, templateDir, output string) error {
	presets, err := jx11.LoadPresets()
	if err != nil {
		return err
	}
	var e *export.Exporter
	if templateDir != "" {
		e, err = export.NewFromTemplates(templateDir)
	} else {
		e, err = export.New()
	}
	if err != nil {
		return err
	}
	contents, err := e.Bank(presets, templateName)
	if err != nil {
		return fmt.Errorf("%v (available templates: %v)", err, strings.Join(e.Names(), ", "))
	}
	if output == "" {
		fmt.Print(contents)
		return nil
	}
	if err := os.WriteFile(output, []byte(contents), 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", output, err)
	}
	return nil
}

func importPreset(filename, name string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("could not read file %v: %v", filename, err)
	}
	params, err := jx11.UnmarshalParams(data)
	if err != nil {
		return fmt.Errorf("could not parse %v: %w", filename, err)
	}
	if name == "" {
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return jx11.SaveUserPreset(name, params)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "jx11 preset tool: lists, shows, imports and exports presets.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
