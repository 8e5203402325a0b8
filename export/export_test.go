package export_test

import (
	"strings"
	"testing"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/export"
)

func TestBank(t *testing.T) {
	presets, err := jx11.FactoryPresets()
	if err != nil {
		t.Fatalf("FactoryPresets failed: %v", err)
	}
	e, err := export.New()
	if err != nil {
		t.Fatalf("export.New failed: %v", err)
	}
	names := e.Names()
	if len(names) != 2 || names[0] != "presets.h" || names[1] != "presets.md" {
		t.Fatalf("unexpected templates %v", names)
	}
	header, err := e.Bank(presets, "presets.h")
	if err != nil {
		t.Fatalf("Bank failed: %v", err)
	}
	for _, want := range []string{
		"NUM_PRESETS = 11;",
		"NUM_PARAMS = 26;",
		`{ "Init", { 0.00f, -12.00f, 0.00f,`,
		"PRESET_INIT = 0,",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header does not contain %q:\n%v", want, header)
		}
	}
	doc, err := e.Bank(presets, "presets.md")
	if err != nil {
		t.Fatalf("Bank failed: %v", err)
	}
	for _, want := range []string{
		"## 11. Bubble",
		"| Filter Reso | 15 % |",
		"| Polyphony | Mono |",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("documentation does not contain %q", want)
		}
	}
	if _, err := e.Bank(presets, "missing.txt"); err == nil {
		t.Fatalf("expected an error for a missing template")
	}
}
